package service

import (
	"github.com/mmeshcher/ucp-checkout/internal/checkout"
	"github.com/mmeshcher/ucp-checkout/internal/model"
)

const (
	CapabilityCheckout    = "dev.ucp.shopping.checkout"
	CapabilityFulfillment = "dev.ucp.shopping.fulfillment"
	CapabilityDiscount    = "dev.ucp.shopping.discount"

	PaymentHandlerName = "dev.ucp.demo.mock_tokenizer"
	PaymentHandlerID   = "mock_tokenizer_001"
)

var capabilities = []string{CapabilityCheckout, CapabilityFulfillment, CapabilityDiscount}

func ucpMetadata() model.UCPMetadata {
	caps := make(map[string][]model.CapabilityVersion, len(capabilities))
	for _, c := range capabilities {
		caps[c] = []model.CapabilityVersion{{Version: ProtocolVersion}}
	}

	return model.UCPMetadata{
		Version:      ProtocolVersion,
		Capabilities: caps,
		PaymentHandlers: map[string][]model.PaymentHandlerRef{
			PaymentHandlerName: {{ID: PaymentHandlerID, Version: ProtocolVersion}},
		},
	}
}

func deriveStatus(session *model.Session) model.CheckoutStatus {
	if session.IsTerminal() {
		return session.Terminal
	}
	messages := checkout.BuildMessages(session.LineItems, session.Fulfillment)
	return checkout.DetermineStatus(session.LineItems, session.Fulfillment, messages)
}

// view строит ответ по сохранённым фактам сессии.
// Статус хранится только для конечных состояний, остальное вычисляется заново.
func (s *Service) view(session *model.Session) *model.CheckoutView {
	messages := checkout.BuildMessages(session.LineItems, session.Fulfillment)

	status := session.Terminal
	if !status.IsTerminal() {
		status = checkout.DetermineStatus(session.LineItems, session.Fulfillment, messages)
	}

	var options []model.FulfillmentOption
	if session.Fulfillment != nil {
		options = session.Fulfillment.AvailableOptions
	}

	lineItems := session.LineItems
	if lineItems == nil {
		lineItems = []model.LineItem{}
	}
	discounts := session.Discounts
	if discounts == nil {
		discounts = []model.Discount{}
	}

	return &model.CheckoutView{
		UCP:         ucpMetadata(),
		ID:          session.ID,
		Status:      status,
		Currency:    checkout.Currency,
		LineItems:   lineItems,
		Buyer:       session.Buyer,
		Fulfillment: session.Fulfillment,
		Discounts:   discounts,
		Totals:      checkout.ComputeTotals(session.LineItems, session.Discounts, session.Fulfillment, options),
		Messages:    messages,
		Links: []model.Link{
			{Type: "privacy_policy", Href: "https://example.com/privacy", Title: "Privacy Policy"},
			{Type: "terms_of_service", Href: "https://example.com/terms", Title: "Terms of Service"},
		},
		ContinueURL: s.baseURL + "/checkout/" + session.ID,
		Order:       session.Order,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		ExpiresAt:   session.ExpiresAt,
	}
}

// Profile возвращает профиль обнаружения для /.well-known/ucp.
func (s *Service) Profile() model.Profile {
	caps := map[string][]model.CapabilityDescriptor{
		CapabilityCheckout: {{
			Version: ProtocolVersion,
			Spec:    "https://ucp.dev/specification/checkout",
			Schema:  "https://ucp.dev/schemas/shopping/checkout.json",
		}},
		CapabilityFulfillment: {{
			Version: ProtocolVersion,
			Spec:    "https://ucp.dev/specification/fulfillment",
			Schema:  "https://ucp.dev/schemas/shopping/fulfillment.json",
			Extends: CapabilityCheckout,
		}},
		CapabilityDiscount: {{
			Version: ProtocolVersion,
			Spec:    "https://ucp.dev/specification/discount",
			Schema:  "https://ucp.dev/schemas/shopping/discount.json",
			Extends: CapabilityCheckout,
		}},
	}

	return model.Profile{
		UCP: model.ProfileBody{
			Version: ProtocolVersion,
			Services: map[string][]model.ServiceBinding{
				"dev.ucp.shopping": {{
					Version:   ProtocolVersion,
					Spec:      "https://ucp.dev/specification/overview",
					Transport: "rest",
					Endpoint:  s.baseURL + "/api/v1",
					Schema:    "https://ucp.dev/services/shopping/rest.openapi.json",
				}},
			},
			Capabilities: caps,
			PaymentHandlers: map[string][]model.PaymentHandlerDescriptor{
				PaymentHandlerName: {{
					ID:      PaymentHandlerID,
					Version: ProtocolVersion,
					Spec:    "https://ucp.dev/specification/tokenization-guide",
					Config: map[string]any{
						"type":               "CARD",
						"supported_networks": []string{"visa", "mastercard", "amex"},
						"tokenization_url":   s.baseURL + "/api/v1/tokenize",
					},
				}},
			},
		},
	}
}

// BusinessInfo возвращает сведения о магазине.
func (s *Service) BusinessInfo() model.BusinessInfo {
	return model.BusinessInfo{
		Name:          s.businessName,
		Description:   "Your neighborhood coffee shop, now UCP-enabled!",
		LogoURL:       "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=100",
		UCPProfileURL: "/.well-known/ucp",
		Capabilities:  append([]string(nil), capabilities...),
	}
}
