package model

import (
	"encoding/json"
	"time"
)

// LineItemRequest это позиция корзины в запросе платформы.
type LineItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// UnmarshalJSON подставляет количество 1, если поле quantity не передано.
// Явно переданное значение сохраняется как есть и проверяется сервисом.
func (r *LineItemRequest) UnmarshalJSON(data []byte) error {
	type plain LineItemRequest
	v := plain{Quantity: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = LineItemRequest(v)
	return nil
}

// FulfillmentRequest это выбор способа получения в запросе платформы.
type FulfillmentRequest struct {
	Address          *PostalAddress `json:"address,omitempty"`
	SelectedOptionID string         `json:"selected_option_id,omitempty"`
}

// CheckoutRequest это полное состояние сессии, присылаемое при создании и замене.
type CheckoutRequest struct {
	LineItems     []LineItemRequest   `json:"line_items"`
	Buyer         *Buyer              `json:"buyer,omitempty"`
	Fulfillment   *FulfillmentRequest `json:"fulfillment,omitempty"`
	DiscountCodes []string            `json:"discount_codes,omitempty"`
}

// CompleteRequest это запрос на завершение сессии.
type CompleteRequest struct {
	Payment *Payment `json:"payment"`
}

// CapabilityVersion это версия поддерживаемой возможности протокола.
type CapabilityVersion struct {
	Version string `json:"version"`
}

// PaymentHandlerRef это ссылка на обработчик платежей в метаданных ответа.
type PaymentHandlerRef struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// UCPMetadata это метаданные протокола, прикладываемые к каждому ответу.
type UCPMetadata struct {
	Version         string                         `json:"version"`
	Capabilities    map[string][]CapabilityVersion `json:"capabilities"`
	PaymentHandlers map[string][]PaymentHandlerRef `json:"payment_handlers"`
}

// CheckoutView это представление сессии с вычисленными статусом, сообщениями и суммами.
type CheckoutView struct {
	UCP         UCPMetadata        `json:"ucp"`
	ID          string             `json:"id"`
	Status      CheckoutStatus     `json:"status"`
	Currency    string             `json:"currency"`
	LineItems   []LineItem         `json:"line_items"`
	Buyer       *Buyer             `json:"buyer,omitempty"`
	Fulfillment *Fulfillment       `json:"fulfillment,omitempty"`
	Discounts   []Discount         `json:"discounts"`
	Totals      Total              `json:"totals"`
	Messages    []Message          `json:"messages"`
	Links       []Link             `json:"links"`
	ContinueURL string             `json:"continue_url,omitempty"`
	Order       *OrderConfirmation `json:"order,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// CardDetails это данные карты для тестового токенизатора.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month,omitempty"`
	ExpYear  int    `json:"exp_year,omitempty"`
	CVC      string `json:"cvc,omitempty"`
}

// TokenizeRequest это запрос к тестовому токенизатору.
type TokenizeRequest struct {
	HandlerID string       `json:"handler_id,omitempty"`
	Card      *CardDetails `json:"card,omitempty"`
}

// TokenizeResponse это выданный токен платёжных данных.
type TokenizeResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductList это ответ со списком товаров каталога.
type ProductList struct {
	Products []Item `json:"products"`
}

// BusinessInfo это сведения о магазине.
type BusinessInfo struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	LogoURL       string   `json:"logo_url,omitempty"`
	UCPProfileURL string   `json:"ucp_profile_url"`
	Capabilities  []string `json:"capabilities"`
}

// ServiceBinding описывает транспорт, по которому доступен сервис протокола.
type ServiceBinding struct {
	Version   string `json:"version"`
	Spec      string `json:"spec"`
	Transport string `json:"transport"`
	Endpoint  string `json:"endpoint"`
	Schema    string `json:"schema,omitempty"`
}

// CapabilityDescriptor описывает возможность в профиле обнаружения.
type CapabilityDescriptor struct {
	Version string `json:"version"`
	Spec    string `json:"spec"`
	Schema  string `json:"schema"`
	Extends string `json:"extends,omitempty"`
}

// PaymentHandlerDescriptor описывает обработчик платежей в профиле обнаружения.
type PaymentHandlerDescriptor struct {
	ID      string         `json:"id"`
	Version string         `json:"version"`
	Spec    string         `json:"spec"`
	Config  map[string]any `json:"config,omitempty"`
}

// ProfileBody это содержимое профиля обнаружения.
type ProfileBody struct {
	Version         string                                `json:"version"`
	Services        map[string][]ServiceBinding           `json:"services"`
	Capabilities    map[string][]CapabilityDescriptor     `json:"capabilities"`
	PaymentHandlers map[string][]PaymentHandlerDescriptor `json:"payment_handlers"`
}

// Profile это документ /.well-known/ucp.
type Profile struct {
	UCP ProfileBody `json:"ucp"`
}
