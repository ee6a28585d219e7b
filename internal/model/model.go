// Package model содержит доменные сущности сервиса оформления заказов UCP.
package model

import "time"

// CheckoutStatus описывает статус сессии оформления заказа.
type CheckoutStatus string

const (
	StatusIncomplete         CheckoutStatus = "incomplete"
	StatusRequiresEscalation CheckoutStatus = "requires_escalation"
	StatusReadyForComplete   CheckoutStatus = "ready_for_complete"
	StatusCompleteInProgress CheckoutStatus = "complete_in_progress"
	StatusCompleted          CheckoutStatus = "completed"
	StatusCanceled           CheckoutStatus = "canceled"
)

// IsTerminal сообщает, является ли статус конечным.
func (s CheckoutStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// MessageType описывает тип диагностического сообщения.
type MessageType string

const (
	MessageError   MessageType = "error"
	MessageWarning MessageType = "warning"
	MessageInfo    MessageType = "info"
)

// MessageSeverity описывает, кто может устранить ошибку.
type MessageSeverity string

const (
	SeverityRecoverable         MessageSeverity = "recoverable"
	SeverityRequiresBuyerInput  MessageSeverity = "requires_buyer_input"
	SeverityRequiresBuyerReview MessageSeverity = "requires_buyer_review"
)

// DiscountKind описывает способ расчёта скидки.
type DiscountKind string

const (
	DiscountPercentage   DiscountKind = "percentage"
	DiscountFixed        DiscountKind = "fixed"
	DiscountFreeShipping DiscountKind = "free_shipping"
)

// FulfillmentTypeShipping это единственный поддерживаемый тип доставки.
const FulfillmentTypeShipping = "shipping"

// Item описывает товар каталога. Цена хранится в минимальных единицах валюты.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

// DiscountRule описывает правило скидки из каталога.
type DiscountRule struct {
	Title string       `json:"title"`
	Kind  DiscountKind `json:"type"`
	Value int64        `json:"value"`
}

// FulfillmentOption описывает вариант получения заказа.
type FulfillmentOption struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Price             int64  `json:"price"`
	Currency          string `json:"currency"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}

// PostalAddress описывает почтовый адрес.
type PostalAddress struct {
	StreetAddress   string `json:"street_address,omitempty"`
	ExtendedAddress string `json:"extended_address,omitempty"`
	AddressLocality string `json:"address_locality,omitempty"`
	AddressRegion   string `json:"address_region,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	AddressCountry  string `json:"address_country,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Buyer содержит контактные данные покупателя.
type Buyer struct {
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	FirstName      string         `json:"first_name,omitempty"`
	LastName       string         `json:"last_name,omitempty"`
	BillingAddress *PostalAddress `json:"billing_address,omitempty"`
}

// LineItem это снимок позиции каталога на момент добавления в корзину.
type LineItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
	Currency    string `json:"currency"`
}

// Discount описывает применённый код скидки.
type Discount struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Fulfillment описывает выбранный способ получения и доступные варианты.
type Fulfillment struct {
	Type             string              `json:"type"`
	Address          *PostalAddress      `json:"address,omitempty"`
	SelectedOptionID string              `json:"selected_option_id,omitempty"`
	AvailableOptions []FulfillmentOption `json:"available_options"`
}

// Total содержит итоговые суммы сессии.
type Total struct {
	Subtotal int64  `json:"subtotal"`
	Discount int64  `json:"discount"`
	Shipping int64  `json:"shipping"`
	Tax      int64  `json:"tax"`
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}

// Message это диагностическое сообщение для платформы.
type Message struct {
	Type     MessageType     `json:"type"`
	Code     string          `json:"code"`
	Content  string          `json:"content"`
	Severity MessageSeverity `json:"severity,omitempty"`
}

// OrderConfirmation описывает заказ, созданный при завершении сессии.
type OrderConfirmation struct {
	ID           string    `json:"id"`
	PermalinkURL string    `json:"permalink_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Link это ссылка на политики магазина.
type Link struct {
	Type  string `json:"type"`
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// Session это агрегат сессии оформления заказа. Хранит только исходные факты:
// производный статус вычисляется при каждом чтении, сохраняется лишь конечный.
type Session struct {
	ID          string             `json:"id"`
	LineItems   []LineItem         `json:"line_items"`
	Buyer       *Buyer             `json:"buyer,omitempty"`
	Fulfillment *Fulfillment       `json:"fulfillment,omitempty"`
	Discounts   []Discount         `json:"discounts"`
	Terminal    CheckoutStatus     `json:"terminal,omitempty"`
	Order       *OrderConfirmation `json:"order,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// IsTerminal сообщает, завершена или отменена ли сессия.
func (s *Session) IsTerminal() bool {
	return s.Terminal.IsTerminal()
}

// Clone возвращает глубокую копию сессии.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	c.LineItems = append([]LineItem(nil), s.LineItems...)
	c.Discounts = append([]Discount(nil), s.Discounts...)

	if s.Buyer != nil {
		b := *s.Buyer
		if s.Buyer.BillingAddress != nil {
			addr := *s.Buyer.BillingAddress
			b.BillingAddress = &addr
		}
		c.Buyer = &b
	}

	if s.Fulfillment != nil {
		f := *s.Fulfillment
		if s.Fulfillment.Address != nil {
			addr := *s.Fulfillment.Address
			f.Address = &addr
		}
		f.AvailableOptions = append([]FulfillmentOption(nil), s.Fulfillment.AvailableOptions...)
		c.Fulfillment = &f
	}

	if s.Order != nil {
		o := *s.Order
		c.Order = &o
	}

	return &c
}

// PaymentCredential это учётные данные, выданные обработчиком платежей.
type PaymentCredential struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// PaymentDisplay содержит данные платёжного инструмента для отображения.
type PaymentDisplay struct {
	Brand      string `json:"brand,omitempty"`
	LastDigits string `json:"last_digits,omitempty"`
}

// PaymentInstrument описывает платёжный инструмент.
type PaymentInstrument struct {
	ID             string             `json:"id"`
	HandlerID      string             `json:"handler_id"`
	Type           string             `json:"type"`
	Selected       *bool              `json:"selected,omitempty"`
	Display        *PaymentDisplay    `json:"display,omitempty"`
	BillingAddress *PostalAddress     `json:"billing_address,omitempty"`
	Credential     *PaymentCredential `json:"credential,omitempty"`
}

// IsSelected возвращает признак выбранного инструмента; по умолчанию инструмент выбран.
func (p PaymentInstrument) IsSelected() bool {
	return p.Selected == nil || *p.Selected
}

// Payment содержит платёжные данные запроса на завершение сессии.
type Payment struct {
	Instruments []PaymentInstrument `json:"instruments"`
}
