// Package events содержит фиксацию и доставку событий протокола UCP для визуализации.
// Доставка событий никогда не влияет на результат операций с сессиями.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Type описывает вид события протокола.
type Type string

const (
	TypeDiscovery        Type = "discovery"
	TypeGetProducts      Type = "get_products"
	TypeCreateCheckout   Type = "create_checkout"
	TypeGetCheckout      Type = "get_checkout"
	TypeUpdateCheckout   Type = "update_checkout"
	TypeCompleteCheckout Type = "complete_checkout"
	TypeCancelCheckout   Type = "cancel_checkout"
	TypeTokenize         Type = "tokenize"
	TypeError            Type = "error"
)

// Direction описывает направление события.
type Direction string

const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

// Event это зафиксированное событие протокола.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Direction  Direction       `json:"direction"`
	Timestamp  time.Time       `json:"timestamp"`
	SessionID  string          `json:"session_id,omitempty"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	StatusCode int             `json:"status_code,omitempty"`
	DurationMS float64         `json:"duration_ms,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Sink принимает события. Реализации не должны блокироваться надолго.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// SinkFunc позволяет использовать функцию как Sink.
type SinkFunc func(ctx context.Context, ev Event) error

// Publish вызывает f.
func (f SinkFunc) Publish(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Multi рассылает событие во все приёмники и объединяет их ошибки.
type Multi []Sink

// Publish публикует событие в каждый приёмник.
func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard это приёмник, который отбрасывает все события.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

type info struct {
	Title       string
	Description string
	Concept     string
}

var eventInfo = map[Type]info{
	TypeDiscovery: {
		Title:       "UCP Discovery",
		Description: "The Platform fetches the Business's profile from /.well-known/ucp to discover supported capabilities and payment handlers.",
		Concept:     "Discovery & Negotiation",
	},
	TypeGetProducts: {
		Title:       "Get Product Catalog",
		Description: "The Platform retrieves the Business's product catalog to understand what's available for purchase.",
		Concept:     "Business Catalog",
	},
	TypeCreateCheckout: {
		Title:       "Create Checkout Session",
		Description: "The Platform initiates a new checkout session using the dev.ucp.shopping.checkout capability.",
		Concept:     "Checkout Capability",
	},
	TypeGetCheckout: {
		Title:       "Get Checkout State",
		Description: "The Platform retrieves the current state of an existing checkout session.",
		Concept:     "Checkout Session",
	},
	TypeUpdateCheckout: {
		Title:       "Update Checkout Session",
		Description: "The Platform replaces the checkout state with cart changes, fulfillment, or discounts.",
		Concept:     "Checkout Lifecycle",
	},
	TypeCompleteCheckout: {
		Title:       "Complete Checkout",
		Description: "The Platform finalizes the checkout by submitting payment credentials to create an order.",
		Concept:     "Payment & Order",
	},
	TypeCancelCheckout: {
		Title:       "Cancel Checkout",
		Description: "The Platform cancels an active checkout session, terminating the transaction.",
		Concept:     "Checkout Lifecycle",
	},
	TypeTokenize: {
		Title:       "Payment Tokenization",
		Description: "The Platform acquires a payment credential from a Credential Provider.",
		Concept:     "Payment Handler",
	},
	TypeError: {
		Title:       "Error",
		Description: "An error occurred during a UCP operation with structured severity levels.",
		Concept:     "Error Handling",
	},
}

// Display это представление события для визуализатора.
type Display struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Direction   Direction `json:"direction"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id,omitempty"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	StatusCode  int       `json:"status_code,omitempty"`
	DurationMS  float64   `json:"duration_ms,omitempty"`
	BodyPreview string    `json:"body_preview,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UCPConcept  string    `json:"ucp_concept,omitempty"`
}

// Format готовит событие к отображению.
func Format(ev Event) Display {
	meta, ok := eventInfo[ev.Type]
	if !ok {
		meta = info{Title: string(ev.Type)}
	}

	return Display{
		ID:          ev.ID,
		Type:        ev.Type,
		Direction:   ev.Direction,
		Timestamp:   ev.Timestamp,
		SessionID:   ev.SessionID,
		Method:      ev.Method,
		Path:        ev.Path,
		StatusCode:  ev.StatusCode,
		DurationMS:  ev.DurationMS,
		BodyPreview: string(ev.Body),
		Title:       meta.Title,
		Description: meta.Description,
		UCPConcept:  meta.Concept,
	}
}
