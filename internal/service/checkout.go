package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/mmeshcher/ucp-checkout/internal/checkout"
	"github.com/mmeshcher/ucp-checkout/internal/model"
	"github.com/mmeshcher/ucp-checkout/internal/repository"
	"github.com/mmeshcher/ucp-checkout/internal/validation"
)

// resolved это состояние сессии, собранное из запроса по каталогу.
type resolved struct {
	lineItems   []model.LineItem
	buyer       *model.Buyer
	fulfillment *model.Fulfillment
	discounts   []model.Discount
}

func (s *Service) resolve(req model.CheckoutRequest) (*resolved, error) {
	items := make([]model.LineItem, 0, len(req.LineItems))
	var subtotal int64
	for _, li := range req.LineItems {
		product, ok := s.catalog.Product(li.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, li.ProductID)
		}

		qty := li.Quantity
		if qty < 1 || qty > MaxQuantity {
			return nil, fmt.Errorf("%w: %s: %d is outside 1..%d", ErrInvalidQuantity, li.ProductID, qty, MaxQuantity)
		}

		total, ok := lineTotal(product.Price, qty)
		if !ok || total > maxSubtotal-subtotal {
			return nil, fmt.Errorf("%w: %s: amount overflow", ErrInvalidQuantity, li.ProductID)
		}
		subtotal += total

		items = append(items, model.LineItem{
			ID:          newID("li_", 8),
			ProductID:   product.ID,
			Title:       product.Title,
			Description: product.Description,
			ImageURL:    product.ImageURL,
			Quantity:    qty,
			UnitPrice:   product.Price,
			TotalPrice:  total,
			Currency:    product.Currency,
		})
	}

	discounts := make([]model.Discount, 0, len(req.DiscountCodes))
	seen := make(map[string]struct{}, len(req.DiscountCodes))
	for _, raw := range req.DiscountCodes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if _, dup := seen[code]; dup {
			continue
		}
		rule, ok := s.catalog.Discount(code)
		if !ok {
			continue
		}
		seen[code] = struct{}{}

		discounts = append(discounts, model.Discount{
			Code:     code,
			Title:    rule.Title,
			Amount:   checkout.DiscountAmount(rule, subtotal),
			Currency: checkout.Currency,
		})
	}

	var f *model.Fulfillment
	if req.Fulfillment != nil {
		f = &model.Fulfillment{
			Type:             model.FulfillmentTypeShipping,
			SelectedOptionID: req.Fulfillment.SelectedOptionID,
			AvailableOptions: s.catalog.FulfillmentOptions(),
		}
		if req.Fulfillment.Address != nil {
			addr := *req.Fulfillment.Address
			f.Address = &addr
		}
	}

	var buyer *model.Buyer
	if req.Buyer != nil {
		b := *req.Buyer
		if req.Buyer.BillingAddress != nil {
			addr := *req.Buyer.BillingAddress
			b.BillingAddress = &addr
		}
		buyer = &b
	}

	return &resolved{
		lineItems:   items,
		buyer:       buyer,
		fulfillment: f,
		discounts:   discounts,
	}, nil
}

// lineTotal умножает цену на количество с проверкой переполнения.
func lineTotal(price, qty int64) (int64, bool) {
	if price < 0 || qty < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(price), uint64(qty))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// Create создаёт новую сессию оформления заказа.
// При неизвестном товаре ничего не сохраняется.
func (s *Service) Create(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutView, error) {
	r, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &model.Session{
		ID:          newID("cs_", 16),
		LineItems:   r.lineItems,
		Buyer:       r.buyer,
		Fulfillment: r.fulfillment,
		Discounts:   r.discounts,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(sessionTTL),
	}

	if err := s.store.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.view(session), nil
}

// Get возвращает сессию с заново вычисленными статусом, сообщениями и суммами.
func (s *Service) Get(ctx context.Context, id string) (*model.CheckoutView, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(id, err)
	}
	return s.view(session), nil
}

// Replace полностью заменяет позиции, покупателя, доставку и скидки сессии.
func (s *Service) Replace(ctx context.Context, id string, req model.CheckoutRequest) (*model.CheckoutView, error) {
	updated, err := s.store.Update(ctx, id, func(session *model.Session) error {
		if session.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", ErrInvalidState, id, session.Terminal)
		}

		r, err := s.resolve(req)
		if err != nil {
			return err
		}

		session.LineItems = r.lineItems
		session.Buyer = r.buyer
		session.Fulfillment = r.fulfillment
		session.Discounts = r.discounts
		session.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, s.storeError(id, err)
	}

	return s.view(updated), nil
}

// Complete завершает сессию и создаёт заказ.
// Повторное завершение не выполняется: сессия становится конечной.
func (s *Service) Complete(ctx context.Context, id string, payment *model.Payment) (*model.CheckoutView, error) {
	updated, err := s.store.Update(ctx, id, func(session *model.Session) error {
		switch session.Terminal {
		case model.StatusCompleted:
			return fmt.Errorf("%w: %s is already completed", ErrInvalidState, id)
		case model.StatusCanceled:
			return fmt.Errorf("%w: %s is canceled", ErrInvalidState, id)
		}

		if _, err := validation.SelectedInstrument(payment); err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentRequired, err)
		}

		if s.requireReady {
			status := deriveStatus(session)
			if status != model.StatusReadyForComplete {
				return fmt.Errorf("%w: %s is %s", ErrNotReady, id, status)
			}
		}

		now := s.now()
		orderID := newID("ord_", 12)
		session.Order = &model.OrderConfirmation{
			ID:           orderID,
			PermalinkURL: s.baseURL + "/orders/" + orderID,
			CreatedAt:    now,
		}
		session.Terminal = model.StatusCompleted
		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.storeError(id, err)
	}

	return s.view(updated), nil
}

// Cancel отменяет сессию.
func (s *Service) Cancel(ctx context.Context, id string) (*model.CheckoutView, error) {
	updated, err := s.store.Update(ctx, id, func(session *model.Session) error {
		if session.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", ErrInvalidState, id, session.Terminal)
		}
		session.Terminal = model.StatusCanceled
		session.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, s.storeError(id, err)
	}

	return s.view(updated), nil
}

// Products возвращает список товаров каталога.
func (s *Service) Products(_ context.Context) model.ProductList {
	return model.ProductList{Products: s.catalog.Products()}
}

func (s *Service) storeError(id string, err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return err
}
