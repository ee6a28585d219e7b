// Package checkout содержит чистые функции расчёта итогов, сообщений и статуса сессии.
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

// Currency это валюта всех сумм демонстрационного магазина.
const Currency = "USD"

// FreeShippingCode это код скидки, обнуляющий стоимость доставки.
const FreeShippingCode = "FREESHIP"

// TaxRate это фиксированная демонстрационная ставка налога.
var TaxRate = decimal.RequireFromString("0.08")

// Subtotal возвращает сумму стоимостей всех позиций.
func Subtotal(items []model.LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.TotalPrice
	}
	return sum
}

// DiscountAmount рассчитывает размер скидки для указанной промежуточной суммы.
// Результат не превышает subtotal и не бывает отрицательным.
func DiscountAmount(rule model.DiscountRule, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	switch rule.Kind {
	case model.DiscountPercentage:
		amount := decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(rule.Value)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		return clamp(amount, 0, subtotal)
	case model.DiscountFixed:
		return clamp(rule.Value, 0, subtotal)
	default:
		return 0
	}
}

// Tax рассчитывает налог с облагаемой суммы с отбрасыванием дробной части.
func Tax(taxable int64) int64 {
	if taxable <= 0 {
		return 0
	}
	return decimal.NewFromInt(taxable).Mul(TaxRate).Floor().IntPart()
}

// ComputeTotals рассчитывает итоговые суммы сессии.
// options это справочник способов получения, по которому определяется цена доставки.
func ComputeTotals(items []model.LineItem, discounts []model.Discount, f *model.Fulfillment, options []model.FulfillmentOption) model.Total {
	subtotal := Subtotal(items)

	var discount int64
	for _, d := range discounts {
		discount += d.Amount
	}

	shipping := shippingPrice(discounts, f, options)
	tax := Tax(subtotal - discount)

	total := subtotal - discount + shipping + tax
	if total < 0 {
		total = 0
	}

	return model.Total{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
		Currency: Currency,
	}
}

// HasFreeShipping сообщает, применён ли код бесплатной доставки.
func HasFreeShipping(discounts []model.Discount) bool {
	for _, d := range discounts {
		if strings.EqualFold(d.Code, FreeShippingCode) {
			return true
		}
	}
	return false
}

func shippingPrice(discounts []model.Discount, f *model.Fulfillment, options []model.FulfillmentOption) int64 {
	if f == nil || f.SelectedOptionID == "" {
		return 0
	}

	for _, opt := range options {
		if opt.ID != f.SelectedOptionID {
			continue
		}
		if HasFreeShipping(discounts) {
			return 0
		}
		return opt.Price
	}

	return 0
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
