// Package catalog содержит демонстрационный каталог кофейни: товары, коды скидок и способы получения.
package catalog

import (
	"sort"
	"strings"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

const currencyUSD = "USD"

// Catalog предоставляет доступ только на чтение к статическим таблицам каталога.
type Catalog struct {
	products  map[string]model.Item
	discounts map[string]model.DiscountRule
	options   []model.FulfillmentOption
}

// New создаёт каталог с демонстрационными данными.
func New() *Catalog {
	return &Catalog{
		products:  defaultProducts(),
		discounts: defaultDiscounts(),
		options:   defaultFulfillmentOptions(),
	}
}

// Product возвращает товар по идентификатору.
func (c *Catalog) Product(id string) (model.Item, bool) {
	item, ok := c.products[id]
	return item, ok
}

// Products возвращает все товары, упорядоченные по идентификатору.
func (c *Catalog) Products() []model.Item {
	res := make([]model.Item, 0, len(c.products))
	for _, item := range c.products {
		res = append(res, item)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Discount возвращает правило скидки по коду без учёта регистра.
func (c *Catalog) Discount(code string) (model.DiscountRule, bool) {
	rule, ok := c.discounts[strings.ToUpper(strings.TrimSpace(code))]
	return rule, ok
}

// FulfillmentOptions возвращает копию списка способов получения.
func (c *Catalog) FulfillmentOptions() []model.FulfillmentOption {
	return append([]model.FulfillmentOption(nil), c.options...)
}

func defaultProducts() map[string]model.Item {
	items := []model.Item{
		{ID: "coffee_small", Title: "Small Coffee", Description: "8oz freshly brewed coffee", ImageURL: "/images/coffee.jpeg", Price: 299},
		{ID: "coffee_medium", Title: "Medium Coffee", Description: "12oz freshly brewed coffee", ImageURL: "/images/coffee.jpeg", Price: 399},
		{ID: "coffee_large", Title: "Large Coffee", Description: "16oz freshly brewed coffee", ImageURL: "/images/coffee.jpeg", Price: 499},
		{ID: "latte_medium", Title: "Medium Latte", Description: "12oz espresso with steamed milk", ImageURL: "/images/latte.jpeg", Price: 549},
		{ID: "latte_large", Title: "Large Latte", Description: "16oz espresso with steamed milk", ImageURL: "/images/latte.jpeg", Price: 649},
		{ID: "cappuccino", Title: "Cappuccino", Description: "Espresso with foamed milk", ImageURL: "/images/cappuccino.jpeg", Price: 549},
		{ID: "espresso_single", Title: "Single Espresso", Description: "Single shot of espresso", ImageURL: "/images/espresso.jpeg", Price: 299},
		{ID: "espresso_double", Title: "Double Espresso", Description: "Double shot of espresso", ImageURL: "/images/espresso.jpeg", Price: 399},
		{ID: "muffin_blueberry", Title: "Blueberry Muffin", Description: "Fresh baked blueberry muffin", ImageURL: "/images/muffin_blueberry.jpeg", Price: 349},
		{ID: "muffin_chocolate", Title: "Chocolate Chip Muffin", Description: "Fresh baked chocolate chip muffin", ImageURL: "/images/muffin_chocolate.jpeg", Price: 349},
		{ID: "croissant", Title: "Butter Croissant", Description: "Flaky butter croissant", ImageURL: "/images/croissant.jpeg", Price: 399},
		{ID: "bagel", Title: "Everything Bagel", Description: "Everything bagel with cream cheese", ImageURL: "/images/bagel.jpeg", Price: 449},
	}

	res := make(map[string]model.Item, len(items))
	for _, item := range items {
		item.Currency = currencyUSD
		res[item.ID] = item
	}
	return res
}

func defaultDiscounts() map[string]model.DiscountRule {
	return map[string]model.DiscountRule{
		"DEMO20":   {Title: "Demo Discount", Kind: model.DiscountPercentage, Value: 20},
		"SAVE5":    {Title: "Save $5", Kind: model.DiscountFixed, Value: 500},
		"FREESHIP": {Title: "Free Shipping", Kind: model.DiscountFreeShipping},
	}
}

func defaultFulfillmentOptions() []model.FulfillmentOption {
	return []model.FulfillmentOption{
		{ID: "pickup", Title: "In-Store Pickup", Description: "Pick up at our location", Price: 0, Currency: currencyUSD, EstimatedDelivery: "Ready in 15 minutes"},
		{ID: "standard", Title: "Standard Delivery", Description: "Delivered to your door", Price: 499, Currency: currencyUSD, EstimatedDelivery: "30-45 minutes"},
		{ID: "express", Title: "Express Delivery", Description: "Priority delivery", Price: 899, Currency: currencyUSD, EstimatedDelivery: "15-20 minutes"},
	}
}
