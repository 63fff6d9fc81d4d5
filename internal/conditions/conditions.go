// Package conditions holds the basket predicates that switch discount rules on
// and off, and their conversion from and to ConditionDTO.
package conditions

import (
	"discountd/internal/domain"

	"github.com/shopspring/decimal"
)

// Always is satisfied by every basket.
type Always struct{}

func (Always) IsSatisfied(domain.Basket, domain.ItemLookup) (bool, error) { return true, nil }

// MinPrice holds when the basket subtotal, or the line total of ProductID when
// set, reaches Amount.
type MinPrice struct {
	ProductID string
	Amount    float64
}

func (c MinPrice) IsSatisfied(basket domain.Basket, items domain.ItemLookup) (bool, error) {
	total, err := subtotal(basket, items, c.ProductID)
	if err != nil {
		return false, err
	}
	return total.GreaterThanOrEqual(decimal.NewFromFloat(c.Amount)), nil
}

// MaxPrice holds when the subtotal does not exceed Amount.
type MaxPrice struct {
	ProductID string
	Amount    float64
}

func (c MaxPrice) IsSatisfied(basket domain.Basket, items domain.ItemLookup) (bool, error) {
	total, err := subtotal(basket, items, c.ProductID)
	if err != nil {
		return false, err
	}
	return total.LessThanOrEqual(decimal.NewFromFloat(c.Amount)), nil
}

// MinQuantity holds when the ordered quantity of ProductID, or of the whole
// basket when ProductID is empty, is at least Quantity.
type MinQuantity struct {
	ProductID string
	Quantity  int
}

func (c MinQuantity) IsSatisfied(basket domain.Basket, _ domain.ItemLookup) (bool, error) {
	return quantity(basket, c.ProductID) >= c.Quantity, nil
}

type MaxQuantity struct {
	ProductID string
	Quantity  int
}

func (c MaxQuantity) IsSatisfied(basket domain.Basket, _ domain.ItemLookup) (bool, error) {
	return quantity(basket, c.ProductID) <= c.Quantity, nil
}

// And holds when every child holds. An empty And holds.
type And struct {
	Conditions []domain.Condition
}

func All(conds ...domain.Condition) And { return And{Conditions: conds} }

func (c And) IsSatisfied(basket domain.Basket, items domain.ItemLookup) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.IsSatisfied(basket, items)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Or holds when at least one child holds. An empty Or never holds.
type Or struct {
	Conditions []domain.Condition
}

func Any(conds ...domain.Condition) Or { return Or{Conditions: conds} }

func (c Or) IsSatisfied(basket domain.Basket, items domain.ItemLookup) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.IsSatisfied(basket, items)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func subtotal(basket domain.Basket, items domain.ItemLookup, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for id, qty := range basket.Orders {
		if productID != "" && id != productID {
			continue
		}
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total, nil
}

func quantity(basket domain.Basket, productID string) int {
	if productID != "" {
		return basket.Orders[productID]
	}
	n := 0
	for _, qty := range basket.Orders {
		n += qty
	}
	return n
}
