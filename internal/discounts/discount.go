// Package discounts implements the discount rule tree: simple percentage
// rules and the composites (And, Or, Xor, Max, Double) that combine them.
//
// Every Discount prices each product of a basket and returns one
// pricing.PriceBreakdown per product id. Evaluation keeps no state between
// calls, so a tree may price many baskets concurrently.
package discounts

import (
	"strings"

	"discountd/internal/domain"
	"discountd/internal/pricing"
)

// Discount is a node of the rule tree. The set of implementations is closed:
// *SimpleDiscount, *AndDiscount, *OrDiscount, *XorDiscount, *MaxDiscount and
// *DoubleDiscount.
type Discount interface {
	ID() string
	StoreID() string
	// SetStoreID changes the store of this node only.
	SetStoreID(storeID string)
	Condition() domain.Condition
	CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error)
	// IsQualified reports whether the rule could ever touch productID,
	// regardless of the basket condition.
	IsQualified(productID string, items domain.ItemLookup) (bool, error)

	sealed()
}

type base struct {
	id      string
	storeID string
}

func newBase(id, storeID string) (base, error) {
	id = strings.TrimSpace(id)
	storeID = strings.TrimSpace(storeID)
	if id == "" {
		return base{}, invalid("id", "missing")
	}
	if storeID == "" {
		return base{}, invalid("storeId", "missing")
	}
	return base{id: id, storeID: storeID}, nil
}

func (b *base) ID() string                { return b.id }
func (b *base) StoreID() string           { return b.storeID }
func (b *base) SetStoreID(storeID string) { b.storeID = storeID }
func (b *base) sealed()                   {}

func validMerge(m domain.MergeType) bool {
	return m == domain.MergeMax || m == domain.MergeMul
}

func merge(m domain.MergeType, a, b pricing.PriceBreakdown) pricing.PriceBreakdown {
	if m == domain.MergeMul {
		return pricing.CombineMultiplicate(a, b)
	}
	return pricing.CombineMax(a, b)
}

// zeroBreakdowns prices every ordered product at its original price.
func zeroBreakdowns(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	out := make(map[string]pricing.PriceBreakdown, len(basket.Orders))
	for _, id := range basket.ProductIDs() {
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return nil, err
		}
		out[id] = pricing.Zero(item.Price)
	}
	return out, nil
}

func anyQualified(children []Discount, productID string, items domain.ItemLookup) (bool, error) {
	for _, c := range children {
		ok, err := c.IsQualified(productID, items)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func priceChildren(children []Discount, basket domain.Basket, items domain.ItemLookup) ([]map[string]pricing.PriceBreakdown, error) {
	out := make([]map[string]pricing.PriceBreakdown, 0, len(children))
	for _, c := range children {
		m, err := c.CalculatePrice(basket, items)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func childConditions(children []Discount) []domain.Condition {
	out := make([]domain.Condition, 0, len(children))
	for _, c := range children {
		out = append(out, c.Condition())
	}
	return out
}
