package discounts

import (
	"fmt"
	"math"

	"discountd/internal/domain"
	"discountd/internal/pricing"
)

// SimpleDiscount takes a fixed fraction off every qualifying product while
// its condition holds.
type SimpleDiscount struct {
	base
	percentage float64
	qualifier  Qualifier
	condition  domain.Condition
}

func NewSimpleDiscount(id, storeID string, percentage float64, qualifier Qualifier, condition domain.Condition) (*SimpleDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if err := checkPercentage(percentage); err != nil {
		return nil, err
	}
	if qualifier == nil {
		return nil, invalid("qualifier", "missing")
	}
	if condition == nil {
		return nil, invalid("condition", "missing")
	}
	return &SimpleDiscount{base: b, percentage: percentage, qualifier: qualifier, condition: condition}, nil
}

func checkPercentage(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return invalid("discountPercentage", fmt.Sprintf("%v is outside [0,1]", p))
	}
	return nil
}

func (d *SimpleDiscount) Percentage() float64         { return d.percentage }
func (d *SimpleDiscount) Qualifier() Qualifier        { return d.qualifier }
func (d *SimpleDiscount) Condition() domain.Condition { return d.condition }

func (d *SimpleDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	active, err := d.condition.IsSatisfied(basket, items)
	if err != nil {
		return nil, err
	}
	out := make(map[string]pricing.PriceBreakdown, len(basket.Orders))
	for _, id := range basket.ProductIDs() {
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return nil, err
		}
		if !active || !d.qualifier.IsQualified(item) {
			out[id] = pricing.Zero(item.Price)
			continue
		}
		out[id] = pricing.NewPriceBreakdown(item.Price, d.percentage, d.describe())
	}
	return out, nil
}

func (d *SimpleDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	item, err := items.Item(d.storeID, productID)
	if err != nil {
		return false, err
	}
	return d.qualifier.IsQualified(item), nil
}

func (d *SimpleDiscount) describe() string {
	return fmt.Sprintf("discount %s: %g%% off %v", d.id, d.percentage*100, d.qualifier)
}
