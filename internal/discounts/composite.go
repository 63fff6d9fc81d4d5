package discounts

import (
	"fmt"
	"slices"

	"discountd/internal/conditions"
	"discountd/internal/domain"
	"discountd/internal/pricing"
)

// AndDiscount applies its children only when all of their conditions hold,
// merging overlapping children per product with its merge type.
type AndDiscount struct {
	base
	children  []Discount
	mergeType domain.MergeType
}

func NewAndDiscount(id, storeID string, mergeType domain.MergeType, children ...Discount) (*AndDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if err := checkChildren(children, 1); err != nil {
		return nil, err
	}
	if !validMerge(mergeType) {
		return nil, invalid("mergeType", fmt.Sprintf("unknown merge type %q", mergeType))
	}
	return &AndDiscount{base: b, children: slices.Clone(children), mergeType: mergeType}, nil
}

func (d *AndDiscount) Children() []Discount        { return slices.Clone(d.children) }
func (d *AndDiscount) MergeType() domain.MergeType { return d.mergeType }

func (d *AndDiscount) Condition() domain.Condition {
	return conditions.All(childConditions(d.children)...)
}

func (d *AndDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	active, err := d.Condition().IsSatisfied(basket, items)
	if err != nil {
		return nil, err
	}
	if !active {
		return zeroBreakdowns(basket, items)
	}
	priced, err := priceChildren(d.children, basket, items)
	if err != nil {
		return nil, err
	}
	out := make(map[string]pricing.PriceBreakdown, len(basket.Orders))
	for _, id := range basket.ProductIDs() {
		var merged *pricing.PriceBreakdown
		for i, child := range d.children {
			ok, err := child.IsQualified(id, items)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			b := priced[i][id]
			if merged != nil {
				b = merge(d.mergeType, *merged, b)
			}
			merged = &b
		}
		if merged != nil {
			out[id] = *merged
			continue
		}
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return nil, err
		}
		out[id] = pricing.Zero(item.Price)
	}
	return out, nil
}

func (d *AndDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	return anyQualified(d.children, productID, items)
}

// OrDiscount applies its inner discount when any of its alternative
// conditions holds.
type OrDiscount struct {
	base
	inner      Discount
	conditions []domain.Condition
	// grouped is set when the builder wrapped several sub-discounts into inner.
	grouped bool
}

func NewOrDiscount(id, storeID string, inner Discount, conds ...domain.Condition) (*OrDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, invalid("subDiscounts", "missing")
	}
	if len(conds) == 0 || slices.Contains(conds, nil) {
		return nil, invalid("condition", "at least one condition is required")
	}
	return &OrDiscount{base: b, inner: inner, conditions: slices.Clone(conds)}, nil
}

func (d *OrDiscount) Inner() Discount                { return d.inner }
func (d *OrDiscount) Conditions() []domain.Condition { return slices.Clone(d.conditions) }
func (d *OrDiscount) Condition() domain.Condition {
	return conditions.Any(d.conditions...)
}

func (d *OrDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	active, err := d.Condition().IsSatisfied(basket, items)
	if err != nil {
		return nil, err
	}
	if !active {
		return zeroBreakdowns(basket, items)
	}
	return d.inner.CalculatePrice(basket, items)
}

func (d *OrDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	return d.inner.IsQualified(productID, items)
}

// XorDiscount selects exactly one of its two children: the first while the
// shared condition does not hold, the second while it does.
type XorDiscount struct {
	base
	first, second Discount
	condition     domain.Condition
	mergeType     domain.MergeType
}

func NewXorDiscount(id, storeID string, condition domain.Condition, mergeType domain.MergeType, first, second Discount) (*XorDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if first == nil || second == nil {
		return nil, invalid("subDiscounts", "exactly two sub-discounts are required")
	}
	if condition == nil {
		return nil, invalid("condition", "missing")
	}
	if !validMerge(mergeType) {
		return nil, invalid("mergeType", fmt.Sprintf("unknown merge type %q", mergeType))
	}
	return &XorDiscount{base: b, first: first, second: second, condition: condition, mergeType: mergeType}, nil
}

func (d *XorDiscount) First() Discount             { return d.first }
func (d *XorDiscount) Second() Discount            { return d.second }
func (d *XorDiscount) MergeType() domain.MergeType { return d.mergeType }
func (d *XorDiscount) Condition() domain.Condition { return d.condition }

func (d *XorDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	second, err := d.condition.IsSatisfied(basket, items)
	if err != nil {
		return nil, err
	}
	if second {
		return d.second.CalculatePrice(basket, items)
	}
	return d.first.CalculatePrice(basket, items)
}

func (d *XorDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	return anyQualified([]Discount{d.first, d.second}, productID, items)
}

// MaxDiscount gives each product the best discount among the children that
// qualify for it. It has no condition of its own.
type MaxDiscount struct {
	base
	children []Discount
}

func NewMaxDiscount(id, storeID string, children ...Discount) (*MaxDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if err := checkChildren(children, 1); err != nil {
		return nil, err
	}
	return &MaxDiscount{base: b, children: slices.Clone(children)}, nil
}

func (d *MaxDiscount) Children() []Discount        { return slices.Clone(d.children) }
func (d *MaxDiscount) Condition() domain.Condition { return conditions.Always{} }

func (d *MaxDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	out := make(map[string]pricing.PriceBreakdown, len(basket.Orders))
	priced := make([]map[string]pricing.PriceBreakdown, len(d.children))
	for _, id := range basket.ProductIDs() {
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return nil, err
		}
		best := pricing.Zero(item.Price)
		for i, child := range d.children {
			ok, err := child.IsQualified(id, items)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if priced[i] == nil {
				if priced[i], err = child.CalculatePrice(basket, items); err != nil {
					return nil, err
				}
			}
			best = pricing.CombineMax(best, priced[i][id])
		}
		out[id] = best
	}
	return out, nil
}

func (d *MaxDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	return anyQualified(d.children, productID, items)
}

// DoubleDiscount stacks the discounts of all its children on every product.
// A child that does not qualify for a product contributes nothing to it.
type DoubleDiscount struct {
	base
	children []Discount
}

func NewDoubleDiscount(id, storeID string, children ...Discount) (*DoubleDiscount, error) {
	b, err := newBase(id, storeID)
	if err != nil {
		return nil, err
	}
	if err := checkChildren(children, 1); err != nil {
		return nil, err
	}
	return &DoubleDiscount{base: b, children: slices.Clone(children)}, nil
}

func (d *DoubleDiscount) Children() []Discount        { return slices.Clone(d.children) }
func (d *DoubleDiscount) Condition() domain.Condition { return conditions.Always{} }

func (d *DoubleDiscount) CalculatePrice(basket domain.Basket, items domain.ItemLookup) (map[string]pricing.PriceBreakdown, error) {
	priced, err := priceChildren(d.children, basket, items)
	if err != nil {
		return nil, err
	}
	out := make(map[string]pricing.PriceBreakdown, len(basket.Orders))
	for _, id := range basket.ProductIDs() {
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return nil, err
		}
		stacked := pricing.Zero(item.Price)
		seen := false
		for i, child := range d.children {
			ok, err := child.IsQualified(id, items)
			if err != nil {
				return nil, err
			}
			switch {
			case !ok:
			case !seen:
				stacked, seen = priced[i][id], true
			default:
				stacked = pricing.CombineMultiplicate(stacked, priced[i][id])
			}
		}
		out[id] = stacked
	}
	return out, nil
}

func (d *DoubleDiscount) IsQualified(productID string, items domain.ItemLookup) (bool, error) {
	return anyQualified(d.children, productID, items)
}

func checkChildren(children []Discount, min int) error {
	if len(children) < min {
		return invalid("subDiscounts", fmt.Sprintf("at least %d sub-discount(s) required", min))
	}
	if slices.Contains(children, nil) {
		return invalid("subDiscounts", "nil sub-discount")
	}
	return nil
}
