package discounts

import (
	"fmt"

	"discountd/internal/conditions"
	"discountd/internal/domain"
)

// ToDTO describes d so that Builder.Build reconstructs an equivalent tree.
func ToDTO(d Discount) (*domain.DiscountDTO, error) {
	out := &domain.DiscountDTO{ID: d.ID(), StoreID: d.StoreID()}
	switch d := d.(type) {
	case *SimpleDiscount:
		cond, err := conditions.ToDTO(d.condition)
		if err != nil {
			return nil, err
		}
		out.Type = domain.DiscountSimple
		out.DiscountPercentage = domain.Percentage(d.percentage)
		out.QualifierType = d.qualifier.Type()
		out.QualifierValue = d.qualifier.Value()
		out.Condition = cond
		return out, nil
	case *AndDiscount:
		out.Type = domain.DiscountAnd
		out.MergeType = d.mergeType
		return withSubs(out, d.children)
	case *MaxDiscount:
		out.Type = domain.DiscountMax
		return withSubs(out, d.children)
	case *DoubleDiscount:
		out.Type = domain.DiscountDouble
		return withSubs(out, d.children)
	case *XorDiscount:
		cond, err := conditions.ToDTO(d.condition)
		if err != nil {
			return nil, err
		}
		out.Type = domain.DiscountXor
		out.MergeType = d.mergeType
		out.Condition = cond
		return withSubs(out, []Discount{d.first, d.second})
	case *OrDiscount:
		cond, err := conditions.ToDTO(conditions.Any(d.conditions...))
		if err != nil {
			return nil, err
		}
		out.Type = domain.DiscountOr
		out.Condition = cond
		if !d.grouped {
			return withSubs(out, []Discount{d.inner})
		}
		switch inner := d.inner.(type) {
		case *MaxDiscount:
			out.MergeType = domain.MergeMax
			return withSubs(out, inner.children)
		case *DoubleDiscount:
			out.MergeType = domain.MergeMul
			return withSubs(out, inner.children)
		default:
			return withSubs(out, []Discount{inner})
		}
	default:
		return nil, fmt.Errorf("discount: unknown variant %T", d)
	}
}

func withSubs(out *domain.DiscountDTO, children []Discount) (*domain.DiscountDTO, error) {
	out.SubDiscounts = make([]*domain.DiscountDTO, 0, len(children))
	for _, c := range children {
		sub, err := ToDTO(c)
		if err != nil {
			return nil, err
		}
		out.SubDiscounts = append(out.SubDiscounts, sub)
	}
	return out, nil
}
