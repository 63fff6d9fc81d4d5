package discounts

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"discountd/internal/conditions"
	"discountd/internal/domain"
)

// Builder turns untrusted discount descriptions into Discount trees.
type Builder struct {
	// NewID generates ids for nodes whose description carries none.
	NewID func() string
}

func NewBuilder() *Builder {
	return &Builder{NewID: uuid.NewString}
}

func (b *Builder) newID() string {
	if b == nil || b.NewID == nil {
		return uuid.NewString()
	}
	return b.NewID()
}

// Build validates dto and constructs its tree under the given root id.
// storeID replaces the store of every node in the tree.
func (b *Builder) Build(dto *domain.DiscountDTO, id, storeID string) (Discount, error) {
	if dto == nil {
		return nil, invalid("", "missing discount description")
	}
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "missing")
	}
	if strings.TrimSpace(storeID) == "" {
		return nil, invalid("storeId", "missing")
	}
	if err := ValidateDiscountDTO(dto); err != nil {
		return nil, err
	}
	return b.build(dto, strings.TrimSpace(id), strings.TrimSpace(storeID))
}

// ValidateDiscountDTO checks the whole description and reports every problem
// found, joined, with the field path of each.
func ValidateDiscountDTO(dto *domain.DiscountDTO) error {
	if dto == nil {
		return invalid("", "missing discount description")
	}
	var errs []error
	switch dto.Type {
	case domain.DiscountSimple:
		errs = append(errs, validateSimple(dto)...)
	case domain.DiscountAnd, domain.DiscountOr, domain.DiscountMax, domain.DiscountDouble:
		errs = append(errs, validateComposite(dto, 1)...)
	case domain.DiscountXor:
		errs = append(errs, validateComposite(dto, 1)...)
		if len(dto.SubDiscounts) != 2 {
			errs = append(errs, invalid("subDiscounts", fmt.Sprintf("XOR needs exactly 2 sub-discounts, got %d", len(dto.SubDiscounts))))
		}
		if dto.Condition == nil {
			errs = append(errs, invalid("condition", "missing"))
		}
	case "":
		errs = append(errs, invalid("type", "missing"))
	default:
		errs = append(errs, invalid("type", fmt.Sprintf("unknown type %q", dto.Type)))
	}
	if dto.Condition != nil {
		if _, err := conditions.Build(dto.Condition); err != nil {
			errs = append(errs, at("condition", err))
		}
	}
	return errors.Join(errs...)
}

func validateSimple(dto *domain.DiscountDTO) []error {
	var errs []error
	switch p := dto.DiscountPercentage; {
	case p == nil:
		errs = append(errs, invalid("discountPercentage", "missing"))
	case math.IsNaN(*p) || *p < 0 || *p > 1:
		errs = append(errs, invalid("discountPercentage", fmt.Sprintf("%v is outside [0,1]", *p)))
	}
	if _, err := MakeQualifier(dto.QualifierType, dto.QualifierValue); err != nil {
		errs = append(errs, err)
	}
	if dto.Condition == nil {
		errs = append(errs, invalid("condition", "missing"))
	}
	return errs
}

func validateComposite(dto *domain.DiscountDTO, min int) []error {
	var errs []error
	if len(dto.SubDiscounts) < min {
		errs = append(errs, invalid("subDiscounts", fmt.Sprintf("%s needs at least %d sub-discount(s)", dto.Type, min)))
	}
	if dto.MergeType != "" && !validMerge(dto.MergeType) {
		errs = append(errs, invalid("mergeType", fmt.Sprintf("unknown merge type %q", dto.MergeType)))
	}
	for i, sub := range dto.SubDiscounts {
		if err := ValidateDiscountDTO(sub); err != nil {
			errs = append(errs, at(fmt.Sprintf("subDiscounts[%d]", i), err))
		}
	}
	return errs
}

func mergeOrDefault(m domain.MergeType) domain.MergeType {
	if m == "" {
		return domain.MergeMax
	}
	return m
}

// build assumes dto has been validated.
func (b *Builder) build(dto *domain.DiscountDTO, id, storeID string) (Discount, error) {
	if dto.Type == domain.DiscountSimple {
		q, err := MakeQualifier(dto.QualifierType, dto.QualifierValue)
		if err != nil {
			return nil, err
		}
		cond, err := conditions.Build(dto.Condition)
		if err != nil {
			return nil, at("condition", err)
		}
		return NewSimpleDiscount(id, storeID, *dto.DiscountPercentage, q, cond)
	}

	children := make([]Discount, 0, len(dto.SubDiscounts))
	for i, sub := range dto.SubDiscounts {
		childID := strings.TrimSpace(sub.ID)
		if childID == "" {
			childID = b.newID()
		}
		child, err := b.build(sub, childID, storeID)
		if err != nil {
			return nil, at(fmt.Sprintf("subDiscounts[%d]", i), err)
		}
		children = append(children, child)
	}
	merge := mergeOrDefault(dto.MergeType)

	switch dto.Type {
	case domain.DiscountAnd:
		return NewAndDiscount(id, storeID, merge, children...)
	case domain.DiscountMax:
		return NewMaxDiscount(id, storeID, children...)
	case domain.DiscountDouble:
		return NewDoubleDiscount(id, storeID, children...)
	case domain.DiscountXor:
		cond, err := conditions.Build(dto.Condition)
		if err != nil {
			return nil, at("condition", err)
		}
		return NewXorDiscount(id, storeID, cond, merge, children[0], children[1])
	case domain.DiscountOr:
		return b.buildOr(dto, id, storeID, merge, children)
	}
	return nil, invalid("type", fmt.Sprintf("unknown type %q", dto.Type))
}

// buildOr wraps the sub-discounts into one inner discount (the single child,
// or a Max/Double over all of them per merge type). The alternative conditions
// come from the description's own condition, flattened when it is an OR, and
// otherwise from the conditions of the sub-discounts.
func (b *Builder) buildOr(dto *domain.DiscountDTO, id, storeID string, merge domain.MergeType, children []Discount) (Discount, error) {
	var conds []domain.Condition
	if dto.Condition != nil {
		cond, err := conditions.Build(dto.Condition)
		if err != nil {
			return nil, at("condition", err)
		}
		if or, ok := cond.(conditions.Or); ok {
			conds = or.Conditions
		} else {
			conds = []domain.Condition{cond}
		}
	} else {
		conds = childConditions(children)
	}

	inner := children[0]
	if len(children) > 1 {
		var err error
		if merge == domain.MergeMul {
			inner, err = NewDoubleDiscount(b.newID(), storeID, children...)
		} else {
			inner, err = NewMaxDiscount(b.newID(), storeID, children...)
		}
		if err != nil {
			return nil, err
		}
	}
	or, err := NewOrDiscount(id, storeID, inner, conds...)
	if err != nil {
		return nil, err
	}
	or.grouped = len(children) > 1
	return or, nil
}
