package conditions

import (
	"errors"
	"fmt"
	"math"

	"discountd/internal/domain"
)

var (
	// ErrInvalidCondition reports a condition description that cannot be built.
	ErrInvalidCondition = errors.New("conditions: invalid condition")
	// ErrUnsupportedCondition reports a Condition implementation with no DTO form.
	ErrUnsupportedCondition = errors.New("conditions: condition cannot be described")
)

// Build constructs the Condition described by dto.
func Build(dto *domain.ConditionDTO) (domain.Condition, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: missing condition", ErrInvalidCondition)
	}
	switch dto.Type {
	case domain.ConditionAlways:
		return Always{}, nil
	case domain.ConditionMinPrice, domain.ConditionMaxPrice:
		if dto.Value < 0 || math.IsNaN(dto.Value) || math.IsInf(dto.Value, 0) {
			return nil, fmt.Errorf("%w: %s needs a non-negative amount", ErrInvalidCondition, dto.Type)
		}
		if dto.Type == domain.ConditionMinPrice {
			return MinPrice{ProductID: dto.ProductID, Amount: dto.Value}, nil
		}
		return MaxPrice{ProductID: dto.ProductID, Amount: dto.Value}, nil
	case domain.ConditionMinQuantity, domain.ConditionMaxQuantity:
		if dto.Value < 0 || dto.Value > math.MaxInt32 || dto.Value != math.Trunc(dto.Value) {
			return nil, fmt.Errorf("%w: %s needs a whole quantity between 0 and %d", ErrInvalidCondition, dto.Type, math.MaxInt32)
		}
		if dto.Type == domain.ConditionMinQuantity {
			return MinQuantity{ProductID: dto.ProductID, Quantity: int(dto.Value)}, nil
		}
		return MaxQuantity{ProductID: dto.ProductID, Quantity: int(dto.Value)}, nil
	case domain.ConditionAnd, domain.ConditionOr:
		if len(dto.Conditions) == 0 {
			return nil, fmt.Errorf("%w: %s needs at least one condition", ErrInvalidCondition, dto.Type)
		}
		children := make([]domain.Condition, 0, len(dto.Conditions))
		for i, sub := range dto.Conditions {
			c, err := Build(sub)
			if err != nil {
				return nil, fmt.Errorf("conditions[%d]: %w", i, err)
			}
			children = append(children, c)
		}
		if dto.Type == domain.ConditionAnd {
			return And{Conditions: children}, nil
		}
		return Or{Conditions: children}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrInvalidCondition)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCondition, dto.Type)
	}
}

// ToDTO describes c. Only the conditions of this package can be described.
func ToDTO(c domain.Condition) (*domain.ConditionDTO, error) {
	switch c := c.(type) {
	case Always:
		return &domain.ConditionDTO{Type: domain.ConditionAlways}, nil
	case MinPrice:
		return &domain.ConditionDTO{Type: domain.ConditionMinPrice, ProductID: c.ProductID, Value: c.Amount}, nil
	case MaxPrice:
		return &domain.ConditionDTO{Type: domain.ConditionMaxPrice, ProductID: c.ProductID, Value: c.Amount}, nil
	case MinQuantity:
		return &domain.ConditionDTO{Type: domain.ConditionMinQuantity, ProductID: c.ProductID, Value: float64(c.Quantity)}, nil
	case MaxQuantity:
		return &domain.ConditionDTO{Type: domain.ConditionMaxQuantity, ProductID: c.ProductID, Value: float64(c.Quantity)}, nil
	case And:
		return listToDTO(domain.ConditionAnd, c.Conditions)
	case Or:
		return listToDTO(domain.ConditionOr, c.Conditions)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCondition, c)
	}
}

func listToDTO(t domain.ConditionType, conds []domain.Condition) (*domain.ConditionDTO, error) {
	out := &domain.ConditionDTO{Type: t, Conditions: make([]*domain.ConditionDTO, 0, len(conds))}
	for _, c := range conds {
		sub, err := ToDTO(c)
		if err != nil {
			return nil, err
		}
		out.Conditions = append(out.Conditions, sub)
	}
	return out, nil
}
