package discounts

import (
	"fmt"
	"strings"

	"discountd/internal/domain"
)

// Qualifier selects the items a discount rule targets.
type Qualifier interface {
	IsQualified(item domain.Item) bool
	Type() domain.QualifierType
	Value() string
}

type ProductQualifier struct {
	ProductID string
}

func (q ProductQualifier) IsQualified(item domain.Item) bool { return item.ProductID == q.ProductID }
func (q ProductQualifier) Type() domain.QualifierType        { return domain.QualifierProduct }
func (q ProductQualifier) Value() string                     { return q.ProductID }
func (q ProductQualifier) String() string                    { return "product " + q.ProductID }

type CategoryQualifier struct {
	Category string
}

func (q CategoryQualifier) IsQualified(item domain.Item) bool { return item.InCategory(q.Category) }
func (q CategoryQualifier) Type() domain.QualifierType        { return domain.QualifierCategory }
func (q CategoryQualifier) Value() string                     { return q.Category }
func (q CategoryQualifier) String() string                    { return "category " + q.Category }

// StoreQualifier targets every item of the store.
type StoreQualifier struct {
	StoreID string
}

func (StoreQualifier) IsQualified(domain.Item) bool { return true }
func (q StoreQualifier) Type() domain.QualifierType { return domain.QualifierStore }
func (q StoreQualifier) Value() string              { return q.StoreID }
func (q StoreQualifier) String() string             { return "store " + q.StoreID }

// MakeQualifier builds the qualifier variant named by qualifierType.
func MakeQualifier(qualifierType domain.QualifierType, value string) (Qualifier, error) {
	value = strings.TrimSpace(value)
	if qualifierType == "" {
		return nil, invalid("qualifierType", "missing")
	}
	if value == "" {
		return nil, invalid("qualifierValue", "missing")
	}
	switch qualifierType {
	case domain.QualifierProduct:
		return ProductQualifier{ProductID: value}, nil
	case domain.QualifierCategory:
		return CategoryQualifier{Category: value}, nil
	case domain.QualifierStore:
		return StoreQualifier{StoreID: value}, nil
	default:
		return nil, invalid("qualifierType", fmt.Sprintf("unknown type %q", qualifierType))
	}
}
