package domain

type DiscountType string

const (
	DiscountSimple DiscountType = "SIMPLE"
	DiscountAnd    DiscountType = "AND"
	DiscountOr     DiscountType = "OR"
	DiscountXor    DiscountType = "XOR"
	DiscountMax    DiscountType = "MAX"
	DiscountDouble DiscountType = "DOUBLE"
)

type QualifierType string

const (
	QualifierProduct  QualifierType = "PRODUCT"
	QualifierCategory QualifierType = "CATEGORY"
	QualifierStore    QualifierType = "STORE"
)

// MergeType selects how overlapping discounts on one product combine.
type MergeType string

const (
	MergeMax MergeType = "MAX" // best of
	MergeMul MergeType = "MUL" // multiplicative stacking
)

type ConditionType string

const (
	ConditionAlways      ConditionType = "ALWAYS"
	ConditionMinPrice    ConditionType = "MIN_PRICE"
	ConditionMaxPrice    ConditionType = "MAX_PRICE"
	ConditionMinQuantity ConditionType = "MIN_QUANTITY"
	ConditionMaxQuantity ConditionType = "MAX_QUANTITY"
	ConditionAnd         ConditionType = "AND"
	ConditionOr          ConditionType = "OR"
)

// DiscountDTO is the external, untrusted description of a discount tree.
type DiscountDTO struct {
	ID                 string         `json:"id,omitempty" yaml:"id,omitempty"`
	Type               DiscountType   `json:"type" yaml:"type"`
	StoreID            string         `json:"storeId,omitempty" yaml:"storeId,omitempty"`
	DiscountPercentage *float64       `json:"discountPercentage,omitempty" yaml:"discountPercentage,omitempty"`
	QualifierType      QualifierType  `json:"qualifierType,omitempty" yaml:"qualifierType,omitempty"`
	QualifierValue     string         `json:"qualifierValue,omitempty" yaml:"qualifierValue,omitempty"`
	Condition          *ConditionDTO  `json:"condition,omitempty" yaml:"condition,omitempty"`
	SubDiscounts       []*DiscountDTO `json:"subDiscounts,omitempty" yaml:"subDiscounts,omitempty"`
	MergeType          MergeType      `json:"mergeType,omitempty" yaml:"mergeType,omitempty"`
}

// ConditionDTO describes a basket condition. ProductID narrows price and
// quantity thresholds to one product line; empty means the whole basket.
type ConditionDTO struct {
	Type       ConditionType   `json:"type" yaml:"type"`
	ProductID  string          `json:"productId,omitempty" yaml:"productId,omitempty"`
	Value      float64         `json:"value,omitempty" yaml:"value,omitempty"`
	Conditions []*ConditionDTO `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Percentage returns a pointer to p, for building DTOs inline.
func Percentage(p float64) *float64 { return &p }
