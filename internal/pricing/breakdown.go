package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrEmptyBreakdowns is returned when a total is requested over no breakdowns.
var ErrEmptyBreakdowns = errors.New("pricing: empty input")

// PriceBreakdown carries the original price of one product, the fraction of
// it to discount and the descriptions of every rule that contributed.
type PriceBreakdown struct {
	originalPrice float64
	discount      float64
	descriptions  []string
}

func NewPriceBreakdown(originalPrice, discount float64, descriptions ...string) PriceBreakdown {
	return PriceBreakdown{
		originalPrice: originalPrice,
		discount:      discount,
		descriptions:  slices.Clone(descriptions),
	}
}

// Zero is the breakdown of a product no rule touched.
func Zero(originalPrice float64) PriceBreakdown {
	return PriceBreakdown{originalPrice: originalPrice}
}

func (b PriceBreakdown) OriginalPrice() float64 { return b.originalPrice }

func (b PriceBreakdown) Discount() float64 { return b.discount }

func (b PriceBreakdown) FinalPrice() float64 {
	return b.originalPrice * (1 - b.discount)
}

// Descriptions returns a copy of the audit trail.
func (b PriceBreakdown) Descriptions() []string {
	return slices.Clone(b.descriptions)
}

func (b *PriceBreakdown) AddDescription(text string) {
	b.descriptions = append(slices.Clip(b.descriptions), text)
}

func (b PriceBreakdown) String() string {
	return fmt.Sprintf("%.2f -%.2f%% = %.2f", b.originalPrice, b.discount*100, b.FinalPrice())
}

type breakdownJSON struct {
	OriginalPrice float64  `json:"originalPrice"`
	Discount      float64  `json:"discount"`
	FinalPrice    float64  `json:"finalPrice"`
	Descriptions  []string `json:"descriptions"`
}

func (b PriceBreakdown) MarshalJSON() ([]byte, error) {
	desc := b.Descriptions()
	if desc == nil {
		desc = []string{}
	}
	return json.Marshal(breakdownJSON{
		OriginalPrice: b.originalPrice,
		Discount:      b.discount,
		FinalPrice:    b.FinalPrice(),
		Descriptions:  desc,
	})
}

func (b *PriceBreakdown) UnmarshalJSON(data []byte) error {
	var raw breakdownJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = NewPriceBreakdown(raw.OriginalPrice, raw.Discount, raw.Descriptions...)
	return nil
}

// Both operands must describe the same product; anything else is a caller bug.
func mustMatch(a, b PriceBreakdown) {
	if a.originalPrice != b.originalPrice {
		panic(fmt.Sprintf("pricing: combining breakdowns of different products (%v != %v)", a.originalPrice, b.originalPrice))
	}
}

// CombineMax keeps the breakdown with the larger discount. Ties keep a.
func CombineMax(a, b PriceBreakdown) PriceBreakdown {
	mustMatch(a, b)
	if b.discount > a.discount {
		return NewPriceBreakdown(b.originalPrice, b.discount, b.descriptions...)
	}
	return NewPriceBreakdown(a.originalPrice, a.discount, a.descriptions...)
}

// CombineMultiplicate stacks both discounts: 1-(1-a)(1-b).
func CombineMultiplicate(a, b PriceBreakdown) PriceBreakdown {
	mustMatch(a, b)
	desc := make([]string, 0, len(a.descriptions)+len(b.descriptions))
	desc = append(desc, a.descriptions...)
	desc = append(desc, b.descriptions...)
	return PriceBreakdown{
		originalPrice: a.originalPrice,
		discount:      1 - (1-a.discount)*(1-b.discount),
		descriptions:  desc,
	}
}

// CombineMaxMaps folds the maps pairwise with CombineMax.
func CombineMaxMaps(maps ...map[string]PriceBreakdown) map[string]PriceBreakdown {
	return combineMaps(CombineMax, maps)
}

// CombineMultiplicateMaps folds the maps pairwise with CombineMultiplicate.
func CombineMultiplicateMaps(maps ...map[string]PriceBreakdown) map[string]PriceBreakdown {
	return combineMaps(CombineMultiplicate, maps)
}

// A key found in only one map passes through as is.
func combineMaps(combine func(a, b PriceBreakdown) PriceBreakdown, maps []map[string]PriceBreakdown) map[string]PriceBreakdown {
	out := make(map[string]PriceBreakdown)
	for _, m := range maps {
		for id, b := range m {
			if cur, ok := out[id]; ok {
				out[id] = combine(cur, b)
				continue
			}
			out[id] = NewPriceBreakdown(b.originalPrice, b.discount, b.descriptions...)
		}
	}
	return out
}

// CalculateFinalPrice sums the final prices of the breakdowns.
func CalculateFinalPrice(breakdowns []PriceBreakdown) (float64, error) {
	if len(breakdowns) == 0 {
		return 0, ErrEmptyBreakdowns
	}
	total := decimal.Zero
	for _, b := range breakdowns {
		total = total.Add(decimal.NewFromFloat(b.FinalPrice()))
	}
	return total.InexactFloat64(), nil
}

// CalculateFinalPriceMap sums the final prices of a per-product map.
func CalculateFinalPriceMap(breakdowns map[string]PriceBreakdown) (float64, error) {
	if len(breakdowns) == 0 {
		return 0, ErrEmptyBreakdowns
	}
	list := make([]PriceBreakdown, 0, len(breakdowns))
	for _, b := range breakdowns {
		list = append(list, b)
	}
	return CalculateFinalPrice(list)
}
