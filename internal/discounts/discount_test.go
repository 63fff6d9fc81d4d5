package discounts_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"discountd/internal/conditions"
	"discountd/internal/discounts"
	"discountd/internal/domain"
	"discountd/internal/pricing"
)

const store = "store-1"

var catalog = map[string]domain.Item{
	"tv":     {ProductID: "tv", Price: 100, Categories: []string{"electronics"}},
	"radio":  {ProductID: "radio", Price: 40, Categories: []string{"electronics", "audio"}},
	"apple":  {ProductID: "apple", Price: 2.5, Categories: []string{"fruit"}},
	"cheese": {ProductID: "cheese", Price: 10, Categories: []string{"dairy"}},
}

var items = domain.ItemLookupFunc(func(_, productID string) (domain.Item, error) {
	item, ok := catalog[productID]
	if !ok {
		return domain.Item{}, errors.New("item not found: " + productID)
	}
	return item, nil
})

func basket(orders map[string]int) domain.Basket {
	return domain.Basket{StoreID: store, Orders: orders}
}

var never = conditions.Any()

func simple(t *testing.T, id string, pct float64, q discounts.Qualifier, cond domain.Condition) *discounts.SimpleDiscount {
	t.Helper()
	d, err := discounts.NewSimpleDiscount(id, store, pct, q, cond)
	require.NoError(t, err)
	return d
}

func price(t *testing.T, d discounts.Discount, b domain.Basket) map[string]pricing.PriceBreakdown {
	t.Helper()
	out, err := d.CalculatePrice(b, items)
	require.NoError(t, err)
	require.Len(t, out, len(b.Orders))
	return out
}

func qualified(t *testing.T, d discounts.Discount, productID string) bool {
	t.Helper()
	ok, err := d.IsQualified(productID, items)
	require.NoError(t, err)
	return ok
}

func TestQualifiers(t *testing.T) {
	tv := catalog["tv"]
	require.True(t, discounts.ProductQualifier{ProductID: "tv"}.IsQualified(tv))
	require.False(t, discounts.ProductQualifier{ProductID: "radio"}.IsQualified(tv))
	require.True(t, discounts.CategoryQualifier{Category: "electronics"}.IsQualified(tv))
	require.False(t, discounts.CategoryQualifier{Category: "audio"}.IsQualified(tv))
	require.True(t, discounts.StoreQualifier{StoreID: store}.IsQualified(tv))
	require.True(t, discounts.StoreQualifier{StoreID: store}.IsQualified(domain.Item{}))

	require.Equal(t, discounts.Qualifier(discounts.CategoryQualifier{Category: "fruit"}), discounts.Qualifier(discounts.CategoryQualifier{Category: "fruit"}))

	q, err := discounts.MakeQualifier(domain.QualifierCategory, "fruit")
	require.NoError(t, err)
	require.Equal(t, discounts.CategoryQualifier{Category: "fruit"}, q)

	for _, tc := range []struct {
		typ   domain.QualifierType
		value string
	}{{"", "x"}, {domain.QualifierProduct, ""}, {domain.QualifierStore, "  "}, {"BRAND", "acme"}} {
		_, err := discounts.MakeQualifier(tc.typ, tc.value)
		require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	}
}

func TestSimpleDiscount(t *testing.T) {
	d := simple(t, "d1", 0.2, discounts.CategoryQualifier{Category: "electronics"}, conditions.Always{})
	out := price(t, d, basket(map[string]int{"tv": 1, "apple": 3}))

	require.Equal(t, 0.2, out["tv"].Discount())
	require.InDelta(t, 80.0, out["tv"].FinalPrice(), 1e-9)
	require.Len(t, out["tv"].Descriptions(), 1)
	require.Contains(t, out["tv"].Descriptions()[0], "d1")

	require.Equal(t, 0.0, out["apple"].Discount())
	require.Equal(t, 2.5, out["apple"].OriginalPrice())
	require.Empty(t, out["apple"].Descriptions())

	require.True(t, qualified(t, d, "radio"))
	require.False(t, qualified(t, d, "cheese"))
}

func TestSimpleDiscountConditionFalse(t *testing.T) {
	d := simple(t, "d1", 0.5, discounts.StoreQualifier{StoreID: store}, never)
	for id, b := range price(t, d, basket(map[string]int{"tv": 1, "cheese": 2})) {
		require.Equal(t, 0.0, b.Discount(), id)
		require.Equal(t, catalog[id].Price, b.OriginalPrice())
	}
	// qualification ignores the condition
	require.True(t, qualified(t, d, "tv"))
}

func TestNewSimpleDiscountValidates(t *testing.T) {
	q := discounts.StoreQualifier{StoreID: store}
	cases := []func() error{
		func() error { _, err := discounts.NewSimpleDiscount("d", store, 1.5, q, conditions.Always{}); return err },
		func() error { _, err := discounts.NewSimpleDiscount("d", store, -0.1, q, conditions.Always{}); return err },
		func() error { _, err := discounts.NewSimpleDiscount("d", store, 0.1, nil, conditions.Always{}); return err },
		func() error { _, err := discounts.NewSimpleDiscount("d", store, 0.1, q, nil); return err },
		func() error { _, err := discounts.NewSimpleDiscount("", store, 0.1, q, conditions.Always{}); return err },
		func() error { _, err := discounts.NewSimpleDiscount("d", " ", 0.1, q, conditions.Always{}); return err },
	}
	for i, c := range cases {
		require.ErrorIs(t, c(), discounts.ErrInvalidDiscount, "case %d", i)
	}
	_, err := discounts.NewSimpleDiscount("d", store, 1, q, conditions.Always{})
	require.NoError(t, err)
}

func TestAndDiscount(t *testing.T) {
	tv := simple(t, "tv", 0.2, discounts.ProductQualifier{ProductID: "tv"}, conditions.Always{})
	elec := simple(t, "elec", 0.1, discounts.CategoryQualifier{Category: "electronics"}, conditions.Always{})
	b := basket(map[string]int{"tv": 1, "radio": 1, "apple": 1})

	maxAnd, err := discounts.NewAndDiscount("and", store, domain.MergeMax, tv, elec)
	require.NoError(t, err)
	out := price(t, maxAnd, b)
	require.Equal(t, 0.2, out["tv"].Discount())
	require.Equal(t, 0.1, out["radio"].Discount())
	require.Equal(t, 0.0, out["apple"].Discount())

	mulAnd, err := discounts.NewAndDiscount("and", store, domain.MergeMul, tv, elec)
	require.NoError(t, err)
	out = price(t, mulAnd, b)
	require.InDelta(t, 0.28, out["tv"].Discount(), 1e-9)
	require.Len(t, out["tv"].Descriptions(), 2)
	require.Equal(t, 0.1, out["radio"].Discount())
}

func TestAndDiscountConditionFalse(t *testing.T) {
	on := simple(t, "on", 0.2, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	off := simple(t, "off", 0.3, discounts.StoreQualifier{StoreID: store}, conditions.MinQuantity{Quantity: 100})
	d, err := discounts.NewAndDiscount("and", store, domain.MergeMax, on, off)
	require.NoError(t, err)

	for id, b := range price(t, d, basket(map[string]int{"tv": 1, "radio": 2})) {
		require.Equal(t, 0.0, b.Discount())
		require.Equal(t, catalog[id].Price, b.OriginalPrice())
	}
}

func TestAndDiscountQualificationIsUnion(t *testing.T) {
	d1 := simple(t, "d1", 0.1, discounts.ProductQualifier{ProductID: "tv"}, conditions.Always{})
	d2 := simple(t, "d2", 0.1, discounts.CategoryQualifier{Category: "fruit"}, never)

	ab, err := discounts.NewAndDiscount("ab", store, domain.MergeMax, d1, d2)
	require.NoError(t, err)
	ba, err := discounts.NewAndDiscount("ba", store, domain.MergeMax, d2, d1)
	require.NoError(t, err)

	for id := range catalog {
		want := qualified(t, d1, id) || qualified(t, d2, id)
		require.Equal(t, want, qualified(t, ab, id), id)
		require.Equal(t, want, qualified(t, ba, id), id)
	}
}

func TestOrDiscount(t *testing.T) {
	inner := simple(t, "inner", 0.25, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	d, err := discounts.NewOrDiscount("or", store, inner,
		conditions.MinQuantity{ProductID: "apple", Quantity: 10},
		conditions.MinPrice{Amount: 100},
	)
	require.NoError(t, err)

	out := price(t, d, basket(map[string]int{"tv": 1}))
	require.Equal(t, 0.25, out["tv"].Discount())

	out = price(t, d, basket(map[string]int{"apple": 3}))
	require.Equal(t, 0.0, out["apple"].Discount())
	require.Equal(t, 2.5, out["apple"].OriginalPrice())

	out = price(t, d, basket(map[string]int{"apple": 10}))
	require.Equal(t, 0.25, out["apple"].Discount())

	require.Equal(t, qualified(t, inner, "cheese"), qualified(t, d, "cheese"))

	_, err = discounts.NewOrDiscount("or", store, inner)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	_, err = discounts.NewOrDiscount("or", store, nil, conditions.Always{})
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
}

func TestXorDiscountSelectsOneChild(t *testing.T) {
	first := simple(t, "first", 0.1, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	second := simple(t, "second", 0.3, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	selector := conditions.MinQuantity{ProductID: "tv", Quantity: 2}

	d, err := discounts.NewXorDiscount("xor", store, selector, domain.MergeMul, first, second)
	require.NoError(t, err)

	out := price(t, d, basket(map[string]int{"tv": 1}))
	require.Equal(t, 0.1, out["tv"].Discount())
	require.Len(t, out["tv"].Descriptions(), 1)
	require.Contains(t, out["tv"].Descriptions()[0], "first")

	out = price(t, d, basket(map[string]int{"tv": 2}))
	require.Equal(t, 0.3, out["tv"].Discount())
	require.Len(t, out["tv"].Descriptions(), 1)
	require.Contains(t, out["tv"].Descriptions()[0], "second")

	_, err = discounts.NewXorDiscount("xor", store, selector, domain.MergeMax, first, nil)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	_, err = discounts.NewXorDiscount("xor", store, nil, domain.MergeMax, first, second)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
}

func TestMaxDiscount(t *testing.T) {
	low := simple(t, "low", 0.1, discounts.CategoryQualifier{Category: "electronics"}, conditions.Always{})
	high := simple(t, "high", 0.4, discounts.ProductQualifier{ProductID: "radio"}, conditions.Always{})

	d, err := discounts.NewMaxDiscount("max", store, low, high)
	require.NoError(t, err)
	out := price(t, d, basket(map[string]int{"tv": 1, "radio": 1, "cheese": 1}))
	require.Equal(t, 0.1, out["tv"].Discount())
	require.Equal(t, 0.4, out["radio"].Discount())
	require.Len(t, out["radio"].Descriptions(), 1)
	require.Contains(t, out["radio"].Descriptions()[0], "high")
	require.Equal(t, 0.0, out["cheese"].Discount())

	require.True(t, qualified(t, d, "tv"))
	require.False(t, qualified(t, d, "apple"))
}

func TestDoubleDiscountStacks(t *testing.T) {
	twenty := simple(t, "twenty", 0.2, discounts.ProductQualifier{ProductID: "tv"}, conditions.Always{})
	ten := simple(t, "ten", 0.1, discounts.CategoryQualifier{Category: "electronics"}, conditions.Always{})

	d, err := discounts.NewDoubleDiscount("double", store, twenty, ten)
	require.NoError(t, err)
	out := price(t, d, basket(map[string]int{"tv": 1, "radio": 1, "apple": 1}))

	require.InDelta(t, 0.28, out["tv"].Discount(), 1e-9)
	require.InDelta(t, 72.0, out["tv"].FinalPrice(), 1e-9)
	require.Len(t, out["tv"].Descriptions(), 2)
	require.Equal(t, 0.1, out["radio"].Discount())
	require.Equal(t, 0.0, out["apple"].Discount())

	total, err := pricing.CalculateFinalPriceMap(out)
	require.NoError(t, err)
	require.InDelta(t, 72.0+36.0+2.5, total, 1e-9)
}

func TestCompositeConstructorsValidate(t *testing.T) {
	_, err := discounts.NewAndDiscount("and", store, domain.MergeMax)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	leaf := simple(t, "leaf", 0.1, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	_, err = discounts.NewAndDiscount("and", store, "SUM", leaf)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	_, err = discounts.NewMaxDiscount("max", store)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	_, err = discounts.NewDoubleDiscount("double", store, leaf, nil)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
}

func TestLookupFailureIsReturned(t *testing.T) {
	d := simple(t, "d", 0.1, discounts.StoreQualifier{StoreID: store}, conditions.Always{})
	_, err := d.CalculatePrice(basket(map[string]int{"ghost": 1}), items)
	require.Error(t, err)
	_, err = d.IsQualified("ghost", items)
	require.Error(t, err)
}
