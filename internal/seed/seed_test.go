package seed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"discountd/internal/discounts"
	"discountd/internal/repos"
	"discountd/internal/seed"
	"discountd/internal/services"
)

const sample = `
products:
  - store: retro-2
    id: walkman-1
    title: Sony Walkman
    price: 40
    categories: [portable-audio]
discounts:
  - store: retro-2
    discount:
      id: audio-week
      type: AND
      mergeType: MUL
      subDiscounts:
        - type: SIMPLE
          discountPercentage: 0.1
          qualifierType: CATEGORY
          qualifierValue: portable-audio
          condition: {type: ALWAYS}
        - type: SIMPLE
          discountPercentage: 0.2
          qualifierType: STORE
          qualifierValue: retro-2
          condition: {type: MIN_QUANTITY, value: 2}
  - store: retro-2
    discount:
      id: broken
      type: SIMPLE
      discountPercentage: 3
`

func TestApply(t *testing.T) {
	f, err := seed.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Products, 1)
	require.Len(t, f.Discounts, 2)

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	items := repos.NewItemRepo(db)
	catalog, err := services.NewDiscountCatalog(repos.NewDiscountRepo(db, nil), items)
	require.NoError(t, err)

	n, err := seed.Apply(f, services.NewProductService(items, nil), catalog)
	require.ErrorIs(t, err, discounts.ErrInvalidDiscount)
	require.Equal(t, 2, n)

	d, err := catalog.GetDiscount("audio-week")
	require.NoError(t, err)
	require.Equal(t, "retro-2", d.StoreID())
	and, ok := d.(*discounts.AndDiscount)
	require.True(t, ok)
	require.Len(t, and.Children(), 2)

	ok, err = catalog.DiscountExists("broken")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := seed.Parse([]byte("products: [unterminated"))
	require.Error(t, err)
}
