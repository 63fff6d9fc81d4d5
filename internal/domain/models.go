package domain

import "slices"

type Product struct {
	ID        string  `db:"id" json:"id"`
	StoreID   string  `db:"store_id" json:"storeId"`
	Title     string  `db:"title" json:"title"`
	Price     float64 `db:"price" json:"price"`
	Active    bool    `db:"active" json:"active"`
	CreatedAt string  `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// Item is the read snapshot of a product used while pricing.
type Item struct {
	ProductID  string   `json:"productId"`
	Price      float64  `json:"price"`
	Categories []string `json:"categories,omitempty"`
}

func (i Item) InCategory(category string) bool {
	return slices.Contains(i.Categories, category)
}

// Basket maps product ids to ordered quantities for a single store.
type Basket struct {
	StoreID string         `json:"storeId"`
	Orders  map[string]int `json:"orders"`
}

// ProductIDs returns the ordered product ids in sorted order.
func (b Basket) ProductIDs() []string {
	ids := make([]string, 0, len(b.Orders))
	for id := range b.Orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ItemLookup resolves the current item snapshot of a product in a store.
type ItemLookup interface {
	Item(storeID, productID string) (Item, error)
}

// ItemLookupFunc adapts a plain function to ItemLookup.
type ItemLookupFunc func(storeID, productID string) (Item, error)

func (f ItemLookupFunc) Item(storeID, productID string) (Item, error) {
	return f(storeID, productID)
}

// Condition decides whether a discount rule is active for a whole basket.
type Condition interface {
	IsSatisfied(basket Basket, items ItemLookup) (bool, error)
}
