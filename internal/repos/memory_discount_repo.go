package repos

import (
	"fmt"
	"sort"
	"sync"

	"discountd/internal/discounts"
)

// MemoryDiscountRepo keeps discounts in a map. Used by tests and when no
// database is configured.
type MemoryDiscountRepo struct {
	mu    sync.RWMutex
	byID  map[string]discounts.Discount
	order map[string]int
	seq   int
}

func NewMemoryDiscountRepo() *MemoryDiscountRepo {
	return &MemoryDiscountRepo{byID: map[string]discounts.Discount{}, order: map[string]int{}}
}

func (r *MemoryDiscountRepo) Add(id string, d discounts.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.order[id]; !ok {
		r.seq++
		r.order[id] = r.seq
	}
	r.byID[id] = d
	return nil
}

func (r *MemoryDiscountRepo) Get(id string) (discounts.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("discount %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (r *MemoryDiscountRepo) Remove(id string) (discounts.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("discount %s: %w", id, ErrNotFound)
	}
	delete(r.byID, id)
	delete(r.order, id)
	return d, nil
}

func (r *MemoryDiscountRepo) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

// StoreDiscounts returns the store's discounts in insertion order.
func (r *MemoryDiscountRepo) StoreDiscounts(storeID string) ([]discounts.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.byID))
	for id, d := range r.byID {
		if d.StoreID() == storeID {
			keys = append(keys, id)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return r.order[keys[i]] < r.order[keys[j]] })
	out := make([]discounts.Discount, 0, len(keys))
	for _, id := range keys {
		out = append(out, r.byID[id])
	}
	return out, nil
}
