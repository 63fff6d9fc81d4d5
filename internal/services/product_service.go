package services

import (
	"errors"
	"strings"

	"discountd/internal/domain"
	"discountd/internal/repos"
)

var ErrInvalidProduct = errors.New("invalid product")

// ProductService maintains the item snapshots discounts are priced against.
type ProductService struct {
	Items *repos.ItemRepo
	Cache *repos.CachedItems
}

func NewProductService(items *repos.ItemRepo, cache *repos.CachedItems) *ProductService {
	return &ProductService{Items: items, Cache: cache}
}

func (s *ProductService) ListStoreProducts(storeID string) ([]domain.Product, error) {
	return s.Items.ListByStore(storeID)
}

func (s *ProductService) Item(storeID, productID string) (domain.Item, error) {
	return s.Items.Item(storeID, productID)
}

// SaveProduct upserts the product and drops its cached snapshot.
func (s *ProductService) SaveProduct(p domain.Product, categories ...string) error {
	p.ID = strings.TrimSpace(p.ID)
	p.StoreID = strings.TrimSpace(p.StoreID)
	if p.ID == "" || p.StoreID == "" || p.Price < 0 {
		return ErrInvalidProduct
	}
	if err := s.Items.Upsert(p, categories...); err != nil {
		return err
	}
	if s.Cache != nil {
		return s.Cache.Invalidate(p.StoreID, p.ID)
	}
	return nil
}
