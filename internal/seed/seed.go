// Package seed loads demo products and discount descriptions from YAML.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"discountd/internal/discounts"
	"discountd/internal/domain"
)

type Product struct {
	StoreID    string   `yaml:"store"`
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Price      float64  `yaml:"price"`
	Categories []string `yaml:"categories"`
}

type Discount struct {
	StoreID  string             `yaml:"store"`
	Discount domain.DiscountDTO `yaml:"discount"`
}

type File struct {
	Products  []Product  `yaml:"products"`
	Discounts []Discount `yaml:"discounts"`
}

type ProductSaver interface {
	SaveProduct(p domain.Product, categories ...string) error
}

type DiscountAdder interface {
	AddDiscountDTO(storeID string, dto *domain.DiscountDTO) (discounts.Discount, error)
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("seed: parse: %w", err)
	}
	return f, nil
}

// Apply saves every product, then every discount. It keeps going after a bad
// entry and returns all failures joined.
func Apply(f File, products ProductSaver, catalog DiscountAdder) (int, error) {
	var errs []error
	applied := 0
	for i, p := range f.Products {
		err := products.SaveProduct(domain.Product{
			ID:      strings.TrimSpace(p.ID),
			StoreID: strings.TrimSpace(p.StoreID),
			Title:   p.Title,
			Price:   p.Price,
			Active:  true,
		}, p.Categories...)
		if err != nil {
			errs = append(errs, fmt.Errorf("seed: products[%d] %s: %w", i, p.ID, err))
			continue
		}
		applied++
	}
	for i := range f.Discounts {
		d := &f.Discounts[i]
		if _, err := catalog.AddDiscountDTO(d.StoreID, &d.Discount); err != nil {
			errs = append(errs, fmt.Errorf("seed: discounts[%d] %s: %w", i, d.Discount.ID, err))
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}
