package handlers

import (
	"discountd/internal/metrics"
	"discountd/internal/services"
)

type Deps struct {
	DiscountHandler *DiscountHandler
	QuoteHandler    *QuoteHandler
	ProductHandler  *ProductHandler
	Auth            *services.AdminAuth
	Metrics         *metrics.Metrics
}

func NewDeps(catalog *services.DiscountCatalog, products *services.ProductService, auth *services.AdminAuth, m *metrics.Metrics) *Deps {
	return &Deps{
		DiscountHandler: &DiscountHandler{Catalog: catalog, Metrics: m},
		QuoteHandler:    &QuoteHandler{Pricing: services.NewPricingService(catalog, m)},
		ProductHandler:  &ProductHandler{Products: products},
		Auth:            auth,
		Metrics:         m,
	}
}
