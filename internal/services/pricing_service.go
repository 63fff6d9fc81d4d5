package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"discountd/internal/domain"
	"discountd/internal/metrics"
	"discountd/internal/pricing"
)

var (
	ErrEmptyBasket     = errors.New("pricing: basket is empty")
	ErrInvalidQuantity = errors.New("pricing: quantity must be positive")
	ErrMissingStore    = errors.New("pricing: store id is required")
)

type QuoteLine struct {
	ProductID string                 `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Unit      pricing.PriceBreakdown `json:"unit"`
	LineTotal float64                `json:"lineTotal"`
}

type Quote struct {
	StoreID  string      `json:"storeId"`
	Lines    []QuoteLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
	Savings  float64     `json:"savings"`
	Total    float64     `json:"total"`
}

// PricingService prices baskets against every discount of their store. The
// discounts compete per product and the best one wins.
type PricingService struct {
	Catalog *DiscountCatalog
	Metrics *metrics.Metrics
}

func NewPricingService(catalog *DiscountCatalog, m *metrics.Metrics) *PricingService {
	return &PricingService{Catalog: catalog, Metrics: m}
}

func (s *PricingService) Quote(basket domain.Basket) (Quote, error) {
	start := time.Now()
	q, err := s.quote(basket)
	if s.Metrics != nil {
		s.Metrics.QuoteLatency.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.Quotes.WithLabelValues(outcome).Inc()
		if err == nil {
			s.Metrics.QuotedLines.Add(float64(len(q.Lines)))
			for _, l := range q.Lines {
				if l.Unit.Discount() > 0 {
					s.Metrics.DiscountedLines.Inc()
				}
			}
		}
	}
	return q, err
}

func (s *PricingService) quote(basket domain.Basket) (Quote, error) {
	basket.StoreID = strings.TrimSpace(basket.StoreID)
	if basket.StoreID == "" {
		return Quote{}, ErrMissingStore
	}
	if len(basket.Orders) == 0 {
		return Quote{}, ErrEmptyBasket
	}
	for id, qty := range basket.Orders {
		if qty <= 0 {
			return Quote{}, fmt.Errorf("%w: %s x%d", ErrInvalidQuantity, id, qty)
		}
	}

	items := snapshot(s.Catalog.Items)
	ids := basket.ProductIDs()
	base := make(map[string]pricing.PriceBreakdown, len(ids))
	for _, id := range ids {
		item, err := items.Item(basket.StoreID, id)
		if err != nil {
			return Quote{}, fmt.Errorf("item %s: %w", id, err)
		}
		base[id] = pricing.Zero(item.Price)
	}

	list, err := s.Catalog.StoreDiscounts(basket.StoreID)
	if err != nil {
		return Quote{}, err
	}
	maps := []map[string]pricing.PriceBreakdown{base}
	for _, d := range list {
		m, err := d.CalculatePrice(basket, items)
		if err != nil {
			return Quote{}, fmt.Errorf("discount %s: %w", d.ID(), err)
		}
		maps = append(maps, m)
	}
	best := pricing.CombineMaxMaps(maps...)

	q := Quote{StoreID: basket.StoreID, Lines: make([]QuoteLine, 0, len(ids))}
	subtotal, total := decimal.Zero, decimal.Zero
	for _, id := range ids {
		b := best[id]
		qty := decimal.NewFromInt(int64(basket.Orders[id]))
		line := decimal.NewFromFloat(b.FinalPrice()).Mul(qty)
		subtotal = subtotal.Add(decimal.NewFromFloat(b.OriginalPrice()).Mul(qty))
		total = total.Add(line)
		q.Lines = append(q.Lines, QuoteLine{
			ProductID: id,
			Quantity:  basket.Orders[id],
			Unit:      b,
			LineTotal: line.Round(2).InexactFloat64(),
		})
	}
	q.Subtotal = subtotal.Round(2).InexactFloat64()
	q.Total = total.Round(2).InexactFloat64()
	q.Savings = subtotal.Sub(total).Round(2).InexactFloat64()
	return q, nil
}

// snapshotLookup pins the first item read of each product for the rest of one
// quote, so every discount prices against the same price.
type snapshotLookup struct {
	next  domain.ItemLookup
	items map[string]domain.Item
}

func snapshot(next domain.ItemLookup) *snapshotLookup {
	return &snapshotLookup{next: next, items: map[string]domain.Item{}}
}

func (l *snapshotLookup) Item(storeID, productID string) (domain.Item, error) {
	key := storeID + "\x00" + productID
	if it, ok := l.items[key]; ok {
		return it, nil
	}
	it, err := l.next.Item(storeID, productID)
	if err != nil {
		return domain.Item{}, err
	}
	l.items[key] = it
	return it, nil
}
