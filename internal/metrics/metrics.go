// Package metrics holds the Prometheus collectors of the pricing service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Quotes           *prometheus.CounterVec
	QuoteLatency     prometheus.Histogram
	QuotedLines      prometheus.Counter
	DiscountedLines  prometheus.Counter
	DiscountChanges  *prometheus.CounterVec
	ValidationErrors prometheus.Counter
}

// New registers a fresh set of collectors on their own registry, so several
// instances can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discountd_quotes_total",
				Help: "Basket quotes by outcome",
			},
			[]string{"outcome"},
		),
		QuoteLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discountd_quote_duration_seconds",
				Help:    "Time spent pricing a basket against the store discounts",
				Buckets: prometheus.DefBuckets,
			},
		),
		QuotedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discountd_quoted_lines_total",
			Help: "Basket lines priced",
		}),
		DiscountedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discountd_discounted_lines_total",
			Help: "Basket lines that received a non-zero discount",
		}),
		DiscountChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discountd_discount_changes_total",
				Help: "Discount catalog mutations by operation",
			},
			[]string{"op"},
		),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discountd_invalid_descriptions_total",
			Help: "Discount descriptions rejected by validation",
		}),
	}
	m.Registry.MustRegister(
		m.Quotes,
		m.QuoteLatency,
		m.QuotedLines,
		m.DiscountedLines,
		m.DiscountChanges,
		m.ValidationErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
