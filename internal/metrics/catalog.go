package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
)

// Catalog Prometheus metrics.
var (
	TitlesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamflex",
			Name:      "titles_created_total",
			Help:      "Total number of titles added to the catalog",
		},
		[]string{"kind"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "streamflex",
			Name:      "search_results",
			Help:      "Number of titles returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(TitlesCreatedTotal)
	prometheus.MustRegister(SearchResults)
	catalogMetricsRegistered = true
}

// CatalogObserver feeds catalog activity into the Prometheus collectors.
type CatalogObserver struct{}

// TitleCreated counts a stored title by kind.
func (CatalogObserver) TitleCreated(kind domtitle.Kind) {
	TitlesCreatedTotal.WithLabelValues(string(kind)).Inc()
}

// SearchCompleted records the result size of one search.
func (CatalogObserver) SearchCompleted(results int) {
	SearchResults.Observe(float64(results))
}
