package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Resolution metrics
	PricesResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_prices_resolved_total",
			Help: "Total number of (room type, date) pairs resolved",
		},
	)

	CalendarCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_calendar_cache_total",
			Help: "Calendar cache lookups by outcome",
		},
		[]string{"outcome"}, // hit, miss
	)

	// Bulk adjustment metrics
	BulkExpansionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_bulk_expansion_rules",
			Help:    "Number of rules emitted per bulk expansion",
			Buckets: []float64{1, 10, 30, 100, 365, 1000, 5000},
		},
	)

	BulkCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_bulk_commits_total",
			Help: "Bulk adjustment commits by status",
		},
		[]string{"status"}, // committed, failed
	)

	// Import metrics
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_import_rows_total",
			Help: "Imported CSV rows by outcome",
		},
		[]string{"outcome"}, // imported, skipped
	)
)

// RecordHTTPRequest records an HTTP request metric
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
