// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	operationStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "operations_started_total",
		Help:      "Total number of background operations started by type",
	}, []string{"type"})
	operationCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "operations_completed_total",
		Help:      "Total number of background operations successfully completed by type",
	}, []string{"type"})
	operationFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "operations_failed_total",
		Help:      "Total number of background operations failed by type",
	}, []string{"type"})
	operationCanceled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "operations_canceled_total",
		Help:      "Total number of background operations canceled by type",
	}, []string{"type"})
	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "library_proto",
		Name:      "operation_duration_seconds",
		Help:      "Histogram of background operation durations in seconds by type",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms up to ~20s
	}, []string{"type"})

	searchOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "search_outcomes_total",
		Help:      "Settled search sessions by outcome (populated, empty, or a failure reason)",
	}, []string{"outcome"})
	searchSuperseded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "search_superseded_total",
		Help:      "Search results discarded because a newer query was submitted",
	})
	coverFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "cover_fetches_total",
		Help:      "Cover image deliveries by outcome",
	}, []string{"outcome"})
	coverCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library_proto",
		Name:      "cover_cache_lookups_total",
		Help:      "Cover cache lookups by result (hit, miss)",
	}, []string{"result"})
	libraryEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "library_proto",
		Name:      "library_entries",
		Help:      "Current number of saved library entries",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(operationStarted, operationCompleted, operationFailed, operationCanceled, operationDuration,
			searchOutcomes, searchSuperseded, coverFetches, coverCache, libraryEntries)
	})
}

// Operation lifecycle helpers
func IncOperationStarted(opType string)   { operationStarted.WithLabelValues(opType).Inc() }
func IncOperationCompleted(opType string) { operationCompleted.WithLabelValues(opType).Inc() }
func IncOperationFailed(opType string)    { operationFailed.WithLabelValues(opType).Inc() }
func IncOperationCanceled(opType string)  { operationCanceled.WithLabelValues(opType).Inc() }
func ObserveOperationDuration(opType string, d time.Duration) {
	operationDuration.WithLabelValues(opType).Observe(d.Seconds())
}

// Search and cover helpers
func IncSearchOutcome(outcome string)  { searchOutcomes.WithLabelValues(outcome).Inc() }
func IncSearchSuperseded()             { searchSuperseded.Inc() }
func IncCoverFetch(outcome string)     { coverFetches.WithLabelValues(outcome).Inc() }
func IncCoverCache(hit bool) {
	if hit {
		coverCache.WithLabelValues("hit").Inc()
		return
	}
	coverCache.WithLabelValues("miss").Inc()
}

// Gauges
func SetLibraryEntries(n int) { libraryEntries.Set(float64(n)) }
