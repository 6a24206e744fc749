// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package metrics defines the Prometheus collectors exposed on /metrics.
//
// Collectors are registered with the default registry through promauto.
// Callers use the Record* helpers rather than touching vectors directly so
// label sets stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of comparison requests by kind",
		},
		[]string{"kind"}, // "full", "services", "bundles"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent scoring services and searching bundles",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"kind"},
	)

	RecommendationSelectedChannels = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_selected_channels",
			Help:    "Number of distinct channels in a comparison request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	BundleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundle_search_outcomes_total",
			Help: "Bundle search results by outcome",
		},
		[]string{"outcome"}, // "not_attempted", "none_found", "found"
	)

	BundleCombinationsEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bundle_combinations_evaluated",
			Help:    "Number of service combinations evaluated per bundle search",
			Buckets: []float64{0, 1, 10, 28, 56, 84, 200, 1000},
		},
	)

	// Catalog Metrics
	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Time taken to fetch a catalog collection from its source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "collection"},
	)

	CatalogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetch_errors_total",
			Help: "Total number of failed catalog fetches",
		},
		[]string{"source", "collection"},
	)

	CatalogSnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_records",
			Help: "Number of records in the current catalog snapshot",
		},
		[]string{"collection"}, // "services", "channels", "mappings"
	)

	CatalogSnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_loaded_timestamp_seconds",
			Help: "Unix time the current catalog snapshot was loaded",
		},
	)

	CatalogFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_fallback_total",
			Help: "Times the last known good snapshot was served because the source failed",
		},
	)

	CatalogRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_records_dropped_total",
			Help: "Catalog records dropped while building a snapshot",
		},
		[]string{"reason"}, // "duplicate_mapping", "dangling_mapping"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one comparison request.
func RecordRecommendation(kind string, selected int, duration time.Duration) {
	RecommendationRequests.WithLabelValues(kind).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	RecommendationSelectedChannels.Observe(float64(selected))
}

// RecordBundleSearch records the outcome of a bundle search.
func RecordBundleSearch(outcome string, evaluated int) {
	BundleOutcomes.WithLabelValues(outcome).Inc()
	BundleCombinationsEvaluated.Observe(float64(evaluated))
}

// RecordCatalogFetch records one collection fetch against a catalog source.
func RecordCatalogFetch(source, collection string, duration time.Duration, err error) {
	CatalogFetchDuration.WithLabelValues(source, collection).Observe(duration.Seconds())
	if err != nil {
		CatalogFetchErrors.WithLabelValues(source, collection).Inc()
	}
}

// UpdateCatalogSnapshot publishes the size and load time of a new snapshot.
func UpdateCatalogSnapshot(services, channels, mappings int, loadedAt time.Time) {
	CatalogSnapshotSize.WithLabelValues("services").Set(float64(services))
	CatalogSnapshotSize.WithLabelValues("channels").Set(float64(channels))
	CatalogSnapshotSize.WithLabelValues("mappings").Set(float64(mappings))
	CatalogSnapshotAge.Set(float64(loadedAt.Unix()))
}

// RecordCatalogDropped counts records discarded during snapshot build.
func RecordCatalogDropped(reason string, n int) {
	if n > 0 {
		CatalogRecordsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordCacheLookup counts a hit or miss on the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}
