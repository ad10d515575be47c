// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/apex-learning/course-recommender/internal/recommend"
)

var (
	// Vector Space Metrics
	VectorSpaceFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_fit_duration_seconds",
			Help:    "Duration of TF-IDF vector space fits in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	VectorSpaceFitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_fits_total",
			Help: "Total number of vector space fit attempts",
		},
		[]string{"outcome"}, // success, unfitted, error
	)

	VectorSpaceCorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_corpus_courses",
			Help: "Number of published courses in the live vector space",
		},
	)

	VectorSpaceVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_vocabulary_terms",
			Help: "Number of terms in the live vector space vocabulary",
		},
	)

	VectorSpaceVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_snapshot_version",
			Help: "Version of the live vector space snapshot (increments on every successful fit)",
		},
	)

	VectorSpaceLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_last_fit_success_timestamp",
			Help: "Unix timestamp of the last successful fit",
		},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_query_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"kind"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"kind", "outcome"},
	)

	// Text Query Cache Metrics
	TextCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_text_cache_hits_total",
			Help: "Total number of free-text query vector cache hits",
		},
	)

	TextCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_text_cache_misses_total",
			Help: "Total number of free-text query vector cache misses",
		},
	)

	// Catalog Metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_errors_total",
			Help: "Total number of catalog store query errors",
		},
		[]string{"operation"},
	)

	CatalogEventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_change_events_published_total",
			Help: "Total number of catalog change events published",
		},
	)

	// API Endpoint Metrics
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
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordCatalogQuery records a catalog store query metric
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

var _ recommend.MetricsRecorder = RecommendRecorder{}

// RecommendRecorder reports engine measurements to the package-level
// Prometheus collectors.
type RecommendRecorder struct{}

// NewRecommendRecorder returns a recorder backed by the default registry.
func NewRecommendRecorder() RecommendRecorder {
	return RecommendRecorder{}
}

// RecordFit records one fit attempt. Size and version gauges are only
// updated when a snapshot was installed.
func (RecommendRecorder) RecordFit(outcome string, duration time.Duration, corpusSize, vocabularySize int, version uint64) {
	VectorSpaceFitDuration.Observe(duration.Seconds())
	VectorSpaceFitsTotal.WithLabelValues(outcome).Inc()
	if outcome == recommend.OutcomeError {
		return
	}
	VectorSpaceCorpusSize.Set(float64(corpusSize))
	VectorSpaceVocabularySize.Set(float64(vocabularySize))
	VectorSpaceVersion.Set(float64(version))
	if outcome == recommend.OutcomeSuccess {
		VectorSpaceLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordQuery records one recommendation query.
func (RecommendRecorder) RecordQuery(kind, outcome string, duration time.Duration) {
	QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	QueriesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordCache records a text query cache lookup.
func (RecommendRecorder) RecordCache(hit bool) {
	if hit {
		TextCacheHits.Inc()
	} else {
		TextCacheMisses.Inc()
	}
}
