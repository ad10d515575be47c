// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8087/metrics

# Available Metrics

Vector Space Metrics:
  - recommender_fit_duration_seconds: Fit latency (histogram)
  - recommender_fits_total: Fit attempts (counter), labels: outcome
  - recommender_corpus_courses: Courses in the live snapshot (gauge)
  - recommender_vocabulary_terms: Vocabulary size of the live snapshot (gauge)
  - recommender_snapshot_version: Live snapshot version (gauge)
  - recommender_last_fit_success_timestamp: Unix time of the last good fit (gauge)

Query Metrics:
  - recommender_query_duration_seconds: Query latency (histogram), labels: kind
  - recommender_queries_total: Queries (counter), labels: kind, outcome
  - recommender_text_cache_hits_total / recommender_text_cache_misses_total

Catalog Metrics:
  - catalog_query_duration_seconds: Store query latency (histogram), labels: operation
  - catalog_query_errors_total: Store query errors (counter), labels: operation
  - catalog_change_events_published_total: Change events published (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge), labels: name
  - circuit_breaker_requests_total: labels: name, result
  - circuit_breaker_consecutive_failures: labels: name
  - circuit_breaker_state_transitions_total: labels: name, from_state, to_state

HTTP Metrics:
  - api_requests_total: labels: method, endpoint, status_code
  - api_request_duration_seconds: labels: method, endpoint
  - api_active_requests: in-flight requests (gauge)

The endpoint label is the chi route pattern, not the raw path, so course
IDs never become label values.

# Engine Integration

RecommendRecorder implements recommend.MetricsRecorder:

	engine, err := recommend.NewEngine(cfg, store, logger,
	    recommend.WithMetrics(metrics.NewRecommendRecorder()))
*/
package metrics
