// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

// Package middleware provides HTTP middleware shared by the API router.
//
// Both middlewares use the standard func(http.Handler) http.Handler shape
// so they compose with chi's own middleware stack:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//
// RequestID honors an X-Request-ID header set by an upstream proxy and
// generates a UUID otherwise. The ID is echoed on the response and stored
// in the context for logging.Ctx.
//
// PrometheusMetrics records api_requests_total and
// api_request_duration_seconds labeled by chi route pattern.
package middleware
