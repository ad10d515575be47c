// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package api provides the HTTP layer of the course recommender.

Routes (all JSON):

	POST /api/v1/recommend                  similar courses for a course id
	POST /api/v1/recommend/text             courses matching free text
	GET  /api/v1/recommend/vocabulary       fitted terms in column order
	GET  /api/v1/recommend/status           snapshot and query counters
	GET  /api/v1/courses/popular?top_n=     popularity listing
	GET  /api/v1/courses/{id}/terms?top_n=  strongest terms of one course
	POST /api/v1/admin/recommend/refresh    synchronous rebuild
	GET  /api/v1/health/live                liveness
	GET  /api/v1/health/ready               readiness
	GET  /metrics                           Prometheus

Successful bodies carry "status": "success". Errors use a single shape:

	{"status": "error", "code": "COURSE_NOT_FOUND", "message": "..."}

When the engine has no vector space (an empty catalog, or one whose text
yields no vocabulary) the two recommendation endpoints answer 200 with the
popularity listing under "courses" and "fallback": "popular".

Middleware order: request id, real IP, panic recovery, CORS, then for
/api/v1 rate limiting (httprate), security headers, Prometheus and an
optional request deadline. The admin refresh route skips the request
deadline, since it waits for the rebuild, and has its own stricter limit.

Usage:

	handler := api.NewHandler(engine, store, cfg.API, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(
		api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), cfg.Server.Timeout)
	srv := &http.Server{Handler: router.Setup()}
*/
package api
