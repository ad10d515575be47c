// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package main is the entry point for the Apex course recommender.

The server answers "courses similar to this one" and "courses matching this
text" from a TF-IDF vector space built over the published catalog.

Start-up order:

 1. Configuration: koanf defaults, optional YAML file, environment
 2. Logging: zerolog, with slog bridged in for suture and Watermill
 3. Catalog: DuckDB or SQLite store, optional seed file, change event bus
 4. Engine: vectorizer settings from config, Prometheus recorder, optional
    circuit breaker around catalog reads
 5. Supervisor tree: refresh service (data layer), catalog event listener
    (messaging layer), HTTP server (api layer)

SIGINT or SIGTERM cancels the root context. The HTTP server drains within
server.shutdown_timeout and any service that fails to stop is logged.

Build with a version string:

	go build -ldflags "-X main.version=1.2.0" ./cmd/server
*/
package main
