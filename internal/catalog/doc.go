// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package catalog stores the course catalog the recommender reads from.

# Storage

Courses live in a single apex_courses table. Two database/sql drivers are
supported and share the same schema and queries:

  - duckdb (default): github.com/duckdb/duckdb-go/v2, file backed
  - sqlite: github.com/ncruces/go-sqlite3, a pure Go build of SQLite

An empty path or ":memory:" opens an in-memory database.

	store, err := catalog.Open(ctx, &cfg.Catalog, catalog.WithEvents(events))
	defer store.Close()

ListPublished returns published courses ordered by creation time and then
id. That order defines the corpus index of the vector space, so it must
stay stable between refreshes that add no courses.

# Seeding

LoadSeedFile reads a YAML or JSON file with a top-level courses list.
Records without an id receive a UUID; is_published defaults to true.

# Change Events

Every successful Upsert or SetPublished publishes a ChangeEvent on the
catalog.changed topic of an in-process Watermill GoChannel. The refresh
service subscribes with SubscribeChanged and rebuilds the vector space.

# Resilience

BreakerReader wraps any recommend.CatalogReader in a gobreaker circuit
breaker so a failing database is not hammered by refresh attempts. State
is exported through the circuit_breaker_* Prometheus metrics.
*/
package catalog
