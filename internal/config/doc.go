// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package config provides centralized configuration management for the
recommendation service.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, or
    /etc/apex-recommender/config.yaml
  - Environment variables, mapped explicitly by envTransformFunc

# Configuration Structure

  - ServerConfig: HTTP listener and shutdown timing
  - CatalogConfig: course database driver (duckdb, sqlite), path, seed
    file and the circuit breaker around catalog reads
  - RecommendConfig: vectorizer, field weights, text cache and refresh
    scheduling
  - APIConfig: top-n bounds and request body size
  - SecurityConfig: rate limits and CORS origins
  - LoggingConfig: level, format, caller
  - SupervisorConfig: suture failure handling

# Environment Variables

Server:
  - HTTP_PORT (default: 8087), HTTP_HOST (default: 0.0.0.0)
  - HTTP_TIMEOUT (default: 30s), SHUTDOWN_TIMEOUT (default: 10s)
  - ENVIRONMENT: development, staging, production

Catalog:
  - CATALOG_DRIVER: duckdb or sqlite (default: duckdb)
  - CATALOG_PATH (default: /data/apex.duckdb)
  - CATALOG_SEED_FILE: courses to upsert at start-up
  - CATALOG_BREAKER_ENABLED, CATALOG_BREAKER_TIMEOUT, ...

Recommendation engine:
  - RECOMMEND_MAX_FEATURES (default: 5000), RECOMMEND_MAX_DF (default: 0.95)
  - RECOMMEND_NGRAM_MIN / RECOMMEND_NGRAM_MAX (default: 1 / 2)
  - RECOMMEND_STOP_WORDS: english or none
  - RECOMMEND_TITLE_WEIGHT (default: 3), RECOMMEND_CATEGORY_WEIGHT (default: 2)
  - RECOMMEND_REFRESH_INTERVAL (default: 0, disabled)
  - RECOMMEND_REFRESH_ON_CHANGE (default: true), RECOMMEND_REFRESH_DEBOUNCE (default: 5s)

Security:
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
  - ADMIN_RATE_LIMIT_REQUESTS (default: 5)
  - DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated (default: *)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Thread Safety

Config is immutable after Load() and safe for concurrent reads.
*/
package config
