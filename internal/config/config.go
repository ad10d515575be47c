// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package config

import "time"

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	store, err := catalog.Open(ctx, &cfg.Catalog)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// CatalogConfig holds the course catalog database settings.
//
// Environment Variables:
//   - CATALOG_DRIVER: duckdb or sqlite (default: duckdb)
//   - CATALOG_PATH: database file, or :memory: (default: /data/apex.duckdb)
//   - CATALOG_SEED_FILE: YAML or JSON course list upserted at start-up
type CatalogConfig struct {
	Driver    string `koanf:"driver"`
	Path      string `koanf:"path"`
	Threads   int    `koanf:"threads"`    // DuckDB only; 0 = runtime.NumCPU()
	MaxMemory string `koanf:"max_memory"` // DuckDB only
	SeedFile  string `koanf:"seed_file"`

	// Breaker guards catalog reads made by the recommendation engine.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around catalog reads.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval resets the failure counts while closed.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests and FailureRatio decide when the breaker trips.
	MinRequests  uint32  `koanf:"min_requests"`
	FailureRatio float64 `koanf:"failure_ratio"`
}

// RecommendConfig holds recommendation engine settings.
//
// The vectorizer defaults reproduce the behaviour the catalog was tuned
// against: unigrams and bigrams, English stop words, a 95% document
// frequency ceiling and at most 5000 terms, with sublinear term frequency.
type RecommendConfig struct {
	// Vectorizer
	NgramMin     int     `koanf:"ngram_min"`
	NgramMax     int     `koanf:"ngram_max"`
	MinDF        int     `koanf:"min_df"`
	MaxDF        float64 `koanf:"max_df"`
	MaxFeatures  int     `koanf:"max_features"`
	StopWords    string  `koanf:"stop_words"` // english or none
	TokenPattern string  `koanf:"token_pattern"`
	SublinearTF  bool    `koanf:"sublinear_tf"`
	StripAccents bool    `koanf:"strip_accents"`

	// Field repetition in the combined course text.
	TitleWeight       int `koanf:"title_weight"`
	DescriptionWeight int `koanf:"description_weight"`
	CategoryWeight    int `koanf:"category_weight"`
	DifficultyWeight  int `koanf:"difficulty_weight"`
	TagsWeight        int `koanf:"tags_weight"`
	InstructorWeight  int `koanf:"instructor_weight"`

	// DescriptionLength is the rune limit for descriptions in results.
	DescriptionLength int `koanf:"description_length"`

	// Workers bounds similarity matrix goroutines. 0 = GOMAXPROCS.
	Workers int `koanf:"workers"`

	// Text query cache.
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`

	// RefreshOnStartup fits the engine as soon as the service starts
	// instead of on the first query.
	RefreshOnStartup bool `koanf:"refresh_on_startup"`

	// RefreshInterval rebuilds the vector space periodically. 0 disables.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// RefreshOnChange rebuilds after catalog change events, at most once
	// per RefreshDebounce.
	RefreshOnChange bool          `koanf:"refresh_on_change"`
	RefreshDebounce time.Duration `koanf:"refresh_debounce"`

	// RefreshTimeout bounds a single rebuild.
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`
}

// APIConfig holds API request limits.
type APIConfig struct {
	DefaultTopN     int   `koanf:"default_top_n"`
	MaxTopN         int   `koanf:"max_top_n"`
	MaxRequestBytes int64 `koanf:"max_request_bytes"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	AdminRateLimitReqs int           `koanf:"admin_rate_limit_reqs"`
	CORSOrigins        []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig holds supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
