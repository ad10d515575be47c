// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/apex-recommender/config.yaml",
	"/etc/apex-recommender/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8087,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Catalog: CatalogConfig{
			Driver:    "duckdb",
			Path:      "/data/apex.duckdb",
			Threads:   0,
			MaxMemory: "512MB",
			SeedFile:  "",
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  1,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  3,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			NgramMin:          1,
			NgramMax:          2,
			MinDF:             1,
			MaxDF:             0.95,
			MaxFeatures:       5000,
			StopWords:         "english",
			TokenPattern:      `\b[a-zA-Z]{2,}\b`,
			SublinearTF:       true,
			StripAccents:      true,
			TitleWeight:       3,
			DescriptionWeight: 1,
			CategoryWeight:    2,
			DifficultyWeight:  1,
			TagsWeight:        1,
			InstructorWeight:  1,
			DescriptionLength: 200,
			Workers:           0,
			CacheEnabled:      true,
			CacheTTL:          10 * time.Minute,
			CacheMaxEntries:   1000,
			RefreshOnStartup:  true,
			RefreshInterval:   0,
			RefreshOnChange:   true,
			RefreshDebounce:   5 * time.Second,
			RefreshTimeout:    5 * time.Minute,
		},
		API: APIConfig{
			DefaultTopN:     10,
			MaxTopN:         50,
			MaxRequestBytes: 1 << 20,
		},
		Security: SecurityConfig{
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			AdminRateLimitReqs: 5,
			CORSOrigins:        []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CATALOG_DRIVER -> catalog.driver, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Catalog
	"catalog_driver":                "catalog.driver",
	"catalog_path":                  "catalog.path",
	"catalog_threads":               "catalog.threads",
	"catalog_max_memory":            "catalog.max_memory",
	"catalog_seed_file":             "catalog.seed_file",
	"catalog_breaker_enabled":       "catalog.breaker.enabled",
	"catalog_breaker_max_requests":  "catalog.breaker.max_requests",
	"catalog_breaker_interval":      "catalog.breaker.interval",
	"catalog_breaker_timeout":       "catalog.breaker.timeout",
	"catalog_breaker_min_requests":  "catalog.breaker.min_requests",
	"catalog_breaker_failure_ratio": "catalog.breaker.failure_ratio",

	// Recommendation engine
	"recommend_ngram_min":          "recommend.ngram_min",
	"recommend_ngram_max":          "recommend.ngram_max",
	"recommend_min_df":             "recommend.min_df",
	"recommend_max_df":             "recommend.max_df",
	"recommend_max_features":       "recommend.max_features",
	"recommend_stop_words":         "recommend.stop_words",
	"recommend_token_pattern":      "recommend.token_pattern",
	"recommend_sublinear_tf":       "recommend.sublinear_tf",
	"recommend_strip_accents":      "recommend.strip_accents",
	"recommend_title_weight":       "recommend.title_weight",
	"recommend_description_weight": "recommend.description_weight",
	"recommend_category_weight":    "recommend.category_weight",
	"recommend_difficulty_weight":  "recommend.difficulty_weight",
	"recommend_tags_weight":        "recommend.tags_weight",
	"recommend_instructor_weight":  "recommend.instructor_weight",
	"recommend_description_length": "recommend.description_length",
	"recommend_workers":            "recommend.workers",
	"recommend_cache_enabled":      "recommend.cache_enabled",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_cache_max_entries":  "recommend.cache_max_entries",
	"recommend_refresh_on_startup": "recommend.refresh_on_startup",
	"recommend_refresh_interval":   "recommend.refresh_interval",
	"recommend_refresh_on_change":  "recommend.refresh_on_change",
	"recommend_refresh_debounce":   "recommend.refresh_debounce",
	"recommend_refresh_timeout":    "recommend.refresh_timeout",

	// API
	"api_default_top_n":     "api.default_top_n",
	"api_max_top_n":         "api.max_top_n",
	"api_max_request_bytes": "api.max_request_bytes",

	// Security
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"admin_rate_limit_requests": "security.admin_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_DRIVER -> catalog.driver
//   - RECOMMEND_MAX_FEATURES -> recommend.max_features
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables do not
	// pollute the config.
	return ""
}
