// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package config

import (
	"fmt"
	"regexp"
	"time"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateRecommend,
		c.validateAPI,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validCatalogDrivers defines the supported catalog databases
var validCatalogDrivers = map[string]bool{
	"duckdb": true,
	"sqlite": true,
}

// validateCatalog validates catalog database configuration
func (c *Config) validateCatalog() error {
	if !validCatalogDrivers[c.Catalog.Driver] {
		return fmt.Errorf("CATALOG_DRIVER must be one of: duckdb, sqlite")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required (use :memory: for an in-memory catalog)")
	}
	if c.Catalog.Threads < 0 {
		return fmt.Errorf("CATALOG_THREADS must be non-negative")
	}

	b := c.Catalog.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests < 1 {
		return fmt.Errorf("CATALOG_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("CATALOG_BREAKER_TIMEOUT must be positive")
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("CATALOG_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

// validStopWordLists defines the built-in stop word lists
var validStopWordLists = map[string]bool{
	"english": true,
	"none":    true,
	"":        true,
}

// validateRecommend validates recommendation engine configuration
func (c *Config) validateRecommend() error {
	r := c.Recommend

	if r.NgramMin < 1 || r.NgramMax < r.NgramMin {
		return fmt.Errorf("RECOMMEND_NGRAM_MIN/MAX must satisfy 1 <= min <= max, got (%d, %d)", r.NgramMin, r.NgramMax)
	}
	if r.MinDF < 1 {
		return fmt.Errorf("RECOMMEND_MIN_DF must be at least 1")
	}
	if r.MaxDF <= 0 || r.MaxDF > 1 {
		return fmt.Errorf("RECOMMEND_MAX_DF must be in (0, 1]")
	}
	if r.MaxFeatures < 0 {
		return fmt.Errorf("RECOMMEND_MAX_FEATURES must be non-negative")
	}
	if !validStopWordLists[r.StopWords] {
		return fmt.Errorf("RECOMMEND_STOP_WORDS must be one of: english, none")
	}
	if r.TokenPattern == "" {
		return fmt.Errorf("RECOMMEND_TOKEN_PATTERN must not be empty")
	}
	if _, err := regexp.Compile(r.TokenPattern); err != nil {
		return fmt.Errorf("RECOMMEND_TOKEN_PATTERN is invalid: %w", err)
	}

	weights := map[string]int{
		"RECOMMEND_TITLE_WEIGHT":       r.TitleWeight,
		"RECOMMEND_DESCRIPTION_WEIGHT": r.DescriptionWeight,
		"RECOMMEND_CATEGORY_WEIGHT":    r.CategoryWeight,
		"RECOMMEND_DIFFICULTY_WEIGHT":  r.DifficultyWeight,
		"RECOMMEND_TAGS_WEIGHT":        r.TagsWeight,
		"RECOMMEND_INSTRUCTOR_WEIGHT":  r.InstructorWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}

	if r.DescriptionLength < 0 {
		return fmt.Errorf("RECOMMEND_DESCRIPTION_LENGTH must be non-negative")
	}
	if r.Workers < 0 {
		return fmt.Errorf("RECOMMEND_WORKERS must be non-negative")
	}
	if r.CacheEnabled && r.CacheMaxEntries < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be positive when the cache is enabled")
	}
	if r.RefreshInterval < 0 {
		return fmt.Errorf("RECOMMEND_REFRESH_INTERVAL must be non-negative")
	}
	if r.RefreshOnChange && r.RefreshDebounce <= 0 {
		return fmt.Errorf("RECOMMEND_REFRESH_DEBOUNCE must be positive when refresh on change is enabled")
	}
	return nil
}

// Top-n bounds for API requests.
const (
	minTopN = 1
	maxTopN = 1000
)

// validateAPI validates API request limits
func (c *Config) validateAPI() error {
	if c.API.MaxTopN < minTopN || c.API.MaxTopN > maxTopN {
		return fmt.Errorf("API_MAX_TOP_N must be between %d and %d", minTopN, maxTopN)
	}
	if c.API.DefaultTopN < minTopN || c.API.DefaultTopN > c.API.MaxTopN {
		return fmt.Errorf("API_DEFAULT_TOP_N must be between %d and API_MAX_TOP_N (%d)", minTopN, c.API.MaxTopN)
	}
	if c.API.MaxRequestBytes < 1 {
		return fmt.Errorf("API_MAX_REQUEST_BYTES must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.AdminRateLimitReqs < minRateLimitRequests || c.Security.AdminRateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("ADMIN_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ShouldWarnAboutCORS returns true if a wildcard origin is configured in
// production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
