// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"fmt"
	"time"

	"github.com/apex-learning/course-recommender/internal/recommend/tfidf"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Vectorizer controls tokenization and term weighting.
	Vectorizer tfidf.Config `json:"vectorizer"`

	// Weights controls how often each course field is repeated in the
	// combined text, which scales its term counts.
	Weights FieldWeights `json:"weights"`

	// Limits contains result-size limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains text-query caching parameters.
	Cache CacheConfig `json:"cache"`

	// Workers bounds the goroutines used to build the similarity matrix.
	// Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// FieldWeights are repetition counts per field. Zero drops the field.
type FieldWeights struct {
	Title       int `json:"title"`
	Description int `json:"description"`
	Category    int `json:"category"`
	Difficulty  int `json:"difficulty"`
	Tags        int `json:"tags"`
	Instructor  int `json:"instructor"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a query does not specify a result count.
	DefaultTopN int `json:"default_top_n"`

	// DescriptionLength is the rune limit for result descriptions.
	DescriptionLength int `json:"description_length"`
}

// CacheConfig controls the text-query result cache.
type CacheConfig struct {
	Enabled    bool          `json:"enabled"`
	TTL        time.Duration `json:"ttl"`
	MaxEntries int           `json:"max_entries"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Vectorizer: tfidf.DefaultConfig(),
		Weights:    DefaultFieldWeights(),
		Limits: LimitsConfig{
			DefaultTopN:       10,
			DescriptionLength: 200,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
		},
	}
}

// DefaultFieldWeights repeats the title three times and the category twice.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		Title:       3,
		Description: 1,
		Category:    2,
		Difficulty:  1,
		Tags:        1,
		Instructor:  1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}

	w := c.Weights
	for name, v := range map[string]int{
		"title": w.Title, "description": w.Description, "category": w.Category,
		"difficulty": w.Difficulty, "tags": w.Tags, "instructor": w.Instructor,
	} {
		if v < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %d", name, v)
		}
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.DescriptionLength < 0 {
		return fmt.Errorf("limits.description_length must be non-negative, got %d", c.Limits.DescriptionLength)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when enabled, got %d", c.Cache.MaxEntries)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	if c.Vectorizer.StopWords != nil {
		out.Vectorizer.StopWords = append([]string(nil), c.Vectorizer.StopWords...)
	}
	return &out
}
