// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Limits.DefaultTopN != 10 {
		t.Errorf("DefaultTopN = %d, want 10", cfg.Limits.DefaultTopN)
	}
	if cfg.Limits.DescriptionLength != 200 {
		t.Errorf("DescriptionLength = %d, want 200", cfg.Limits.DescriptionLength)
	}
	if cfg.Weights.Title != 3 || cfg.Weights.Category != 2 {
		t.Errorf("Weights = %+v", cfg.Weights)
	}
	if cfg.Vectorizer.MaxFeatures != 5000 || cfg.Vectorizer.MaxDF != 0.95 {
		t.Errorf("Vectorizer = %+v", cfg.Vectorizer)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.Tags = -1 }},
		{"zero default top n", func(c *Config) { c.Limits.DefaultTopN = 0 }},
		{"negative description length", func(c *Config) { c.Limits.DescriptionLength = -1 }},
		{"cache without entries", func(c *Config) { c.Cache.MaxEntries = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"bad ngram range", func(c *Config) { c.Vectorizer.NgramMin = 3; c.Vectorizer.NgramMax = 2 }},
		{"bad max df", func(c *Config) { c.Vectorizer.MaxDF = 1.5 }},
		{"bad token pattern", func(c *Config) { c.Vectorizer.TokenPattern = "([" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.MaxEntries = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache with zero entries should be valid: %v", err)
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Vectorizer.StopWords[0] = "changed"
	clone.Limits.DefaultTopN = 99

	if cfg.Vectorizer.StopWords[0] == "changed" {
		t.Error("Clone() shares the stop word slice")
	}
	if cfg.Limits.DefaultTopN == 99 {
		t.Error("Clone() shares limits")
	}
}
