// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package tfidf

import (
	"fmt"
	"regexp"
)

// DefaultTokenPattern matches words of two or more ASCII letters.
const DefaultTokenPattern = `\b[a-zA-Z]{2,}\b`

// Config controls text analysis and term weighting.
type Config struct {
	// Lowercase folds text to lower case before tokenizing.
	Lowercase bool `json:"lowercase"`

	// StripAccents decomposes text (NFKD) and drops combining marks.
	StripAccents bool `json:"strip_accents"`

	// TokenPattern is the regular expression a token must match.
	TokenPattern string `json:"token_pattern"`

	// StopWords are removed before n-grams are formed.
	StopWords []string `json:"stop_words,omitempty"`

	// NgramMin and NgramMax bound the n-gram sizes produced.
	NgramMin int `json:"ngram_min"`
	NgramMax int `json:"ngram_max"`

	// MinDF is the minimum number of documents a term must appear in.
	MinDF int `json:"min_df"`

	// MaxDF is the maximum fraction of documents a term may appear in.
	MaxDF float64 `json:"max_df"`

	// MaxFeatures caps the vocabulary by total corpus count. 0 disables the cap.
	MaxFeatures int `json:"max_features"`

	// SublinearTF replaces tf with 1 + ln(tf).
	SublinearTF bool `json:"sublinear_tf"`

	// SmoothIDF adds one to document frequencies as if an extra document
	// contained every term once.
	SmoothIDF bool `json:"smooth_idf"`

	// Normalize L2-normalizes every output vector.
	Normalize bool `json:"normalize"`
}

// DefaultConfig returns the weighting used for course text: unigrams and
// bigrams, English stop words, a 95% document-frequency ceiling and a
// 5000-term vocabulary cap.
func DefaultConfig() Config {
	return Config{
		Lowercase:    true,
		StripAccents: true,
		TokenPattern: DefaultTokenPattern,
		StopWords:    EnglishStopWords(),
		NgramMin:     1,
		NgramMax:     2,
		MinDF:        1,
		MaxDF:        0.95,
		MaxFeatures:  5000,
		SublinearTF:  true,
		SmoothIDF:    true,
		Normalize:    true,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.TokenPattern == "" {
		return fmt.Errorf("token_pattern must not be empty")
	}
	if _, err := regexp.Compile(c.TokenPattern); err != nil {
		return fmt.Errorf("token_pattern is invalid: %w", err)
	}
	if c.NgramMin < 1 || c.NgramMax < c.NgramMin {
		return fmt.Errorf("ngram range must satisfy 1 <= min <= max, got (%d, %d)", c.NgramMin, c.NgramMax)
	}
	if c.MinDF < 1 {
		return fmt.Errorf("min_df must be at least 1, got %d", c.MinDF)
	}
	if c.MaxDF <= 0 || c.MaxDF > 1 {
		return fmt.Errorf("max_df must be in (0, 1], got %v", c.MaxDF)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("max_features must be non-negative, got %d", c.MaxFeatures)
	}
	return nil
}
