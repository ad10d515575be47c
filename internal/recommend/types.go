// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import "time"

// CourseRecord is a published course as supplied by the catalog.
// Only the text fields influence similarity; the rest is carried through
// to results untouched.
type CourseRecord struct {
	// ID is the opaque unique course identifier.
	ID string `json:"id" yaml:"id"`

	// Text fields used to build the combined document.
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	Tags        string `json:"tags" yaml:"tags"`
	Instructor  string `json:"instructor" yaml:"instructor"`

	// Pass-through display fields.
	Price            float64 `json:"price" yaml:"price"`
	DurationHours    int     `json:"duration_hours" yaml:"duration_hours"`
	AverageRating    float64 `json:"average_rating" yaml:"average_rating"`
	TotalEnrollments int     `json:"total_enrollments" yaml:"total_enrollments"`
	Platform         string  `json:"platform" yaml:"platform"`
	ExternalURL      string  `json:"external_url" yaml:"external_url"`
	ThumbnailURL     string  `json:"thumbnail_url" yaml:"thumbnail_url"`
	CoverImage       string  `json:"cover_image" yaml:"cover_image"`
	VideoURL         string  `json:"video_url" yaml:"video_url"`
}

// CorpusEntry is the engine's derived document for one course.
type CorpusEntry struct {
	ID           string
	CombinedText string
}

// CourseSummary is the display projection of a course returned to callers.
type CourseSummary struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	CategoryDisplay   string  `json:"category_display"`
	Difficulty        string  `json:"difficulty"`
	DifficultyDisplay string  `json:"difficulty_display"`
	Instructor        string  `json:"instructor"`
	Price             float64 `json:"price"`
	DurationHours     int     `json:"duration_hours"`
	AverageRating     float64 `json:"average_rating"`
	TotalEnrollments  int     `json:"total_enrollments"`
	Platform          string  `json:"platform"`
	PlatformDisplay   string  `json:"platform_display"`
	ExternalURL       string  `json:"external_url"`
	ThumbnailURL      string  `json:"thumbnail_url"`
	CoverImageURL     string  `json:"cover_image_url"`
	Tags              string  `json:"tags"`
}

// Recommendation is a scored course.
type Recommendation struct {
	CourseSummary

	// SimilarityScore is the cosine similarity in [0, 1], rounded to 4 places.
	SimilarityScore float64 `json:"similarity_score"`

	// MatchPercentage is SimilarityScore * 100, rounded to 1 place.
	MatchPercentage float64 `json:"match_percentage"`
}

// TermWeight is a vocabulary term with its TF-IDF weight in one document.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// RecommendOptions tunes a by-course query.
type RecommendOptions struct {
	// TopN is the maximum result count. Values < 1 use the configured default.
	TopN int

	// ExcludeSameCategory drops courses sharing the query course's category.
	ExcludeSameCategory bool

	// MinScore drops results scoring below it.
	MinScore float64

	// Diversity in [0, 1] trades similarity for variety among the results
	// using maximal marginal relevance. Zero ranks by similarity alone.
	Diversity float64
}

// TextOptions tunes a free-text query.
type TextOptions struct {
	TopN     int
	MinScore float64
}

// Status describes the currently published vector space.
type Status struct {
	// Fitted is true when similarity queries can be answered.
	Fitted bool `json:"fitted"`

	// Version increments on every successful publish.
	Version uint64 `json:"version"`

	// CorpusSize is the number of loaded courses.
	CorpusSize int `json:"corpus_size"`

	// VocabularySize is the number of fitted terms.
	VocabularySize int `json:"vocabulary_size"`

	// FittedAt is when the current snapshot was published.
	FittedAt time.Time `json:"fitted_at,omitempty"`

	// FitDuration is how long the current snapshot took to build.
	FitDuration time.Duration `json:"fit_duration_ns"`

	// LastError is the most recent build failure, cleared on success.
	LastError string `json:"last_error,omitempty"`

	// LastErrorAt is when LastError occurred.
	LastErrorAt time.Time `json:"last_error_at,omitempty"`

	// Query counters since start.
	Queries     int64 `json:"queries"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
}
