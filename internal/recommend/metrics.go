// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import "time"

// Query kinds reported to MetricsRecorder.
const (
	QueryByCourse = "course"
	QueryByText   = "text"
	QueryPopular  = "popular"
	QueryTerms    = "terms"
)

// Outcomes reported to MetricsRecorder.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeUnfitted = "unfitted"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// MetricsRecorder receives engine measurements. This keeps the package free
// of a direct dependency on the metrics backend.
type MetricsRecorder interface {
	// RecordFit is called after every fit attempt.
	RecordFit(outcome string, duration time.Duration, corpusSize, vocabularySize int, version uint64)

	// RecordQuery is called after every query.
	RecordQuery(kind, outcome string, duration time.Duration)

	// RecordCache is called on every text cache lookup.
	RecordCache(hit bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordFit(string, time.Duration, int, int, uint64) {}
func (noopMetrics) RecordQuery(string, string, time.Duration)         {}
func (noopMetrics) RecordCache(bool)                                  {}
