// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a course id is absent from the fitted corpus.
	ErrNotFound = errors.New("course not found")

	// ErrUnfitted is returned when no vector space is available. Callers
	// should fall back to Popular.
	ErrUnfitted = errors.New("recommendation engine not fitted")

	// ErrEmptyCorpus is returned when the catalog has no published courses.
	// It matches ErrUnfitted under errors.Is.
	ErrEmptyCorpus = fmt.Errorf("%w: no published courses", ErrUnfitted)

	// ErrInvalidQuery is returned for blank text queries.
	ErrInvalidQuery = errors.New("query text is required")
)

// BuildError reports a failure while loading the catalog or building the
// vector space. The previously published snapshot, if any, stays live.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("recommend: %s: %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
