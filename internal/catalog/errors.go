// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import "errors"

var (
	// ErrCourseNotFound is returned when no course has the requested id.
	ErrCourseNotFound = errors.New("course not found")

	// ErrInvalidCourse is returned for records that cannot be stored.
	ErrInvalidCourse = errors.New("invalid course")

	// ErrUnsupportedDriver is returned by Open for unknown drivers.
	ErrUnsupportedDriver = errors.New("unsupported catalog driver")
)
