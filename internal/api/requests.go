// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import "github.com/apex-learning/course-recommender/internal/recommend"

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	CourseID            string  `json:"course_id" validate:"notblank,max=128"`
	TopN                int     `json:"top_n" validate:"omitempty,min=1"`
	ExcludeSameCategory bool    `json:"exclude_same_category"`
	MinScore            float64 `json:"min_score" validate:"gte=0,lte=1"`
	Diversity           float64 `json:"diversity" validate:"gte=0,lte=1"`
}

// TextRecommendRequest is the body of POST /api/v1/recommend/text.
type TextRecommendRequest struct {
	Query    string  `json:"query"`
	TopN     int     `json:"top_n" validate:"omitempty,min=1"`
	MinScore float64 `json:"min_score" validate:"gte=0,lte=1"`
}

// RecommendResponse is returned by the by-course endpoint.
type RecommendResponse struct {
	Status          string                     `json:"status"`
	CourseID        string                     `json:"course_id"`
	Count           int                        `json:"count"`
	Fallback        string                     `json:"fallback,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Courses         []recommend.CourseSummary  `json:"courses,omitempty"`
}

// TextRecommendResponse is returned by the free-text endpoint.
type TextRecommendResponse struct {
	Status          string                     `json:"status"`
	Query           string                     `json:"query"`
	Count           int                        `json:"count"`
	Fallback        string                     `json:"fallback,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Courses         []recommend.CourseSummary  `json:"courses,omitempty"`
}

// PopularResponse lists courses by popularity.
type PopularResponse struct {
	Status  string                    `json:"status"`
	Count   int                       `json:"count"`
	Courses []recommend.CourseSummary `json:"courses"`
}

// TermsResponse lists the strongest terms of one course.
type TermsResponse struct {
	Status   string                 `json:"status"`
	CourseID string                 `json:"course_id"`
	Terms    []recommend.TermWeight `json:"terms"`
}

// VocabularyResponse lists the fitted vocabulary in column order.
type VocabularyResponse struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Terms  []string `json:"terms"`
}

// StatusResponse wraps the engine status.
type StatusResponse struct {
	Status string           `json:"status"`
	Engine recommend.Status `json:"engine"`
}
