// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built lazily and shared; it caches struct
// metadata, so it is safe and cheap to call from every handler. Error field
// names come from json tags, and a custom notblank tag rejects
// whitespace-only strings:
//
//	type textRequest struct {
//	    Query string `json:"query" validate:"notblank,max=1000"`
//	    TopN  int    `json:"top_n" validate:"omitempty,min=1,max=50"`
//	}
//
// ValidateStruct returns a *RequestValidationError whose ToAPIError yields
// the VALIDATION_ERROR code and a message naming each failing field.
package validation
