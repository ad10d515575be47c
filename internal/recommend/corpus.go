// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"fmt"
	"strings"
)

// CombinedText builds the document for one course. Each field is repeated
// according to its weight; blank fields contribute nothing. Underscores in
// the category become spaces so "web_development" matches "web development".
func CombinedText(rec *CourseRecord, w FieldWeights) string {
	var parts []string
	add := func(value string, times int) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		for i := 0; i < times; i++ {
			parts = append(parts, value)
		}
	}

	add(rec.Title, w.Title)
	add(rec.Description, w.Description)
	add(strings.ReplaceAll(rec.Category, "_", " "), w.Category)
	add(rec.Difficulty, w.Difficulty)
	add(rec.Tags, w.Tags)
	add(rec.Instructor, w.Instructor)

	return strings.TrimSpace(strings.ToLower(strings.Join(parts, " ")))
}

// BuildCorpus derives one CorpusEntry per record, preserving order.
// Records must have unique, non-empty ids.
func BuildCorpus(records []CourseRecord, w FieldWeights) ([]CorpusEntry, map[string]int, error) {
	entries := make([]CorpusEntry, len(records))
	index := make(map[string]int, len(records))

	for i := range records {
		id := records[i].ID
		if id == "" {
			return nil, nil, fmt.Errorf("record %d has an empty id", i)
		}
		if prev, dup := index[id]; dup {
			return nil, nil, fmt.Errorf("duplicate course id %q at rows %d and %d", id, prev, i)
		}
		index[id] = i
		entries[i] = CorpusEntry{ID: id, CombinedText: CombinedText(&records[i], w)}
	}
	return entries, index, nil
}
