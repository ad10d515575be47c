// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultDifficulty = "beginner"
	defaultInstructor = "Unknown"
	defaultPlatform   = "apex"
)

// summarize projects a record into its display form.
func summarize(rec *CourseRecord, descLimit int) CourseSummary {
	difficulty := orDefault(rec.Difficulty, defaultDifficulty)
	platform := orDefault(rec.Platform, defaultPlatform)

	return CourseSummary{
		ID:                rec.ID,
		Title:             rec.Title,
		Description:       truncate(rec.Description, descLimit),
		Category:          rec.Category,
		CategoryDisplay:   displayName(rec.Category),
		Difficulty:        difficulty,
		DifficultyDisplay: displayName(difficulty),
		Instructor:        orDefault(rec.Instructor, defaultInstructor),
		Price:             rec.Price,
		DurationHours:     rec.DurationHours,
		AverageRating:     rec.AverageRating,
		TotalEnrollments:  rec.TotalEnrollments,
		Platform:          platform,
		PlatformDisplay:   displayName(platform),
		ExternalURL:       rec.ExternalURL,
		ThumbnailURL:      rec.ThumbnailURL,
		CoverImageURL:     rec.CoverImage,
		Tags:              rec.Tags,
	}
}

func scored(rec *CourseRecord, descLimit int, score float64) Recommendation {
	score = math.Max(0, math.Min(1, score))
	return Recommendation{
		CourseSummary:   summarize(rec, descLimit),
		SimilarityScore: round(score, 4),
		MatchPercentage: round(score*100, 1),
	}
}

// displayName turns an enum value such as "web_development" into
// "Web Development".
func displayName(s string) string {
	if s == "" {
		return ""
	}
	// Casers hold state and are not safe for concurrent use.
	return cases.Title(language.Und).String(strings.ReplaceAll(s, "_", " "))
}

// truncate cuts s to limit runes and appends an ellipsis when it did.
// A limit of zero disables truncation.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
