// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/config"
)

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	return path
}

func TestLoadSeedFile_YAML(t *testing.T) {
	path := writeSeed(t, "courses.yaml", `
courses:
  - id: py-ds
    title: Python for Data Science
    description: Pandas, NumPy and plotting.
    category: data_science
    difficulty: beginner
    tags: python, pandas
    instructor: Ada
    price: 49.5
    duration_hours: 20
    total_enrollments: 120
    average_rating: 4.6
  - title: Untitled Draft Id
    category: design
    is_published: false
`)

	courses, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}

	first := courses[0]
	if first.ID != "py-ds" || first.Title != "Python for Data Science" || first.Category != "data_science" {
		t.Errorf("first = %+v", first.CourseRecord)
	}
	if first.Price != 49.5 || first.DurationHours != 20 || first.TotalEnrollments != 120 || first.AverageRating != 4.6 {
		t.Errorf("numeric fields = %+v", first.CourseRecord)
	}
	if !first.Published {
		t.Error("is_published should default to true")
	}

	second := courses[1]
	if second.Published {
		t.Error("explicit is_published: false was ignored")
	}
	id, err := uuid.Parse(second.ID)
	if err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", second.ID, err)
	}
	if id.Version() != 5 {
		t.Errorf("generated id version = %d, want 5", id.Version())
	}

	again, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("second LoadSeedFile() error = %v", err)
	}
	if again[1].ID != second.ID {
		t.Errorf("id changed between loads: %q then %q", second.ID, again[1].ID)
	}
}

func TestLoadSeedFile_JSON(t *testing.T) {
	path := writeSeed(t, "courses.json", `{
  "courses": [
    {"id": "web", "title": "Web Development", "category": "web_development", "total_enrollments": 7},
    {"id": "draft", "title": "Hidden", "is_published": false}
  ]
}`)

	courses, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}
	if courses[0].ID != "web" || courses[0].TotalEnrollments != 7 || !courses[0].Published {
		t.Errorf("courses[0] = %+v", courses[0])
	}
	if courses[1].Published {
		t.Error("courses[1] should be unpublished")
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"missing title", "c.yaml", "courses:\n  - id: x\n", ErrInvalidCourse},
		{"unsupported extension", "c.toml", "", nil},
		{"malformed json", "c.json", "{courses: ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("LoadSeedFile() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadSeedFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSeedFile(missing) expected error")
	}
}

func TestSeed(t *testing.T) {
	store := newTestStore(t, DriverDuckDB)
	ctx := context.Background()

	courses := []Course{
		course("s1", "Statistics", "data_science", true),
		course("s2", "Sketching", "design", false),
	}
	n, err := Seed(ctx, store, courses)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Seed() = %d, want 2", n)
	}

	// Seeding again is idempotent.
	if _, err := Seed(ctx, store, courses); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	total, published, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 2 || published != 1 {
		t.Errorf("Count() = %d/%d, want 2/1", total, published)
	}
}

// Restarting with the same seed file must not duplicate courses that have
// no explicit id.
func TestSeed_FileBackedRestartsKeepCount(t *testing.T) {
	seedPath := writeSeed(t, "courses.yaml", `
courses:
  - title: Intro to Sketching
    category: design
  - id: stats
    title: Statistics
    category: data_science
`)
	cfg := &config.CatalogConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "catalog.db")}
	ctx := context.Background()

	for restart := 1; restart <= 3; restart++ {
		store, err := Open(ctx, cfg, WithLogger(zerolog.Nop()))
		if err != nil {
			t.Fatalf("restart %d: Open() error = %v", restart, err)
		}
		courses, err := LoadSeedFile(seedPath)
		if err != nil {
			t.Fatalf("restart %d: LoadSeedFile() error = %v", restart, err)
		}
		if _, err := Seed(ctx, store, courses); err != nil {
			t.Fatalf("restart %d: Seed() error = %v", restart, err)
		}
		total, _, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("restart %d: Count() error = %v", restart, err)
		}
		if total != 2 {
			t.Errorf("restart %d: total = %d, want 2", restart, total)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("restart %d: Close() error = %v", restart, err)
		}
	}
}

func TestSeed_LeavesReportingToCaller(t *testing.T) {
	var buf bytes.Buffer
	store := newTestStore(t, DriverSQLite, WithLogger(zerolog.New(&buf)))

	if _, err := Seed(context.Background(), store, []Course{course("s1", "Statistics", "data_science", true)}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("Catalog seeded")) {
		t.Errorf("Seed logged its own summary: %s", buf.String())
	}
}
