// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/apex-learning/course-recommender/internal/recommend"
)

// seedFile is the on-disk layout of a seed file.
type seedFile struct {
	Courses []seedCourse `json:"courses" yaml:"courses"`
}

// seedCourse distinguishes an omitted is_published from an explicit false.
type seedCourse struct {
	recommend.CourseRecord `yaml:",inline"`

	Published *bool `json:"is_published" yaml:"is_published"`
}

// seedNamespace scopes the name-based ids of seed courses without an id.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/apex-learning/course-recommender/courses"))

// LoadSeedFile reads courses from a .yaml, .yml or .json file. Courses
// without an id get a UUID derived from their title, so loading the same
// file again yields the same ids. is_published defaults to true.
func LoadSeedFile(path string) ([]Course, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	courses := make([]Course, 0, len(file.Courses))
	for i, sc := range file.Courses {
		if strings.TrimSpace(sc.Title) == "" {
			return nil, fmt.Errorf("%w: seed course %d has no title", ErrInvalidCourse, i)
		}
		c := Course{CourseRecord: sc.CourseRecord, Published: true}
		if sc.Published != nil {
			c.Published = *sc.Published
		}
		if strings.TrimSpace(c.ID) == "" {
			c.ID = seedID(c.Title)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Seed upserts courses into the store and returns how many were written.
func Seed(ctx context.Context, store *Store, courses []Course) (int, error) {
	n, err := store.Upsert(ctx, courses...)
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return n, nil
}

// seedID returns the version 5 UUID of a course title.
func seedID(title string) string {
	return uuid.NewSHA1(seedNamespace, []byte(strings.TrimSpace(title))).String()
}
