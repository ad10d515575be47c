// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package reranking

import "testing"

// groupSimilarity treats candidates in the same group as identical and
// everything else as unrelated.
func groupSimilarity(groups map[int]string) SimilarityFunc {
	return func(a, b int) float64 {
		if groups[a] == groups[b] {
			return 1
		}
		return 0
	}
}

func TestNewMMR(t *testing.T) {
	tests := []struct {
		name       string
		lambda     float64
		wantLambda float64
	}{
		{"normal value", 0.7, 0.7},
		{"zero value", 0.0, 0.0},
		{"one value", 1.0, 1.0},
		{"negative clamped to zero", -0.5, 0.0},
		{"above one clamped to one", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmr := NewMMR(tt.lambda)
			if mmr == nil {
				t.Fatal("NewMMR() returned nil")
			}
			if mmr.Lambda() != tt.wantLambda {
				t.Errorf("lambda = %f, want %f", mmr.Lambda(), tt.wantLambda)
			}
		})
	}
}

func TestMMR_Name(t *testing.T) {
	if got := NewMMR(0.7).Name(); got != "mmr" {
		t.Errorf("Name() = %q, want %q", got, "mmr")
	}
}

func TestMMR_Rerank(t *testing.T) {
	items := []Candidate{
		{Index: 1, Score: 1.0},
		{Index: 2, Score: 0.9},
		{Index: 3, Score: 0.85},
		{Index: 4, Score: 0.8},
		{Index: 5, Score: 0.75},
		{Index: 6, Score: 0.7},
	}
	sim := groupSimilarity(map[int]string{1: "py", 2: "py", 3: "web", 4: "py", 5: "chem", 6: "web"})

	tests := []struct {
		name    string
		lambda  float64
		k       int
		wantLen int
	}{
		{"pure relevance (lambda=1)", 1.0, 3, 3},
		{"balanced (lambda=0.7)", 0.7, 3, 3},
		{"k larger than items", 0.7, 10, 6},
		{"k zero returns input", 0.7, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewMMR(tt.lambda).Rerank(items, tt.k, sim)
			if len(result) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(result), tt.wantLen)
			}
		})
	}
}

func TestMMR_Rerank_DiversityEffect(t *testing.T) {
	items := []Candidate{
		{Index: 10, Score: 1.0},
		{Index: 11, Score: 0.95},
		{Index: 12, Score: 0.9},
		{Index: 13, Score: 0.5},
		{Index: 14, Score: 0.4},
	}
	groups := map[int]string{10: "py", 11: "py", 12: "py", 13: "web", 14: "chem"}
	sim := groupSimilarity(groups)

	t.Run("pure relevance keeps score order", func(t *testing.T) {
		result := NewMMR(1.0).Rerank(items, 3, sim)
		for i, c := range result {
			if c.Index != items[i].Index {
				t.Errorf("result[%d] = %d, want %d", i, c.Index, items[i].Index)
			}
		}
	})

	t.Run("low lambda promotes diversity", func(t *testing.T) {
		result := NewMMR(0.3).Rerank(items, 3, sim)
		seen := make(map[string]bool)
		for _, c := range result {
			seen[groups[c.Index]] = true
		}
		if len(seen) != 3 {
			t.Errorf("expected three groups, saw %v", seen)
		}
		if result[0].Index != 10 {
			t.Errorf("first pick = %d, want the most relevant candidate", result[0].Index)
		}
	})

	t.Run("scores preserved", func(t *testing.T) {
		for _, c := range NewMMR(0.3).Rerank(items, 5, sim) {
			for _, in := range items {
				if in.Index == c.Index && in.Score != c.Score {
					t.Errorf("score of %d changed: %v -> %v", c.Index, in.Score, c.Score)
				}
			}
		}
	})
}

func TestMMR_Rerank_EmptyInput(t *testing.T) {
	mmr := NewMMR(0.7)

	if result := mmr.Rerank(nil, 5, nil); len(result) != 0 {
		t.Errorf("expected empty result for nil input, got %d items", len(result))
	}
	if result := mmr.Rerank([]Candidate{}, 5, nil); len(result) != 0 {
		t.Errorf("expected empty result for empty slice, got %d items", len(result))
	}
}

func TestMMR_Rerank_SingleItem(t *testing.T) {
	result := NewMMR(0.7).Rerank([]Candidate{{Index: 1, Score: 1.0}}, 5, func(int, int) float64 { return 0 })
	if len(result) != 1 || result[0].Index != 1 {
		t.Errorf("Rerank() = %v, want [{1 1}]", result)
	}
}

func TestMMR_Rerank_NilSimilarity(t *testing.T) {
	items := []Candidate{{Index: 1, Score: 0.9}, {Index: 2, Score: 0.8}}
	result := NewMMR(0.2).Rerank(items, 1, nil)
	if len(result) != 1 || result[0].Index != 1 {
		t.Errorf("Rerank() without similarity = %v", result)
	}
}
