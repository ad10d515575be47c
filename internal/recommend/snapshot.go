// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/apex-learning/course-recommender/internal/recommend/tfidf"
)

// snapshot is one immutable, fully built vector space together with the
// records it was built from. Row i of the matrix, entry i of corpus and
// records[i] always describe the same course. A snapshot is never modified
// after it is published.
type snapshot struct {
	version  uint64
	fittedAt time.Time
	duration time.Duration

	records []CourseRecord
	corpus  []CorpusEntry
	index   map[string]int

	// popular holds record indices ordered by enrollments then rating.
	popular []int

	// Nil when unfitted.
	vectorizer *tfidf.Vectorizer
	vectors    []tfidf.SparseVector
	matrix     *tfidf.SimilarityMatrix

	// unfitted is nil for a fitted snapshot, otherwise ErrEmptyCorpus or
	// ErrUnfitted.
	unfitted error
}

func (s *snapshot) fitted() bool {
	return s.unfitted == nil
}

func (s *snapshot) vocabularySize() int {
	if s.vectorizer == nil {
		return 0
	}
	return s.vectorizer.Len()
}

// buildSnapshot constructs a complete snapshot from records. It returns an
// error only for unexpected failures; an empty catalog or an empty
// vocabulary yield an unfitted snapshot instead.
func buildSnapshot(ctx context.Context, cfg *Config, records []CourseRecord) (*snapshot, error) {
	snap := &snapshot{
		records: records,
		index:   map[string]int{},
	}

	if len(records) == 0 {
		snap.unfitted = ErrEmptyCorpus
		return snap, nil
	}

	corpus, index, err := BuildCorpus(records, cfg.Weights)
	if err != nil {
		return nil, err
	}
	snap.corpus = corpus
	snap.index = index
	snap.popular = popularityOrder(records)

	vectorizer, err := tfidf.NewVectorizer(cfg.Vectorizer)
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(corpus))
	for i := range corpus {
		docs[i] = corpus[i].CombinedText
	}

	vectors, err := vectorizer.FitTransform(docs)
	if errors.Is(err, tfidf.ErrEmptyVocabulary) {
		snap.unfitted = ErrUnfitted
		return snap, nil
	}
	if err != nil {
		return nil, err
	}

	matrix, err := tfidf.NewSimilarityMatrix(ctx, vectors, cfg.Workers)
	if err != nil {
		return nil, err
	}

	snap.vectorizer = vectorizer
	snap.vectors = vectors
	snap.matrix = matrix
	return snap, nil
}

// popularityOrder sorts by total enrollments, then average rating, both
// descending. Ties keep load order.
func popularityOrder(records []CourseRecord) []int {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := &records[order[a]], &records[order[b]]
		if ra.TotalEnrollments != rb.TotalEnrollments {
			return ra.TotalEnrollments > rb.TotalEnrollments
		}
		return ra.AverageRating > rb.AverageRating
	})
	return order
}

// rankByScore returns indices ordered by descending score. Equal scores keep
// load order so rankings are deterministic.
func rankByScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}
