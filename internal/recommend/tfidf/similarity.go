// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package tfidf

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SimilarityMatrix is a dense, symmetric matrix of pairwise cosine
// similarities between L2-normalized document vectors.
// It is never modified after construction.
type SimilarityMatrix struct {
	n    int
	data []float64
}

// NewSimilarityMatrix computes every pairwise dot product of vectors.
// The vectors must already be L2-normalized so that the dot product is the
// cosine. Rows are computed concurrently on up to workers goroutines
// (GOMAXPROCS when workers <= 0). The diagonal is 1 and all values are
// clamped to [0, 1].
func NewSimilarityMatrix(ctx context.Context, vectors []SparseVector, workers int) (*SimilarityMatrix, error) {
	n := len(vectors)
	m := &SimilarityMatrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Row i owns cells (i, j) and (j, i) for j > i, so no two
			// goroutines write the same cell.
			m.data[i*n+i] = 1
			for j := i + 1; j < n; j++ {
				s := clamp01(vectors[i].Dot(vectors[j]))
				m.data[i*n+j] = s
				m.data[j*n+i] = s
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Size returns the number of rows (and columns).
func (m *SimilarityMatrix) Size() int {
	return m.n
}

// At returns the similarity between documents i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns row i. The returned slice aliases the matrix and must not be
// modified.
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// clamp01 absorbs floating-point drift just outside [0, 1].
func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// Cosine returns the cosine similarity of two vectors of any length,
// clamped to [0, 1]. Zero vectors have similarity 0.
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp01(a.Dot(b) / (na * nb))
}
