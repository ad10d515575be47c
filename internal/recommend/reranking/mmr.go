// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package reranking

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// Candidate is a ranked course referenced by its corpus index.
type Candidate struct {
	Index int
	Score float64
}

// SimilarityFunc returns the similarity of two corpus indices in [0, 1].
type SimilarityFunc func(a, b int) float64

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting candidates
// that are both relevant and dissimilar to those already selected:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// lambda balances relevance (1.0) against diversity (0.0).
	lambda float64
}

// NewMMR creates a new MMR reranker. lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Lambda returns the relevance weight.
func (m *MMR) Lambda() float64 {
	return m.lambda
}

// Rerank selects up to k candidates from items, which must be ordered by
// descending score. Candidates keep their original scores. Ties in the MMR
// objective go to the earlier candidate.
func (m *MMR) Rerank(items []Candidate, k int, sim SimilarityFunc) []Candidate {
	if len(items) == 0 || k <= 0 {
		return items
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	if m.lambda >= 1.0 || sim == nil {
		return items[:k]
	}

	selected := make([]Candidate, 0, k)
	taken := make([]bool, len(items))
	// maxSim[i] tracks the highest similarity of items[i] to any selection.
	maxSim := make([]float64, len(items))

	for len(selected) < k {
		bestIdx := -1
		bestMMR := 0.0

		for i := range items {
			if taken[i] {
				continue
			}
			score := m.lambda*items[i].Score - (1-m.lambda)*maxSim[i]
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		taken[bestIdx] = true
		chosen := items[bestIdx]
		selected = append(selected, chosen)

		for i := range items {
			if taken[i] {
				continue
			}
			if s := sim(items[i].Index, chosen.Index); s > maxSim[i] {
				maxSim[i] = s
			}
		}
	}

	return selected
}
