// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex-learning/course-recommender/internal/recommend/reranking"
	"github.com/apex-learning/course-recommender/internal/recommend/tfidf"
)

const diversityPoolFactor = 4

// Recommend returns the courses most similar to courseID, best first.
//
// The query course itself is never returned. Results scoring below
// opts.MinScore are dropped, as are courses in the query course's category
// when opts.ExcludeSameCategory is set. Equal scores keep catalog load order.
// A positive opts.Diversity reorders the list with maximal marginal relevance.
// An unknown id yields ErrNotFound; an unfitted engine yields ErrUnfitted
// (or ErrEmptyCorpus).
func (e *Engine) Recommend(ctx context.Context, courseID string, opts RecommendOptions) (recs []Recommendation, err error) {
	start := time.Now()
	e.queryCount.Add(1)
	defer func() { e.observe(QueryByCourse, start, err) }()

	snap, err := e.live(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.fitted() {
		return nil, snap.unfitted
	}

	idx, ok := snap.index[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, courseID)
	}

	row := snap.matrix.Row(idx)
	category := snap.records[idx].Category

	// Every course but the query itself is a candidate, so larger limits
	// return the same list.
	topN := min(e.topN(opts.TopN), len(row)-1)

	// Diversification chooses from a wider pool than it returns.
	pool := topN
	if opts.Diversity > 0 {
		pool = min(topN*diversityPoolFactor, len(row))
	}

	candidates := make([]reranking.Candidate, 0, pool)
	for _, j := range rankByScore(row) {
		if j == idx {
			continue
		}
		score := row[j]
		if score < opts.MinScore {
			continue
		}
		if opts.ExcludeSameCategory && snap.records[j].Category == category {
			continue
		}
		candidates = append(candidates, reranking.Candidate{Index: j, Score: score})
		if len(candidates) >= pool {
			break
		}
	}
	if opts.Diversity > 0 {
		candidates = reranking.NewMMR(1-opts.Diversity).Rerank(candidates, topN, snap.matrix.At)
	}

	recs = make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, scored(&snap.records[c.Index], e.config.Limits.DescriptionLength, c.Score))
	}

	e.logger.Debug().
		Str("course_id", courseID).
		Int("results", len(recs)).
		Uint64("version", snap.version).
		Msg("generated course recommendations")
	return recs, nil
}

// RecommendForText returns the courses most similar to free text, best
// first. The query is weighted with the fitted vocabulary and IDF; unknown
// terms are ignored, and a query with no known terms returns an empty list.
func (e *Engine) RecommendForText(ctx context.Context, query string, opts TextOptions) (recs []Recommendation, err error) {
	start := time.Now()
	e.queryCount.Add(1)
	defer func() { e.observe(QueryByText, start, err) }()

	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	snap, err := e.live(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.fitted() {
		return nil, snap.unfitted
	}

	topN := e.topN(opts.TopN)
	key := textCacheKey(snap.version, topN, opts.MinScore, query)
	if cached, ok := e.cachedText(key); ok {
		return cached, nil
	}

	qv, err := snap.vectorizer.Transform(query)
	if err != nil {
		return nil, err
	}

	recs = []Recommendation{}
	if !qv.IsZero() {
		scores := make([]float64, len(snap.vectors))
		for i := range snap.vectors {
			scores[i] = tfidf.Cosine(qv, snap.vectors[i])
		}
		for _, j := range rankByScore(scores) {
			if scores[j] < opts.MinScore {
				continue
			}
			recs = append(recs, scored(&snap.records[j], e.config.Limits.DescriptionLength, scores[j]))
			if len(recs) >= topN {
				break
			}
		}
	}

	e.storeText(key, recs)
	e.logger.Debug().
		Int("query_terms", qv.Len()).
		Int("results", len(recs)).
		Uint64("version", snap.version).
		Msg("generated text recommendations")
	return recs, nil
}

// Popular returns up to topN courses ordered by enrollments, then rating.
// It does not need a vector space and works on an unfitted engine.
func (e *Engine) Popular(ctx context.Context, topN int) (courses []CourseSummary, err error) {
	start := time.Now()
	e.queryCount.Add(1)
	defer func() { e.observe(QueryPopular, start, err) }()

	snap, err := e.live(ctx)
	if err != nil {
		return nil, err
	}

	topN = e.topN(topN)
	courses = make([]CourseSummary, 0, min(topN, len(snap.popular)))
	for _, i := range snap.popular {
		courses = append(courses, summarize(&snap.records[i], e.config.Limits.DescriptionLength))
		if len(courses) >= topN {
			break
		}
	}
	return courses, nil
}

// TopTerms returns the n highest-weighted vocabulary terms of a course.
func (e *Engine) TopTerms(ctx context.Context, courseID string, n int) (terms []TermWeight, err error) {
	start := time.Now()
	e.queryCount.Add(1)
	defer func() { e.observe(QueryTerms, start, err) }()

	snap, err := e.live(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.fitted() {
		return nil, snap.unfitted
	}
	idx, ok := snap.index[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, courseID)
	}

	vec := snap.vectors[idx]
	terms = make([]TermWeight, 0, vec.Len())
	for k, col := range vec.Indices {
		if vec.Values[k] <= 0 {
			continue
		}
		terms = append(terms, TermWeight{Term: snap.vectorizer.Term(col), Weight: vec.Values[k]})
	}
	sort.SliceStable(terms, func(a, b int) bool {
		if terms[a].Weight != terms[b].Weight {
			return terms[a].Weight > terms[b].Weight
		}
		return terms[a].Term < terms[b].Term
	})

	if n = e.topN(n); len(terms) > n {
		terms = terms[:n]
	}
	for i := range terms {
		terms[i].Weight = round(terms[i].Weight, 4)
	}
	return terms, nil
}

// Vocabulary returns the fitted terms in column order.
func (e *Engine) Vocabulary(ctx context.Context) ([]string, error) {
	snap, err := e.live(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.fitted() {
		return nil, snap.unfitted
	}
	return snap.vectorizer.Vocabulary(), nil
}

func textCacheKey(version uint64, topN int, minScore float64, query string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(version, 10))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(topN))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(minScore, 'g', -1, 64))
	b.WriteByte('|')
	b.WriteString(query)
	return b.String()
}

func (e *Engine) cachedText(key string) ([]Recommendation, bool) {
	if e.textCache == nil {
		return nil, false
	}
	recs, ok := e.textCache.Get(key)
	e.metrics.RecordCache(ok)
	if !ok {
		e.cacheMisses.Add(1)
		return nil, false
	}
	e.cacheHits.Add(1)
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out, true
}

func (e *Engine) storeText(key string, recs []Recommendation) {
	if e.textCache == nil {
		return
	}
	stored := make([]Recommendation, len(recs))
	copy(stored, recs)
	e.textCache.Add(key, stored)
}
