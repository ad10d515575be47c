// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package tfidf

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned by FitTransform when no term survives
// tokenization, stop-word removal and document-frequency pruning.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// ErrNotFitted is returned when a fitted vocabulary is required.
var ErrNotFitted = errors.New("vectorizer not fitted")

// Vectorizer learns a vocabulary and IDF weights from a corpus and maps
// text onto TF-IDF vectors.
//
// FitTransform must not run concurrently with other calls. Once fitted,
// Transform, Vocabulary and IDF are read-only and safe for concurrent use.
type Vectorizer struct {
	cfg      Config
	analyzer *Analyzer

	vocab map[string]int
	terms []string
	idf   []float64
}

// NewVectorizer creates an unfitted Vectorizer.
func NewVectorizer(cfg Config) (*Vectorizer, error) {
	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	return &Vectorizer{cfg: cfg, analyzer: analyzer}, nil
}

// Analyzer returns the analyzer used for both fitting and transforming.
func (v *Vectorizer) Analyzer() *Analyzer {
	return v.analyzer
}

// Fitted reports whether a vocabulary has been learned.
func (v *Vectorizer) Fitted() bool {
	return len(v.terms) > 0
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.terms)
}

// Vocabulary returns the learned terms in column order (alphabetical).
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term returns the term for column idx.
func (v *Vectorizer) Term(idx int) string {
	return v.terms[idx]
}

// FitTransform learns the vocabulary from docs and returns one vector per
// document, in input order.
func (v *Vectorizer) FitTransform(docs []string) ([]SparseVector, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range v.analyzer.Analyze(doc) {
			c[term]++
		}
		for term, n := range c {
			df[term]++
			total[term] += n
		}
		counts[i] = c
	}

	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := v.prune(len(docs), df, total)
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := len(docs)
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = inverseDocumentFrequency(n, df[term], v.cfg.SmoothIDF)
	}

	v.vocab = vocab
	v.terms = terms
	v.idf = idf

	vectors := make([]SparseVector, len(docs))
	for i, c := range counts {
		vectors[i] = v.weigh(c)
	}
	return vectors, nil
}

// prune applies the document-frequency window and the feature cap and
// returns the surviving terms in alphabetical order.
func (v *Vectorizer) prune(n int, df, total map[string]int) []string {
	maxDocs := v.cfg.MaxDF * float64(n)
	if maxDocs < float64(v.cfg.MinDF) {
		// A ceiling below the floor would reject every term (a single-course
		// catalog with max_df < 1); fall back to no ceiling.
		maxDocs = float64(n)
	}

	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d < v.cfg.MinDF || float64(d) > maxDocs {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if v.cfg.MaxFeatures > 0 && len(terms) > v.cfg.MaxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return total[terms[i]] > total[terms[j]]
		})
		terms = terms[:v.cfg.MaxFeatures]
		sort.Strings(terms)
	}
	return terms
}

// Transform maps text onto the fitted vocabulary. Terms outside the
// vocabulary are ignored, so the result may be the zero vector.
func (v *Vectorizer) Transform(text string) (SparseVector, error) {
	if !v.Fitted() {
		return SparseVector{}, ErrNotFitted
	}
	c := make(map[string]int)
	for _, term := range v.analyzer.Analyze(text) {
		if _, ok := v.vocab[term]; ok {
			c[term]++
		}
	}
	return v.weigh(c), nil
}

// weigh converts raw term counts into a TF-IDF vector.
func (v *Vectorizer) weigh(counts map[string]int) SparseVector {
	indices := make([]int, 0, len(counts))
	for term := range counts {
		if idx, ok := v.vocab[term]; ok {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := float64(counts[v.terms[idx]])
		if v.cfg.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		values[i] = tf * v.idf[idx]
	}

	vec := SparseVector{Indices: indices, Values: values}
	if v.cfg.Normalize {
		vec.normalize()
	}
	return vec
}

func inverseDocumentFrequency(n, df int, smooth bool) float64 {
	nd, d := float64(n), float64(df)
	if smooth {
		nd++
		d++
	}
	return math.Log(nd/d) + 1
}
