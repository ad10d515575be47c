// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

// Package reranking implements post-processing for recommendation diversity.
//
// Rerankers operate on an already-scored candidate list and reorder it to
// balance relevance against other objectives:
//
//	Similarity row -> Initial Ranking -> Reranker -> Final Ranking
//	(relevance)                          (diversity)
//
// # Maximal Marginal Relevance
//
// MMR penalizes candidates that are similar to courses already selected,
// so a "similar courses" list is not five near-identical titles. The
// similarity between candidates is supplied by the caller, typically a
// lookup in the precomputed course similarity matrix.
//
//	mmr := reranking.NewMMR(0.7)
//	diverse := mmr.Rerank(candidates, 5, matrix.At)
package reranking
