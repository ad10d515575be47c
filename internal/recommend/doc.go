// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

// Package recommend implements content-based course recommendations using
// TF-IDF vectors and cosine similarity.
//
// # Architecture
//
// Each published course becomes one document built from its title (x3),
// description, category (x2), difficulty, tags and instructor. The tfidf
// subpackage turns the documents into L2-normalized vectors, and a dense
// similarity matrix is precomputed so that "courses like X" is a row lookup
// and a sort.
//
//   - Recommend: similar courses for a course id
//   - RecommendForText: similar courses for free text (skills, interests)
//   - Popular: enrollment/rating ordering, available without a vector space
//   - TopTerms, Vocabulary: introspection of the fitted model
//
// # Lifecycle
//
// The engine is created unfitted. The first query fits it (concurrent first
// callers share one fit), and Refresh rebuilds it after catalog changes.
// Every build produces a new immutable snapshot that is swapped in
// atomically, so in-flight queries never observe a partially built matrix.
// A failed build leaves the previous snapshot in place.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	if err != nil {
//	    return err
//	}
//
//	recs, err := engine.Recommend(ctx, courseID, recommend.RecommendOptions{TopN: 5})
//	if errors.Is(err, recommend.ErrUnfitted) {
//	    popular, _ := engine.Popular(ctx, 5)
//	    ...
//	}
//
// # Thread Safety
//
// All methods are safe for concurrent use. Queries are lock-free reads of
// the live snapshot; refreshes are serialized by a mutex.
package recommend
