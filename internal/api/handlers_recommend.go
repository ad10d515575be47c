// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/apex-learning/course-recommender/internal/logging"
	"github.com/apex-learning/course-recommender/internal/recommend"
	"github.com/apex-learning/course-recommender/internal/validation"
)

const fallbackPopular = "popular"

// Recommend handles POST /api/v1/recommend.
// An unfitted engine answers with the popularity listing instead of an error.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSON(w, r, h.config.MaxRequestBytes, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}
	if !h.checkTopN(w, req.TopN) {
		return
	}

	courseID := strings.TrimSpace(req.CourseID)
	topN := clampTopN(req.TopN, h.config.DefaultTopN, h.config.MaxTopN)
	recs, err := h.engine.Recommend(r.Context(), courseID, recommend.RecommendOptions{
		TopN:                topN,
		ExcludeSameCategory: req.ExcludeSameCategory,
		MinScore:            req.MinScore,
		Diversity:           req.Diversity,
	})

	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &RecommendResponse{
			Status:          "success",
			CourseID:        courseID,
			Count:           len(recs),
			Recommendations: nonNil(recs),
		})
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "COURSE_NOT_FOUND",
			fmt.Sprintf("Course with id %s not found", courseID), nil)
	case errors.Is(err, recommend.ErrUnfitted):
		courses, perr := h.engine.Popular(r.Context(), topN)
		if perr != nil {
			h.respondEngineError(w, perr)
			return
		}
		respondJSON(w, http.StatusOK, &RecommendResponse{
			Status:          "success",
			CourseID:        courseID,
			Count:           len(courses),
			Fallback:        fallbackPopular,
			Recommendations: []recommend.Recommendation{},
			Courses:         courses,
		})
	default:
		h.respondEngineError(w, err)
	}
}

// RecommendText handles POST /api/v1/recommend/text.
func (h *Handler) RecommendText(w http.ResponseWriter, r *http.Request) {
	var req TextRecommendRequest
	if err := decodeJSON(w, r, h.config.MaxRequestBytes, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "QUERY_REQUIRED", "Query text is required", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}
	if !h.checkTopN(w, req.TopN) {
		return
	}

	topN := clampTopN(req.TopN, h.config.DefaultTopN, h.config.MaxTopN)
	recs, err := h.engine.RecommendForText(r.Context(), req.Query, recommend.TextOptions{
		TopN:     topN,
		MinScore: req.MinScore,
	})

	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &TextRecommendResponse{
			Status:          "success",
			Query:           req.Query,
			Count:           len(recs),
			Recommendations: nonNil(recs),
		})
	case errors.Is(err, recommend.ErrInvalidQuery):
		respondError(w, http.StatusBadRequest, "QUERY_REQUIRED", "Query text is required", nil)
	case errors.Is(err, recommend.ErrUnfitted):
		courses, perr := h.engine.Popular(r.Context(), topN)
		if perr != nil {
			h.respondEngineError(w, perr)
			return
		}
		respondJSON(w, http.StatusOK, &TextRecommendResponse{
			Status:          "success",
			Query:           req.Query,
			Count:           len(courses),
			Fallback:        fallbackPopular,
			Recommendations: []recommend.Recommendation{},
			Courses:         courses,
		})
	default:
		h.respondEngineError(w, err)
	}
}

// PopularCourses handles GET /api/v1/courses/popular.
func (h *Handler) PopularCourses(w http.ResponseWriter, r *http.Request) {
	topN := clampTopN(getIntParam(r, "top_n", h.config.DefaultTopN), h.config.DefaultTopN, h.config.MaxTopN)
	courses, err := h.engine.Popular(r.Context(), topN)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &PopularResponse{
		Status:  "success",
		Count:   len(courses),
		Courses: nonNil(courses),
	})
}

// CourseTerms handles GET /api/v1/courses/{id}/terms.
func (h *Handler) CourseTerms(w http.ResponseWriter, r *http.Request) {
	courseID := strings.TrimSpace(chi.URLParam(r, "id"))
	if courseID == "" {
		respondError(w, http.StatusBadRequest, validation.ErrorCode, "course id is required", nil)
		return
	}

	n := clampTopN(getIntParam(r, "top_n", h.config.DefaultTopN), h.config.DefaultTopN, h.config.MaxTopN)
	terms, err := h.engine.TopTerms(r.Context(), courseID, n)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &TermsResponse{
			Status:   "success",
			CourseID: courseID,
			Terms:    nonNil(terms),
		})
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "COURSE_NOT_FOUND",
			fmt.Sprintf("Course with id %s not found", courseID), nil)
	default:
		h.respondEngineError(w, err)
	}
}

// Vocabulary handles GET /api/v1/recommend/vocabulary.
func (h *Handler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	terms, err := h.engine.Vocabulary(r.Context())
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &VocabularyResponse{
		Status: "success",
		Count:  len(terms),
		Terms:  nonNil(terms),
	})
}

// EngineStatus handles GET /api/v1/recommend/status.
func (h *Handler) EngineStatus(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &StatusResponse{
		Status: "success",
		Engine: h.engine.Status(),
	})
}

// Refresh handles POST /api/v1/admin/recommend/refresh. The rebuild runs
// synchronously; on failure the previous vector space stays live.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	if h.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.refreshTimeout)
		defer cancel()
	}

	logger := logging.Ctx(r.Context())
	logger.Info().Msg("Forced vector space refresh requested")

	if err := h.engine.Refresh(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "REFRESH_FAILED",
			"Vector space refresh failed; the previous snapshot is still serving", err)
		return
	}

	status := h.engine.Status()
	logger.Info().
		Uint64("version", status.Version).
		Int("corpus_size", status.CorpusSize).
		Int("vocabulary_size", status.VocabularySize).
		Msg("Forced vector space refresh complete")
	respondJSON(w, http.StatusOK, &StatusResponse{
		Status: "success",
		Engine: status,
	})
}

// checkTopN rejects a top_n above the configured maximum.
func (h *Handler) checkTopN(w http.ResponseWriter, topN int) bool {
	if topN > h.config.MaxTopN {
		respondError(w, http.StatusBadRequest, validation.ErrorCode,
			fmt.Sprintf("top_n must be at most %d", h.config.MaxTopN), nil)
		return false
	}
	return true
}

// respondEngineError maps engine failures that are not handled per endpoint.
func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	var buildErr *recommend.BuildError
	switch {
	case errors.Is(err, recommend.ErrUnfitted):
		respondError(w, http.StatusServiceUnavailable, "NOT_FITTED",
			"Recommendation engine has no vector space yet", nil)
	case errors.As(err, &buildErr):
		respondError(w, http.StatusServiceUnavailable, "RECOMMENDER_UNAVAILABLE",
			"Recommendation engine is unavailable", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, http.StatusServiceUnavailable, "TIMEOUT", "Request timed out", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to generate recommendations", err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
