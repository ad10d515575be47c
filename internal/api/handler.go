// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"context"
	"time"

	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/recommend"
)

// Recommender is the part of recommend.Engine the HTTP layer uses.
type Recommender interface {
	Recommend(ctx context.Context, courseID string, opts recommend.RecommendOptions) ([]recommend.Recommendation, error)
	RecommendForText(ctx context.Context, query string, opts recommend.TextOptions) ([]recommend.Recommendation, error)
	Popular(ctx context.Context, topN int) ([]recommend.CourseSummary, error)
	TopTerms(ctx context.Context, courseID string, n int) ([]recommend.TermWeight, error)
	Vocabulary(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context) error
	Status() recommend.Status
	Ready() bool
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the recommendation and health endpoints.
type Handler struct {
	engine    Recommender
	catalog   Pinger
	config    config.APIConfig
	version   string
	startTime time.Time

	refreshTimeout time.Duration
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRefreshTimeout bounds a forced refresh. Zero leaves it unbounded.
func WithRefreshTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.refreshTimeout = d
	}
}

// NewHandler creates a Handler. catalog may be nil, in which case readiness
// depends on the engine alone.
func NewHandler(engine Recommender, catalog Pinger, cfg config.APIConfig, version string, opts ...HandlerOption) *Handler {
	if cfg.DefaultTopN < 1 {
		cfg.DefaultTopN = 10
	}
	if cfg.MaxTopN < cfg.DefaultTopN {
		cfg.MaxTopN = max(50, cfg.DefaultTopN)
	}
	h := &Handler{
		engine:    engine,
		catalog:   catalog,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
