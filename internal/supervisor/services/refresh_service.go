// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/apex-learning/course-recommender/internal/logging"
	"github.com/apex-learning/course-recommender/internal/recommend"
)

// Refresh reasons used in log lines.
const (
	ReasonStartup  = "startup"
	ReasonInterval = "interval"
)

// Refresher is the part of recommend.Engine the refresh loop drives.
type Refresher interface {
	Refresh(ctx context.Context) error
	Status() recommend.Status
}

// RefreshServiceConfig holds configuration for the refresh service.
type RefreshServiceConfig struct {
	// OnStartup rebuilds the vector space as soon as the service starts.
	OnStartup bool

	// Interval between scheduled rebuilds. Zero disables the schedule.
	Interval time.Duration

	// Debounce is the minimum gap between triggered rebuilds. Triggers
	// arriving inside the gap collapse into one rebuild at its end.
	Debounce time.Duration

	// Timeout bounds a single rebuild. Zero leaves it unbounded.
	Timeout time.Duration
}

// RefreshService keeps the engine's vector space current. It rebuilds on
// start-up, on a fixed schedule and whenever Trigger is called.
// Failed rebuilds are logged and retried on the next trigger; the previous
// snapshot keeps serving.
type RefreshService struct {
	engine   Refresher
	config   RefreshServiceConfig
	limiter  *rate.Limiter
	triggers chan string
	logger   zerolog.Logger
	name     string
}

// NewRefreshService creates a new refresh service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRefreshService(engine Refresher, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	limit := rate.Inf
	if cfg.Debounce > 0 {
		limit = rate.Every(cfg.Debounce)
	}
	return &RefreshService{
		engine:   engine,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
		triggers: make(chan string, 1),
		logger:   logger.With().Str("service", "refresh").Logger(),
		name:     "refresh-service",
	}
}

// Trigger requests a rebuild. It never blocks; it reports false when a
// rebuild is already pending, in which case the request is folded into it.
func (s *RefreshService) Trigger(reason string) bool {
	select {
	case s.triggers <- reason:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Dur("debounce", s.config.Debounce).
		Msg("refresh service starting")

	if s.config.OnStartup {
		s.refresh(ctx, ReasonStartup)
	}

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh service shutting down")
			return ctx.Err()

		case <-tick:
			s.refresh(ctx, ReasonInterval)

		case reason := <-s.triggers:
			if err := s.limiter.Wait(ctx); err != nil {
				return ctx.Err()
			}
			s.refresh(ctx, reason)
		}
	}
}

// refresh runs one rebuild under its own correlation id.
func (s *RefreshService) refresh(ctx context.Context, reason string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	logger := s.logger.With().
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Str("reason", reason).
		Logger()

	start := time.Now()
	if err := s.engine.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Dur("duration", time.Since(start)).
			Msg("vector space refresh failed, previous snapshot still serving")
		return
	}

	st := s.engine.Status()
	logger.Info().
		Uint64("version", st.Version).
		Bool("fitted", st.Fitted).
		Int("corpus_size", st.CorpusSize).
		Int("vocabulary_size", st.VocabularySize).
		Dur("duration", time.Since(start)).
		Msg("vector space refreshed")
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
