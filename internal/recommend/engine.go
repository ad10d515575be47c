// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/apex-learning/course-recommender/internal/cache"
)

// CatalogReader supplies the published courses. The order of the returned
// slice defines the corpus index.
type CatalogReader interface {
	ListPublished(ctx context.Context) ([]CourseRecord, error)
}

// Engine answers content-similarity queries over the course catalog.
// It is safe for concurrent use.
//
// Each fit builds a complete snapshot off to the side and publishes it with
// a single atomic pointer swap, so a query sees either the old or the new
// vector space and never a mix. The first query on a fresh engine triggers
// the initial fit; concurrent first callers share that one fit.
type Engine struct {
	config  *Config
	reader  CatalogReader
	logger  zerolog.Logger
	metrics MetricsRecorder

	current   atomic.Pointer[snapshot]
	version   atomic.Uint64
	initGroup singleflight.Group
	refreshMu sync.Mutex

	statusMu    sync.RWMutex
	lastError   string
	lastErrorAt time.Time

	textCache *cache.LRU[[]Recommendation]

	queryCount  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	errorCount  atomic.Int64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine creates an unfitted engine reading courses from reader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, reader CatalogReader, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if reader == nil {
		return nil, errors.New("catalog reader is required")
	}

	e := &Engine{
		config:  cfg.Clone(),
		reader:  reader,
		logger:  logger.With().Str("component", "recommend").Logger(),
		metrics: noopMetrics{},
	}
	if cfg.Cache.Enabled {
		e.textCache = cache.NewLRU[[]Recommendation](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Fit loads the catalog and builds the vector space. It is equivalent to
// Refresh and exists for callers that want to fit eagerly at start-up.
func (e *Engine) Fit(ctx context.Context) error {
	return e.refresh(ctx, false)
}

// Refresh discards the current vector space, reloads the catalog and
// rebuilds. Concurrent calls are serialized. On failure the previous
// snapshot stays live and a *BuildError is returned.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.refresh(ctx, false)
}

func (e *Engine) refresh(ctx context.Context, onlyIfMissing bool) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	if onlyIfMissing && e.current.Load() != nil {
		return nil
	}

	start := time.Now()
	e.logger.Debug().Msg("loading catalog")

	records, err := e.reader.ListPublished(ctx)
	if err != nil {
		return e.buildFailed("load", err, start)
	}

	snap, err := buildSnapshot(ctx, e.config, records)
	if err != nil {
		return e.buildFailed("fit", err, start)
	}

	e.publish(snap, time.Since(start))
	return nil
}

// publish makes snap the live snapshot.
func (e *Engine) publish(snap *snapshot, duration time.Duration) {
	snap.version = e.version.Add(1)
	snap.fittedAt = time.Now()
	snap.duration = duration

	e.current.Store(snap)
	if e.textCache != nil {
		e.textCache.Clear()
	}

	e.statusMu.Lock()
	e.lastError = ""
	e.lastErrorAt = time.Time{}
	e.statusMu.Unlock()

	outcome := OutcomeSuccess
	event := e.logger.Info()
	if !snap.fitted() {
		outcome = OutcomeUnfitted
		event = e.logger.Warn().Err(snap.unfitted)
	}
	e.metrics.RecordFit(outcome, duration, len(snap.records), snap.vocabularySize(), snap.version)

	event.
		Uint64("version", snap.version).
		Int("courses", len(snap.records)).
		Int("vocabulary", snap.vocabularySize()).
		Dur("duration", duration).
		Bool("fitted", snap.fitted()).
		Msg("vector space published")
}

func (e *Engine) buildFailed(op string, err error, start time.Time) error {
	buildErr := &BuildError{Op: op, Err: err}
	duration := time.Since(start)

	e.statusMu.Lock()
	e.lastError = buildErr.Error()
	e.lastErrorAt = time.Now()
	e.statusMu.Unlock()

	e.metrics.RecordFit(OutcomeError, duration, 0, 0, e.version.Load())
	e.logger.Error().
		Err(err).
		Str("op", op).
		Dur("duration", duration).
		Bool("previous_snapshot_live", e.current.Load() != nil).
		Msg("vector space build failed")
	return buildErr
}

// live returns the live snapshot, running the first fit if none has been
// published yet. Concurrent first callers wait for, and share, one fit.
func (e *Engine) live(ctx context.Context) (*snapshot, error) {
	if snap := e.current.Load(); snap != nil {
		return snap, nil
	}

	// The shared fit must not be aborted because the caller that happened
	// to start it went away.
	fitCtx := context.WithoutCancel(ctx)
	_, err, _ := e.initGroup.Do("initial-fit", func() (any, error) {
		return nil, e.refresh(fitCtx, true)
	})
	if err != nil {
		return nil, err
	}

	snap := e.current.Load()
	if snap == nil {
		return nil, ErrUnfitted
	}
	return snap, nil
}

// Fitted reports whether the live snapshot can answer similarity queries.
func (e *Engine) Fitted() bool {
	snap := e.current.Load()
	return snap != nil && snap.fitted()
}

// Ready reports whether any snapshot has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Status describes the live snapshot and query counters.
func (e *Engine) Status() Status {
	st := Status{
		Queries:     e.queryCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
	}
	if snap := e.current.Load(); snap != nil {
		st.Fitted = snap.fitted()
		st.Version = snap.version
		st.CorpusSize = len(snap.records)
		st.VocabularySize = snap.vocabularySize()
		st.FittedAt = snap.fittedAt
		st.FitDuration = snap.duration
	}

	e.statusMu.RLock()
	st.LastError = e.lastError
	st.LastErrorAt = e.lastErrorAt
	e.statusMu.RUnlock()
	return st
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func (e *Engine) topN(n int) int {
	if n < 1 {
		return e.config.Limits.DefaultTopN
	}
	return n
}

// observe records the outcome of a query.
func (e *Engine) observe(kind string, start time.Time, err error) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = OutcomeNotFound
	case errors.Is(err, ErrUnfitted):
		outcome = OutcomeUnfitted
	case errors.Is(err, ErrInvalidQuery):
		outcome = OutcomeInvalid
	default:
		outcome = OutcomeError
		e.errorCount.Add(1)
	}
	e.metrics.RecordQuery(kind, outcome, time.Since(start))
}
