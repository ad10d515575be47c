// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/metrics"
	"github.com/apex-learning/course-recommender/internal/recommend"
)

// BreakerName labels the catalog breaker in logs and metrics.
const BreakerName = "catalog-reader"

// BreakerReader wraps a CatalogReader with a circuit breaker. While open,
// ListPublished fails fast with gobreaker.ErrOpenState and the engine keeps
// serving its previous snapshot.
//
// The breaker uses real time for its interval and timeout; tests drive it
// with short timeouts rather than a fake clock.
type BreakerReader struct {
	reader recommend.CatalogReader
	cb     *gobreaker.CircuitBreaker[[]recommend.CourseRecord]
	name   string
	logger zerolog.Logger
}

// NewBreakerReader wraps reader. The breaker opens once at least
// cfg.MinRequests reads were seen in the current interval and the failure
// ratio reaches cfg.FailureRatio. Context cancellation never counts as a
// failure.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerReader(reader recommend.CatalogReader, cfg config.BreakerConfig, logger zerolog.Logger) *BreakerReader {
	b := &BreakerReader{
		reader: reader,
		name:   BreakerName,
		logger: logger.With().Str("component", "catalog-breaker").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[[]recommend.CourseRecord](gobreaker.Settings{
		Name:        b.name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				b.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening catalog circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			b.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Catalog circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return b
}

// ListPublished reads the catalog through the breaker.
func (b *BreakerReader) ListPublished(ctx context.Context) ([]recommend.CourseRecord, error) {
	records, err := b.cb.Execute(func() ([]recommend.CourseRecord, error) {
		return b.reader.ListPublished(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Warn().Err(err).Msg("Catalog read rejected by circuit breaker")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return records, nil
}

// State returns the current breaker state as a string.
func (b *BreakerReader) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
