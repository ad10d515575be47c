// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/catalog"
)

// ErrSubscriptionClosed is returned when the event channel closes while the
// service is still meant to be running. Suture restarts the service.
var ErrSubscriptionClosed = errors.New("catalog event subscription closed")

// ChangeSubscriber delivers catalog change events.
type ChangeSubscriber interface {
	SubscribeChanged(ctx context.Context) (<-chan catalog.ChangeEvent, error)
}

// RefreshTrigger accepts rebuild requests.
type RefreshTrigger interface {
	Trigger(reason string) bool
}

// CatalogEventService forwards catalog change events to the refresh service.
type CatalogEventService struct {
	events ChangeSubscriber
	target RefreshTrigger
	logger zerolog.Logger
	name   string
}

// NewCatalogEventService creates the listener.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogEventService(events ChangeSubscriber, target RefreshTrigger, logger zerolog.Logger) *CatalogEventService {
	return &CatalogEventService{
		events: events,
		target: target,
		logger: logger.With().Str("service", "catalog-events").Logger(),
		name:   "catalog-event-listener",
	}
}

// Serve implements suture.Service.
func (s *CatalogEventService) Serve(ctx context.Context) error {
	ch, err := s.events.SubscribeChanged(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Str("topic", catalog.TopicChanged).Msg("listening for catalog changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			queued := s.target.Trigger(ev.Reason)
			s.logger.Debug().
				Str("reason", ev.Reason).
				Int("courses", len(ev.CourseIDs)).
				Bool("coalesced", !queued).
				Msg("catalog changed")
		}
	}
}

// String returns the service name for logging.
func (s *CatalogEventService) String() string {
	return s.name
}
