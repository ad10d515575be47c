// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/logging"
	"github.com/apex-learning/course-recommender/internal/metrics"
)

// TopicChanged carries catalog change notifications.
const TopicChanged = "catalog.changed"

// eventBuffer bounds undelivered messages per subscriber.
const eventBuffer = 64

// ChangeEvent describes one committed catalog mutation.
type ChangeEvent struct {
	Reason     string    `json:"reason"`
	CourseIDs  []string  `json:"course_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Events is the in-process catalog change bus.
type Events struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewEvents creates a change bus backed by a Watermill GoChannel.
// A nil adapter discards Watermill's own logging.
func NewEvents(adapter watermill.LoggerAdapter) *Events {
	if adapter == nil {
		adapter = watermill.NopLogger{}
	}
	return &Events{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: eventBuffer,
		}, adapter),
		logger: logging.WithComponent("catalog-events"),
	}
}

// PublishChanged publishes a ChangeEvent. With no subscriber the event is
// dropped.
func (e *Events) PublishChanged(_ context.Context, reason string, courseIDs []string) error {
	payload, err := json.Marshal(ChangeEvent{
		Reason:     reason,
		CourseIDs:  courseIDs,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("reason", reason)

	if err := e.pubsub.Publish(TopicChanged, msg); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	metrics.CatalogEventsPublished.Inc()
	return nil
}

// SubscribeChanged returns a channel of decoded change events. Messages are
// acknowledged as soon as they are decoded. The channel is closed when ctx
// is done or the bus is closed.
func (e *Events) SubscribeChanged(ctx context.Context) (<-chan ChangeEvent, error) {
	messages, err := e.pubsub.Subscribe(ctx, TopicChanged)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", TopicChanged, err)
	}

	out := make(chan ChangeEvent, eventBuffer)
	go func() {
		defer close(out)
		for msg := range messages {
			var ev ChangeEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				e.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed change event")
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (e *Events) Close() error {
	return e.pubsub.Close()
}
