// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/apex-learning/course-recommender/internal/catalog"
)

// recordingTrigger captures trigger reasons.
type recordingTrigger struct {
	reasons chan string
}

func (r *recordingTrigger) Trigger(reason string) bool {
	select {
	case r.reasons <- reason:
		return true
	default:
		return false
	}
}

// closedSubscriber returns an already closed channel.
type closedSubscriber struct{}

func (closedSubscriber) SubscribeChanged(context.Context) (<-chan catalog.ChangeEvent, error) {
	ch := make(chan catalog.ChangeEvent)
	close(ch)
	return ch, nil
}

type failingSubscriber struct{ err error }

func (f failingSubscriber) SubscribeChanged(context.Context) (<-chan catalog.ChangeEvent, error) {
	return nil, f.err
}

func TestCatalogEventService_Interface(t *testing.T) {
	var _ suture.Service = (*CatalogEventService)(nil)
}

func TestCatalogEventService_ForwardsChanges(t *testing.T) {
	t.Parallel()

	events := catalog.NewEvents(nil)
	defer func() { _ = events.Close() }()

	trigger := &recordingTrigger{reasons: make(chan string, 8)}
	svc := NewCatalogEventService(events, trigger, zerolog.Nop())
	stop := runService(t, svc)

	// The subscription is registered asynchronously; events published
	// before it exists are dropped, so keep publishing until one lands.
	deadline := time.After(2 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var got string
wait:
	for {
		select {
		case got = <-trigger.reasons:
			break wait
		case <-ticker.C:
			if err := events.PublishChanged(context.Background(), catalog.ReasonUpsert, []string{"go-basics"}); err != nil {
				t.Fatalf("PublishChanged: %v", err)
			}
		case <-deadline:
			t.Fatal("no trigger received")
		}
	}

	if got != catalog.ReasonUpsert {
		t.Errorf("reason = %q, want %q", got, catalog.ReasonUpsert)
	}
	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}

func TestCatalogEventService_SubscriptionClosed(t *testing.T) {
	t.Parallel()

	svc := NewCatalogEventService(closedSubscriber{}, &recordingTrigger{reasons: make(chan string, 1)}, zerolog.Nop())
	if err := svc.Serve(context.Background()); !errors.Is(err, ErrSubscriptionClosed) {
		t.Errorf("Serve returned %v, want ErrSubscriptionClosed", err)
	}
}

func TestCatalogEventService_SubscribeError(t *testing.T) {
	t.Parallel()

	want := errors.New("bus closed")
	svc := NewCatalogEventService(failingSubscriber{err: want}, &recordingTrigger{}, zerolog.Nop())
	if err := svc.Serve(context.Background()); !errors.Is(err, want) {
		t.Errorf("Serve returned %v, want %v", err, want)
	}
}

// End to end: a catalog change reaches the refresh service.
func TestCatalogEventService_DrivesRefresh(t *testing.T) {
	t.Parallel()

	events := catalog.NewEvents(nil)
	defer func() { _ = events.Close() }()

	engine := newFakeRefresher()
	refresh := NewRefreshService(engine, RefreshServiceConfig{}, zerolog.Nop())
	listener := NewCatalogEventService(events, refresh, zerolog.Nop())

	stopRefresh := runService(t, refresh)
	stopListener := runService(t, listener)
	defer func() {
		_ = stopListener()
		_ = stopRefresh()
	}()

	deadline := time.After(2 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-engine.done:
			return
		case <-ticker.C:
			_ = events.PublishChanged(context.Background(), catalog.ReasonPublished, []string{"py-data"})
		case <-deadline:
			t.Fatal("refresh never ran")
		}
	}
}
