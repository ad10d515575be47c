// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// slowRefresher is a Recommender whose Refresh outlasts the request timeout.
type slowRefresher struct {
	stubRecommender
	delay time.Duration
}

func (s *slowRefresher) Refresh(context.Context) error {
	time.Sleep(s.delay)
	return nil
}

// statusRecorder keeps every status code written, not only the first.
type statusRecorder struct {
	*httptest.ResponseRecorder
	mu    sync.Mutex
	codes []int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.mu.Lock()
	r.codes = append(r.codes, code)
	r.mu.Unlock()
	r.ResponseRecorder.WriteHeader(code)
}

func (r *statusRecorder) written() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...)
}

func newTimeoutRouter(engine Recommender, timeout time.Duration) http.Handler {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	handler := NewHandler(engine, &mutableCatalog{}, testAPIConfig(), "test")
	return NewRouter(handler, NewChiMiddleware(mwCfg), timeout).Setup()
}

func TestRouter_RefreshOutlivesRequestTimeout(t *testing.T) {
	h := newTimeoutRouter(&slowRefresher{delay: 60 * time.Millisecond}, 10*time.Millisecond)

	rec := &statusRecorder{ResponseRecorder: httptest.NewRecorder()}
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/recommend/refresh", nil))

	codes := rec.written()
	if len(codes) != 1 || codes[0] != http.StatusOK {
		t.Errorf("status codes written = %v, want exactly [200]", codes)
	}
}
