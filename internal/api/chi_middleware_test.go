// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apex-learning/course-recommender/internal/config"
)

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		RateLimitReqs:      20,
		RateLimitWindow:    30 * time.Second,
		AdminRateLimitReqs: 2,
		CORSOrigins:        []string{"https://apex.example"},
	})

	if cfg.RateLimitRequests != 20 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.AdminRateLimitRequests != 2 {
		t.Errorf("admin limit = %d", cfg.AdminRateLimitRequests)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://apex.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}

	if def := ChiMiddlewareConfigFromSecurity(nil); def.RateLimitRequests != 100 {
		t.Errorf("nil security should yield defaults, got %d", def.RateLimitRequests)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://apex.example"}
	mw := NewChiMiddleware(cfg)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := mw.CORS()(next)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://apex.example", "https://apex.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommend/status", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.RateLimitRequests = 1
	mw := NewChiMiddleware(cfg)

	h := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestRateLimit_Enforced(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	mw := NewChiMiddleware(cfg)

	h := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}
