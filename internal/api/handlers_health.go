// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"context"
	"net/http"
	"time"
)

const readyPingTimeout = 2 * time.Second

// HealthResponse is the body of both health probes.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version,omitempty"`
	Uptime  float64 `json:"uptime_seconds"`

	// Readiness only.
	EngineReady      *bool `json:"engine_ready,omitempty"`
	Fitted           *bool `json:"fitted,omitempty"`
	CatalogConnected *bool `json:"catalog_connected,omitempty"`
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &HealthResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// The service is ready once a snapshot has been published and the catalog,
// when configured, answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	engineReady := h.engine.Ready()
	fitted := h.engine.Status().Fitted

	catalogOK := true
	if h.catalog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		catalogOK = h.catalog.Ping(ctx) == nil
		cancel()
	}

	resp := &HealthResponse{
		Status:           "ready",
		Version:          h.version,
		Uptime:           time.Since(h.startTime).Seconds(),
		EngineReady:      &engineReady,
		Fitted:           &fitted,
		CatalogConnected: &catalogOK,
	}
	if !engineReady || !catalogOK {
		resp.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
