// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

// Package logging provides centralized zerolog-based structured logging for
// the recommender service.
//
// JSON output is the production default; console output is available for
// local development. The global logger is configured once at startup from
// the logging section of the service configuration:
//
//	logging.Init(logging.Config{
//	    Level:     cfg.Logging.Level,
//	    Format:    cfg.Logging.Format,
//	    Caller:    cfg.Logging.Caller,
//	    Timestamp: true,
//	})
//
//	logging.Info().Int("courses", n).Msg("Vector space refreshed")
//
// # Context Propagation
//
// HTTP requests carry a request ID and background refreshes carry a short
// correlation ID. Ctx attaches whichever are present:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("Refresh started")
//
// # slog Bridge
//
// The supervisor tree and the catalog event bus log through log/slog.
// NewSlogLogger returns a *slog.Logger whose records are written by the
// global zerolog logger, so all output shares one format.
package logging
