// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package services provides suture.Service wrappers for the recommender's
long-running components.

Each wrapper implements suture's Service interface and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService runs an *http.Server and shuts it down gracefully when its
context ends.

RefreshService rebuilds the engine's vector space on start-up, on a fixed
interval, and on demand through Trigger. Pending triggers collapse into a
single rebuild, and an x/time/rate limiter enforces a minimum gap between
triggered rebuilds. A failed rebuild is logged and the previous snapshot
keeps serving; the service itself does not fail.

CatalogEventService subscribes to catalog change events and forwards them to
RefreshService.Trigger. If the subscription closes unexpectedly it returns
ErrSubscriptionClosed so suture restarts it with a fresh subscription.

Wiring:

	refresh := services.NewRefreshService(engine, refreshCfg, logger)
	tree.AddDataService(refresh)
	tree.AddMessagingService(services.NewCatalogEventService(events, refresh, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, timeout, logger))
*/
package services
