// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

/*
Package supervisor provides process supervision using suture v4.

Services are organized into three layers:

	RootSupervisor ("apex-recommender")
	├── DataSupervisor ("data-layer")
	│   └── RefreshService
	├── MessagingSupervisor ("messaging-layer")
	│   └── CatalogEventService (if refresh_on_change)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts its services independently with suture's backoff. A
crash in the refresh loop does not interrupt the HTTP server, which keeps
answering from the last published vector space.

Supervisor events (restarts, backoff, panics) are logged through sutureslog,
bridged into zerolog by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
		supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		return err
	}
	tree.AddAPIService(httpService)
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
