// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/apex-learning/course-recommender/internal/api"
	"github.com/apex-learning/course-recommender/internal/catalog"
	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/logging"
	"github.com/apex-learning/course-recommender/internal/metrics"
	"github.com/apex-learning/course-recommender/internal/recommend"
	"github.com/apex-learning/course-recommender/internal/supervisor"
	"github.com/apex-learning/course-recommender/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog_driver", cfg.Catalog.Driver).
		Str("catalog_path", cfg.Catalog.Path).
		Msg("Starting Apex recommender")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Recommender stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === CATALOG ===

	events := catalog.NewEvents(watermill.NewSlogLogger(logging.NewSlogLogger()))
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog event bus")
		}
	}()

	store, err := catalog.Open(ctx, &cfg.Catalog,
		catalog.WithEvents(events),
		catalog.WithLogger(logging.WithComponent("catalog")))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	if cfg.Catalog.SeedFile != "" {
		if err := seedCatalog(ctx, store, cfg.Catalog.SeedFile); err != nil {
			return err
		}
	}

	total, published, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	logging.Info().Int("courses", total).Int("published", published).Msg("Catalog ready")

	var reader recommend.CatalogReader = store
	if cfg.Catalog.Breaker.Enabled {
		reader = catalog.NewBreakerReader(store, cfg.Catalog.Breaker, logging.WithComponent("catalog-breaker"))
	}

	// === ENGINE ===

	engine, err := initEngine(cfg, reader, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	svcLogger := logging.WithComponent("supervisor")
	refresh := services.NewRefreshService(engine, refreshServiceConfig(cfg), svcLogger)
	tree.AddDataService(refresh)
	if cfg.Recommend.RefreshOnChange {
		tree.AddMessagingService(services.NewCatalogEventService(events, refresh, svcLogger))
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (rate_limit_disabled=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set security.cors_origins in production")
	}

	handler := api.NewHandler(engine, store, cfg.API, version,
		api.WithRefreshTimeout(cfg.Recommend.RefreshTimeout))
	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		cfg.Server.Timeout)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// A forced refresh answers only after the rebuild finishes.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.RefreshTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, svcLogger))

	// === RUN ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = fmt.Errorf("supervisor tree: %w", err)
		}
		cancel()
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return runErr
}

// seedCatalog upserts the courses in a YAML or JSON seed file.
func seedCatalog(ctx context.Context, store *catalog.Store, path string) error {
	courses, err := catalog.LoadSeedFile(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	n, err := catalog.Seed(ctx, store, courses)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logging.Info().Str("file", path).Int("courses", n).Msg("Catalog seeded")
	return nil
}
