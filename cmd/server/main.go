// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package main is the entry point for the StreamCompare server.
//
// StreamCompare ranks streaming services against a user's must-have
// channels and searches for two and three service bundles that cover the
// selection for less.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Catalog: file, SQL (sqlite/duckdb) or REST provider, optional circuit
//     breaker, optional BadgerDB snapshot store
//  4. Engine: scorer and bundle search with the recommend.* settings
//  5. Supervisor tree: catalog refresh service and HTTP server
//
// # Example Usage
//
//	export CATALOG_SOURCE=file
//	export CATALOG_FILE=/data/catalog.yaml
//	./streamcompare
//
//	export CATALOG_SOURCE=rest
//	export CATALOG_REST_URL=https://example.supabase.co/rest/v1
//	export CATALOG_REST_API_KEY=...
//	export CATALOG_STORE_PATH=/data/snapshot
//	./streamcompare
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for SERVER_SHUTDOWN_TIMEOUT before the catalog
// resources are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/streamcompare/internal/api"
	"github.com/tomtom215/streamcompare/internal/config"
	"github.com/tomtom215/streamcompare/internal/logging"
	"github.com/tomtom215/streamcompare/internal/recommend"
	"github.com/tomtom215/streamcompare/internal/supervisor"
	"github.com/tomtom215/streamcompare/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("Starting StreamCompare")

	if code := run(cfg); code != 0 {
		os.Exit(code)
	}
}

// run wires the components and blocks until shutdown. It returns the exit
// code so deferred cleanup runs before os.Exit.
func run(cfg *config.Config) int {
	logger := logging.Logger()

	catalogComponents, err := initCatalog(&cfg.Catalog, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize catalog")
		return 1
	}
	defer catalogComponents.Close(logger)

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create recommendation engine")
		return 1
	}

	handler := api.NewHandler(engine, catalogComponents.Loader, api.HandlerConfig{
		ResponseCacheTTL: cfg.API.ResponseCacheTTL,
		SnapshotTimeout:  cfg.Catalog.FetchTimeout,
	}, logger)

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), cfg.API.MaxRequestBodyBytes)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if cfg.Catalog.RefreshInterval > 0 {
		tree.AddCatalogService(services.NewCatalogRefreshService(
			catalogComponents.Loader,
			handler,
			services.CatalogRefreshConfig{
				WarmOnStartup:   true,
				RefreshInterval: cfg.Catalog.RefreshInterval,
				CleanupInterval: cfg.API.ResponseCacheTTL,
				RefreshTimeout:  cfg.Catalog.FetchTimeout,
			},
			logger,
		))
	} else {
		logger.Info().Msg("Background catalog refresh disabled (CATALOG_REFRESH_INTERVAL=0)")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = <-tree.ServeBackground(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
		return 1
	}

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within shutdown timeout")
		}
	}

	logger.Info().Msg("StreamCompare stopped")
	return 0
}
