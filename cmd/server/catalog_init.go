// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/catalog"
	"github.com/tomtom215/streamcompare/internal/config"
)

// CatalogComponents holds the catalog provider chain and the resources
// that must be closed on shutdown.
type CatalogComponents struct {
	Loader  *catalog.Loader
	closers []io.Closer
}

// Close releases the SQL connection pool and snapshot store.
func (c *CatalogComponents) Close(logger zerolog.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing catalog resource")
		}
	}
}

// initCatalog builds the provider for cfg.Catalog.Source, wraps remote
// sources in a circuit breaker, opens the snapshot store and returns the
// loader.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCatalog(cfg *config.CatalogConfig, logger zerolog.Logger) (*CatalogComponents, error) {
	components := &CatalogComponents{}

	provider, err := newProvider(cfg, components)
	if err != nil {
		components.Close(logger)
		return nil, err
	}

	if cfg.Breaker.Enabled && cfg.Source != catalog.SourceFile {
		provider = catalog.NewBreakerProvider(provider, catalog.BreakerConfig{
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
		}, logger)
	}

	var store catalog.Store
	if cfg.StorePath != "" {
		badgerStore, err := catalog.OpenBadgerStore(cfg.StorePath)
		if err != nil {
			components.Close(logger)
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		components.closers = append(components.closers, badgerStore)
		store = badgerStore
	}

	components.Loader = catalog.NewLoader(provider, store, catalog.LoaderConfig{
		TTL:           cfg.CacheTTL,
		RetryInterval: cfg.RetryInterval,
		FetchTimeout:  cfg.FetchTimeout,
	}, logger)

	logger.Info().
		Str("source", cfg.Source).
		Bool("breaker", cfg.Breaker.Enabled && cfg.Source != catalog.SourceFile).
		Bool("snapshot_store", store != nil).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Catalog initialized")

	return components, nil
}

func newProvider(cfg *config.CatalogConfig, components *CatalogComponents) (catalog.Provider, error) {
	switch cfg.Source {
	case catalog.SourceFile:
		return catalog.NewFileProvider(cfg.File), nil

	case catalog.SourceSQL:
		p, err := catalog.NewSQLProvider(cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sql catalog: %w", err)
		}
		components.closers = append(components.closers, p)
		if cfg.SQL.SeedFile != "" {
			if err := seedSQLCatalog(p, cfg.SQL.SeedFile, cfg.FetchTimeout); err != nil {
				return nil, err
			}
		}
		return p, nil

	case catalog.SourceREST:
		restCfg := catalog.DefaultRESTConfig()
		restCfg.BaseURL = cfg.REST.URL
		restCfg.APIKey = cfg.REST.APIKey
		if cfg.REST.Timeout > 0 {
			restCfg.Timeout = cfg.REST.Timeout
		}
		restCfg.RequestsPerSecond = cfg.REST.RequestsPerSecond
		if cfg.REST.Burst > 0 {
			restCfg.Burst = cfg.REST.Burst
		}
		restCfg.MaxRetries = cfg.REST.MaxRetries
		if cfg.REST.RetryBackoff > 0 {
			restCfg.RetryBackoff = cfg.REST.RetryBackoff
		}
		p, err := catalog.NewRESTProvider(restCfg)
		if err != nil {
			return nil, fmt.Errorf("create rest catalog: %w", err)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// seedSQLCatalog replaces the SQL catalog with the document at path.
func seedSQLCatalog(p *catalog.SQLProvider, path string, timeout time.Duration) error {
	doc, err := catalog.ReadDocumentFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := p.Import(ctx, doc); err != nil {
		return fmt.Errorf("seed %s catalog: %w", p.Driver(), err)
	}
	return nil
}
