// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/catalog"
)

// CatalogRefresher reloads the catalog snapshot. *catalog.Loader implements it.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// CacheCleaner drops expired cache entries. *api.Handler implements it.
type CacheCleaner interface {
	CleanupCache() int
}

// CatalogRefreshConfig holds configuration for the refresh service.
type CatalogRefreshConfig struct {
	// WarmOnStartup loads the catalog as soon as the service starts.
	WarmOnStartup bool

	// RefreshInterval is how often the catalog is reloaded.
	// Default: 5m
	RefreshInterval time.Duration

	// CleanupInterval is how often expired responses are pruned.
	// Default: 1m
	CleanupInterval time.Duration

	// RefreshTimeout bounds one reload.
	// Default: 1m
	RefreshTimeout time.Duration
}

// CatalogRefreshService keeps the catalog snapshot warm so requests rarely
// pay for a load, and prunes the response cache.
type CatalogRefreshService struct {
	refresher CatalogRefresher
	cleaner   CacheCleaner
	config    CatalogRefreshConfig
	logger    zerolog.Logger
}

// NewCatalogRefreshService creates the service. cleaner may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogRefreshService(refresher CatalogRefresher, cleaner CacheCleaner, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = time.Minute
	}
	return &CatalogRefreshService{
		refresher: refresher,
		cleaner:   cleaner,
		config:    cfg,
		logger:    logger.With().Str("service", "catalog-refresh").Logger(),
	}
}

// Serve implements suture.Service. Refresh failures are logged and retried
// on the next tick; the loader keeps serving its fallback meanwhile.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Dur("cleanup_interval", s.config.CleanupInterval).
		Msg("catalog refresh service starting")

	if s.config.WarmOnStartup {
		s.refresh(ctx)
	}

	refreshTicker := time.NewTicker(s.config.RefreshInterval)
	defer refreshTicker.Stop()
	cleanupTicker := time.NewTicker(s.config.CleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()

		case <-refreshTicker.C:
			s.refresh(ctx)

		case <-cleanupTicker.C:
			if s.cleaner == nil {
				continue
			}
			if removed := s.cleaner.CleanupCache(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("expired responses pruned")
			}
		}
	}
}

func (s *CatalogRefreshService) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("catalog refresh failed")
		return
	}

	event := s.logger.Debug()
	if snap.Stale {
		event = s.logger.Warn()
	}
	event.
		Str("version", snap.Version).
		Str("source", snap.Source).
		Bool("stale", snap.Stale).
		Int("services", len(snap.Services())).
		Dur("duration", time.Since(start)).
		Msg("catalog refreshed")
}

// String identifies the service in supervisor logs.
func (s *CatalogRefreshService) String() string {
	return "catalog-refresh"
}
