// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/cache"
	"github.com/tomtom215/streamcompare/internal/catalog"
	"github.com/tomtom215/streamcompare/internal/recommend"
)

// CatalogSource supplies catalog snapshots to the handlers.
// *catalog.Loader implements it.
type CatalogSource interface {
	// Snapshot returns the current snapshot, loading it if needed.
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)

	// Current returns the last loaded snapshot without triggering a load.
	Current() *catalog.Snapshot
}

// HandlerConfig configures the API handlers.
type HandlerConfig struct {
	// ResponseCacheTTL is how long comparison responses are memoized.
	// Zero disables the response cache.
	ResponseCacheTTL time.Duration

	// SnapshotTimeout bounds how long a request waits for a catalog load.
	SnapshotTimeout time.Duration
}

// DefaultHandlerConfig returns the default handler configuration.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		ResponseCacheTTL: time.Minute,
		SnapshotTimeout:  10 * time.Second,
	}
}

// Handler serves the comparison, catalog and health endpoints.
type Handler struct {
	engine    *recommend.Engine
	catalog   CatalogSource
	responses *cache.Cache[*recommend.Response]
	config    HandlerConfig
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, source CatalogSource, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	h := &Handler{
		engine:    engine,
		catalog:   source,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
	if cfg.ResponseCacheTTL > 0 {
		h.responses = cache.New[*recommend.Response](cfg.ResponseCacheTTL)
	}
	return h
}

// CleanupCache drops expired cached responses and returns how many were removed.
func (h *Handler) CleanupCache() int {
	if h.responses == nil {
		return 0
	}
	return h.responses.Cleanup()
}

// CacheStats returns response cache statistics.
func (h *Handler) CacheStats() cache.Stats {
	if h.responses == nil {
		return cache.Stats{}
	}
	return h.responses.Stats()
}

// snapshot loads the catalog snapshot within the configured timeout.
func (h *Handler) snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	if h.config.SnapshotTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.SnapshotTimeout)
		defer cancel()
	}
	return h.catalog.Snapshot(ctx)
}

// catalogMeta describes the snapshot a response was computed from.
func catalogMeta(snap *catalog.Snapshot) *APIMeta {
	return &APIMeta{
		CatalogVersion: snap.Version,
		CatalogStale:   snap.Stale,
	}
}
