// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/cache"
	"github.com/tomtom215/streamcompare/internal/metrics"
	"github.com/tomtom215/streamcompare/internal/models"
	"github.com/tomtom215/streamcompare/internal/validation"
)

const snapshotCacheKey = "snapshot"

// LoaderConfig controls snapshot caching.
type LoaderConfig struct {
	// TTL is how long a fresh snapshot is served before the source is read again
	TTL time.Duration

	// RetryInterval is how long a fallback snapshot is served before the
	// source is retried
	RetryInterval time.Duration

	// FetchTimeout bounds one full load from the source
	FetchTimeout time.Duration
}

// DefaultLoaderConfig returns the loader defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		TTL:           5 * time.Minute,
		RetryInterval: 30 * time.Second,
		FetchTimeout:  30 * time.Second,
	}
}

// BuildReport counts records dropped while building a snapshot.
type BuildReport struct {
	DuplicateMappings int
	DanglingMappings  int
}

// Loader turns provider output into validated snapshots.
// It is safe for concurrent use; concurrent misses share one fetch.
type Loader struct {
	provider Provider
	store    Store
	cfg      LoaderConfig
	cache    *cache.Cache[*Snapshot]
	logger   zerolog.Logger
	now      func() time.Time

	refreshMu sync.Mutex

	mu      sync.RWMutex
	current *Snapshot
}

// NewLoader creates a loader. store may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(provider Provider, store Store, cfg LoaderConfig, logger zerolog.Logger) *Loader {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultLoaderConfig().TTL
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultLoaderConfig().RetryInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultLoaderConfig().FetchTimeout
	}
	return &Loader{
		provider: provider,
		store:    store,
		cfg:      cfg,
		cache:    cache.New[*Snapshot](cfg.TTL),
		logger:   logger.With().Str("component", "catalog_loader").Str("source", provider.Name()).Logger(),
		now:      time.Now,
	}
}

// Snapshot returns the cached snapshot, loading it when the cache is empty
// or expired.
func (l *Loader) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap, ok := l.cache.Get(snapshotCacheKey); ok {
		metrics.RecordCacheLookup("catalog", true)
		return snap, nil
	}
	metrics.RecordCacheLookup("catalog", false)

	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	// Another caller may have loaded while we waited.
	if snap, ok := l.cache.Get(snapshotCacheKey); ok {
		return snap, nil
	}
	return l.refreshLocked(ctx)
}

// Refresh reads the source now, regardless of the cache.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()
	return l.refreshLocked(ctx)
}

// Current returns the most recently loaded snapshot without touching the
// source, or nil before the first load.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// CacheStats exposes the snapshot cache counters.
func (l *Loader) CacheStats() cache.Stats {
	return l.cache.Stats()
}

func (l *Loader) refreshLocked(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	defer cancel()

	start := l.now()
	snap, report, err := l.load(ctx)
	if err != nil {
		return l.fallback(ctx, err)
	}

	metrics.RecordCatalogDropped("duplicate_mapping", report.DuplicateMappings)
	metrics.RecordCatalogDropped("dangling_mapping", report.DanglingMappings)
	metrics.UpdateCatalogSnapshot(len(snap.services), len(snap.channels), len(snap.mappings), snap.LoadedAt)

	l.cache.Set(snapshotCacheKey, snap)
	l.setCurrent(snap)

	if l.store != nil {
		if err := l.store.Save(ctx, snap); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist catalog snapshot")
		}
	}

	l.logger.Info().
		Str("version", snap.Version).
		Int("services", len(snap.services)).
		Int("channels", len(snap.channels)).
		Int("mappings", len(snap.mappings)).
		Int("duplicate_mappings", report.DuplicateMappings).
		Int("dangling_mappings", report.DanglingMappings).
		Dur("duration", l.now().Sub(start)).
		Msg("catalog snapshot loaded")

	return snap, nil
}

func (l *Loader) load(ctx context.Context) (*Snapshot, BuildReport, error) {
	source := l.provider.Name()

	t := l.now()
	services, err := l.provider.FetchServices(ctx)
	metrics.RecordCatalogFetch(source, collectionServices, l.now().Sub(t), err)
	if err != nil {
		return nil, BuildReport{}, fmt.Errorf("fetch services: %w", err)
	}

	t = l.now()
	channels, err := l.provider.FetchChannels(ctx)
	metrics.RecordCatalogFetch(source, collectionChannels, l.now().Sub(t), err)
	if err != nil {
		return nil, BuildReport{}, fmt.Errorf("fetch channels: %w", err)
	}

	t = l.now()
	mappings, err := l.provider.FetchServiceChannelMappings(ctx)
	metrics.RecordCatalogFetch(source, collectionMappings, l.now().Sub(t), err)
	if err != nil {
		return nil, BuildReport{}, fmt.Errorf("fetch service channels: %w", err)
	}

	doc, report, err := BuildDocument(services, channels, mappings)
	if err != nil {
		return nil, report, err
	}
	return NewSnapshot(doc, source, l.now()), report, nil
}

// fallback serves the last good snapshot after a failed load. The
// in-memory copy is preferred over the store.
func (l *Loader) fallback(ctx context.Context, cause error) (*Snapshot, error) {
	var stale *Snapshot
	if cur := l.Current(); cur != nil {
		cp := *cur
		cp.Stale = true
		stale = &cp
	} else if l.store != nil {
		stored, err := l.store.Load(context.WithoutCancel(ctx))
		switch {
		case err == nil:
			stale = stored
			l.setCurrent(stored)
		case !errors.Is(err, ErrSnapshotNotFound):
			l.logger.Warn().Err(err).Msg("failed to read stored catalog snapshot")
		}
	}

	if stale == nil {
		l.logger.Error().Err(cause).Msg("catalog load failed and no snapshot is available")
		return nil, fmt.Errorf("load catalog: %w", cause)
	}

	metrics.CatalogFallbacks.Inc()
	l.cache.SetWithTTL(snapshotCacheKey, stale, l.cfg.RetryInterval)
	l.logger.Warn().
		Err(cause).
		Str("version", stale.Version).
		Time("loaded_at", stale.LoadedAt).
		Msg("catalog source failed, serving last known good snapshot")
	return stale, nil
}

func (l *Loader) setCurrent(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = snap
}

// BuildDocument validates raw collections and assembles a Document.
// Invalid records and duplicate service or channel IDs are errors.
// Repeated mappings, and mappings that reference an unknown service or
// channel, are dropped and counted in the report.
func BuildDocument(services []models.Service, channels []models.Channel, mappings []models.ServiceChannel) (Document, BuildReport, error) {
	var report BuildReport
	v := validation.GetValidator()

	serviceIDs := make(map[int]struct{}, len(services))
	for i := range services {
		s := &services[i]
		if err := v.Struct(s); err != nil {
			return Document{}, report, fmt.Errorf("%w: service %d: %v", ErrInvalidRecord, s.ID, err)
		}
		if _, dup := serviceIDs[s.ID]; dup {
			return Document{}, report, fmt.Errorf("%w: %d", ErrDuplicateService, s.ID)
		}
		serviceIDs[s.ID] = struct{}{}
	}

	channelIDs := make(map[int]struct{}, len(channels))
	for i := range channels {
		c := &channels[i]
		if err := v.Struct(c); err != nil {
			return Document{}, report, fmt.Errorf("%w: channel %d: %v", ErrInvalidRecord, c.ID, err)
		}
		if _, dup := channelIDs[c.ID]; dup {
			return Document{}, report, fmt.Errorf("%w: %d", ErrDuplicateChannel, c.ID)
		}
		channelIDs[c.ID] = struct{}{}
	}

	kept := make([]models.ServiceChannel, 0, len(mappings))
	seen := make(map[models.ServiceChannel]struct{}, len(mappings))
	for _, m := range mappings {
		if err := v.Struct(&m); err != nil {
			return Document{}, report, fmt.Errorf("%w: mapping %d/%d: %v", ErrInvalidRecord, m.ServiceID, m.ChannelID, err)
		}
		if _, dup := seen[m]; dup {
			report.DuplicateMappings++
			continue
		}
		seen[m] = struct{}{}
		_, okService := serviceIDs[m.ServiceID]
		_, okChannel := channelIDs[m.ChannelID]
		if !okService || !okChannel {
			report.DanglingMappings++
			continue
		}
		kept = append(kept, m)
	}

	return Document{Services: services, Channels: channels, Mappings: kept}, report, nil
}
