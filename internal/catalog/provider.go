// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package catalog loads the service, channel and mapping collections the
// recommendation engine scores against.
//
// A Provider fetches raw collections from one source:
//
//   - FileProvider: a YAML or JSON document on disk
//   - SQLProvider: SQLite (modernc.org/sqlite) or DuckDB tables
//   - RESTProvider: a PostgREST-style hosted backend
//
// The Loader validates what a provider returns, builds an immutable
// Snapshot with lookup indexes, caches it for a TTL and, when a Store is
// configured, persists it as the last known good catalog. If the source
// fails later the stored snapshot is served instead.
package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/streamcompare/internal/models"
)

// Source names used in configuration and metric labels.
const (
	SourceFile = "file"
	SourceSQL  = "sql"
	SourceREST = "rest"
)

// Collection names used in metric labels and log fields.
const (
	collectionServices = "services"
	collectionChannels = "channels"
	collectionMappings = "service_channels"
)

var (
	// ErrDuplicateService is returned when two services share an ID.
	ErrDuplicateService = errors.New("duplicate service id")

	// ErrDuplicateChannel is returned when two channels share an ID.
	ErrDuplicateChannel = errors.New("duplicate channel id")

	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrSnapshotNotFound is returned when no snapshot has been stored yet.
	ErrSnapshotNotFound = errors.New("catalog snapshot not found")

	// ErrUnknownService is returned for lookups of a service not in the snapshot.
	ErrUnknownService = errors.New("unknown service")
)

// Provider fetches catalog collections from a backing source.
type Provider interface {
	// Name identifies the source in logs and metrics.
	Name() string
	FetchServices(ctx context.Context) ([]models.Service, error)
	FetchChannels(ctx context.Context) ([]models.Channel, error)
	FetchServiceChannelMappings(ctx context.Context) ([]models.ServiceChannel, error)
}

// Document is the serialized form of a whole catalog. It is the format of
// catalog files and of snapshots persisted to the store.
type Document struct {
	Services []models.Service        `json:"services" yaml:"services"`
	Channels []models.Channel        `json:"channels" yaml:"channels"`
	Mappings []models.ServiceChannel `json:"service_channels" yaml:"service_channels"`
}
