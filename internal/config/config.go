// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package config loads application configuration with koanf.
//
// Sources are layered, later layers winning:
//
//  1. Defaults from defaultConfig()
//  2. An optional YAML file (CONFIG_PATH, then config.yaml, then /etc paths)
//  3. Environment variables mapped by envTransformFunc
//
// Only mapped environment variables are read, so unrelated variables in the
// process environment never leak into configuration.
package config

import (
	"time"

	"github.com/tomtom215/streamcompare/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Recommend recommend.Config `koanf:"recommend"`
	API       APIConfig        `koanf:"api"`
	Security  SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CatalogConfig selects and tunes the catalog source.
//
// Environment Variables:
//   - CATALOG_SOURCE: file, sql or rest (default: file)
//   - CATALOG_FILE: path to a YAML or JSON catalog document
//   - CATALOG_SQL_DRIVER / CATALOG_SQL_DSN: sqlite or duckdb connection
//   - CATALOG_SQL_SEED_FILE: document imported into the database at startup
//   - CATALOG_REST_URL / CATALOG_REST_API_KEY: hosted REST backend
//   - CATALOG_STORE_PATH: BadgerDB directory for the last good snapshot
type CatalogConfig struct {
	Source string `koanf:"source"`

	File string `koanf:"file"`

	SQL CatalogSQLConfig `koanf:"sql"`

	REST CatalogRESTConfig `koanf:"rest"`

	Breaker BreakerConfig `koanf:"breaker"`

	// CacheTTL is how long a loaded snapshot is served before re-reading the source
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RetryInterval is how long a fallback snapshot is served before retrying
	RetryInterval time.Duration `koanf:"retry_interval"`

	// FetchTimeout bounds a full catalog load
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RefreshInterval is how often the background service reloads the catalog.
	// Zero disables background refresh.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// StorePath is the BadgerDB directory for the last known good snapshot.
	// Empty disables persistence.
	StorePath string `koanf:"store_path"`
}

// CatalogSQLConfig configures the SQL catalog source.
type CatalogSQLConfig struct {
	Driver string `koanf:"driver"` // "sqlite" or "duckdb"
	DSN    string `koanf:"dsn"`

	// SeedFile, when set, is a catalog document imported into the database
	// at startup, replacing its contents.
	SeedFile string `koanf:"seed_file"`
}

// CatalogRESTConfig configures the REST catalog source.
type CatalogRESTConfig struct {
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBackoff      time.Duration `koanf:"retry_backoff"`
}

// BreakerConfig configures the circuit breaker around remote catalog sources.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// APIConfig holds response settings.
type APIConfig struct {
	// ResponseCacheTTL memoizes comparison responses per catalog version.
	// Zero disables the response cache.
	ResponseCacheTTL time.Duration `koanf:"response_cache_ttl"`

	// MaxRequestBodyBytes limits request bodies.
	MaxRequestBodyBytes int64 `koanf:"max_request_body_bytes"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
