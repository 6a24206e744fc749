// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/streamcompare/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamcompare/config.yaml",
	"/etc/streamcompare/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Source: "file",
			File:   "catalog.yaml",
			SQL: CatalogSQLConfig{
				Driver: "sqlite",
			},
			REST: CatalogRESTConfig{
				Timeout:           10 * time.Second,
				RequestsPerSecond: 5,
				Burst:             3,
				MaxRetries:        3,
				RetryBackoff:      time.Second,
			},
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
			CacheTTL:        5 * time.Minute,
			RetryInterval:   30 * time.Second,
			FetchTimeout:    30 * time.Second,
			RefreshInterval: 5 * time.Minute,
		},
		Recommend: *recommend.DefaultConfig(),
		API: APIConfig{
			ResponseCacheTTL:    time.Minute,
			MaxRequestBodyBytes: 64 << 10,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// sliceConfigPaths are fields that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.bundle_sizes",
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields splits comma-separated env values into slices.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog mappings
	"catalog_source":                   "catalog.source",
	"catalog_file":                     "catalog.file",
	"catalog_sql_driver":               "catalog.sql.driver",
	"catalog_sql_dsn":                  "catalog.sql.dsn",
	"catalog_sql_seed_file":            "catalog.sql.seed_file",
	"catalog_rest_url":                 "catalog.rest.url",
	"catalog_rest_api_key":             "catalog.rest.api_key",
	"catalog_rest_timeout":             "catalog.rest.timeout",
	"catalog_rest_requests_per_second": "catalog.rest.requests_per_second",
	"catalog_rest_burst":               "catalog.rest.burst",
	"catalog_rest_max_retries":         "catalog.rest.max_retries",
	"catalog_breaker_enabled":          "catalog.breaker.enabled",
	"catalog_breaker_timeout":          "catalog.breaker.timeout",
	"catalog_cache_ttl":                "catalog.cache_ttl",
	"catalog_retry_interval":           "catalog.retry_interval",
	"catalog_fetch_timeout":            "catalog.fetch_timeout",
	"catalog_refresh_interval":         "catalog.refresh_interval",
	"catalog_store_path":               "catalog.store_path",

	// Recommendation engine mappings
	"recommend_price_ceiling":         "recommend.price_ceiling",
	"recommend_max_streams_cap":       "recommend.max_streams_cap",
	"recommend_max_recommendations":   "recommend.max_recommendations",
	"recommend_max_bundle_candidates": "recommend.max_bundle_candidates",
	"recommend_bundle_sizes":          "recommend.bundle_sizes",
	"recommend_min_bundle_coverage":   "recommend.min_bundle_coverage",
	"recommend_max_bundles":           "recommend.max_bundles",
	"recommend_coverage_tie_band":     "recommend.coverage_tie_band",

	// API mappings
	"api_response_cache_ttl":     "api.response_cache_ttl",
	"api_max_request_body_bytes": "api.max_request_body_bytes",

	// Security mappings
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unmapped keys return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
