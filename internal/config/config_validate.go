// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "off":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	cat := &c.Catalog
	switch cat.Source {
	case "file":
		if cat.File == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case "sql":
		if cat.SQL.Driver != "sqlite" && cat.SQL.Driver != "duckdb" {
			return fmt.Errorf("CATALOG_SQL_DRIVER must be sqlite or duckdb, got %q", cat.SQL.Driver)
		}
		if cat.SQL.DSN == "" {
			return fmt.Errorf("CATALOG_SQL_DSN is required when CATALOG_SOURCE=sql")
		}
	case "rest":
		u, err := url.Parse(cat.REST.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("CATALOG_REST_URL must be an http(s) URL, got %q", cat.REST.URL)
		}
		if cat.REST.RequestsPerSecond < 0 || cat.REST.MaxRetries < 0 {
			return fmt.Errorf("catalog rest rate and retry settings must not be negative")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be file, sql or rest, got %q", cat.Source)
	}

	if cat.CacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be positive")
	}
	if cat.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative")
	}
	if cat.Breaker.Enabled && (cat.Breaker.FailureRatio <= 0 || cat.Breaker.FailureRatio > 1) {
		return fmt.Errorf("catalog breaker failure_ratio must be in (0, 1], got %f", cat.Breaker.FailureRatio)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.ResponseCacheTTL < 0 {
		return fmt.Errorf("API_RESPONSE_CACHE_TTL must not be negative")
	}
	if c.API.MaxRequestBodyBytes < 1024 {
		return fmt.Errorf("API_MAX_REQUEST_BODY_BYTES must be at least 1024, got %d", c.API.MaxRequestBodyBytes)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Server.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}
