// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // registers "duckdb"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/tomtom215/streamcompare/internal/models"
)

// Supported database/sql driver names.
const (
	DriverSQLite = "sqlite"
	DriverDuckDB = "duckdb"
)

// schemaStatements creates the catalog tables. The DDL is valid for both
// SQLite and DuckDB.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id            INTEGER PRIMARY KEY,
		name          TEXT NOT NULL,
		monthly_price DOUBLE NOT NULL,
		max_streams   INTEGER NOT NULL,
		has_ads       BOOLEAN NOT NULL DEFAULT FALSE,
		website_url   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS service_features (
		service_id INTEGER NOT NULL,
		position   INTEGER NOT NULL,
		feature    TEXT NOT NULL,
		PRIMARY KEY (service_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		category   TEXT,
		popularity DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS service_channels (
		service_id INTEGER NOT NULL,
		channel_id INTEGER NOT NULL
	)`,
}

// SQLProvider reads the catalog from relational tables through database/sql.
// Only SELECT statements are issued by the Fetch methods.
type SQLProvider struct {
	db     *sql.DB
	driver string
}

// NewSQLProvider opens a connection pool for driver ("sqlite" or "duckdb").
func NewSQLProvider(driver, dsn string) (*SQLProvider, error) {
	switch driver {
	case DriverSQLite, DriverDuckDB:
	default:
		return nil, fmt.Errorf("unsupported catalog sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", driver, err)
	}
	if driver == DriverSQLite {
		// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	return &SQLProvider{db: db, driver: driver}, nil
}

// Name implements Provider.
func (p *SQLProvider) Name() string {
	return SourceSQL
}

// Driver returns the database/sql driver name.
func (p *SQLProvider) Driver() string {
	return p.driver
}

// Ping verifies the database is reachable.
func (p *SQLProvider) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the connection pool.
func (p *SQLProvider) Close() error {
	return p.db.Close()
}

// FetchServices implements Provider. Features are joined from
// service_features in position order.
func (p *SQLProvider) FetchServices(ctx context.Context) ([]models.Service, error) {
	services, err := p.queryServices(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.attachFeatures(ctx, services); err != nil {
		return nil, err
	}
	return services, nil
}

func (p *SQLProvider) queryServices(ctx context.Context) ([]models.Service, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, monthly_price, max_streams, has_ads, COALESCE(website_url, '')
		FROM services
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer closeRows(rows)

	services := make([]models.Service, 0)
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.MonthlyPrice, &s.MaxStreams, &s.HasAds, &s.WebsiteURL); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

// attachFeatures runs after the services cursor is closed; the SQLite pool
// holds a single connection.
func (p *SQLProvider) attachFeatures(ctx context.Context, services []models.Service) error {
	index := make(map[int]int, len(services))
	for i := range services {
		index[services[i].ID] = i
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT service_id, feature
		FROM service_features
		ORDER BY service_id, position`)
	if err != nil {
		return fmt.Errorf("query service features: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var serviceID int
		var feature string
		if err := rows.Scan(&serviceID, &feature); err != nil {
			return fmt.Errorf("scan service feature: %w", err)
		}
		if i, ok := index[serviceID]; ok {
			services[i].Features = append(services[i].Features, feature)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate service features: %w", err)
	}
	return nil
}

// FetchChannels implements Provider.
func (p *SQLProvider) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(category, ''), COALESCE(popularity, 0)
		FROM channels
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer closeRows(rows)

	channels := make([]models.Channel, 0)
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Popularity); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}

// FetchServiceChannelMappings implements Provider.
func (p *SQLProvider) FetchServiceChannelMappings(ctx context.Context) ([]models.ServiceChannel, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT service_id, channel_id
		FROM service_channels
		ORDER BY service_id, channel_id`)
	if err != nil {
		return nil, fmt.Errorf("query service channels: %w", err)
	}
	defer closeRows(rows)

	mappings := make([]models.ServiceChannel, 0)
	for rows.Next() {
		var m models.ServiceChannel
		if err := rows.Scan(&m.ServiceID, &m.ChannelID); err != nil {
			return nil, fmt.Errorf("scan service channel: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service channels: %w", err)
	}
	return mappings, nil
}

// EnsureSchema creates the catalog tables if they do not exist.
func (p *SQLProvider) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create catalog schema: %w", err)
		}
	}
	return nil
}

// Import replaces the catalog tables with doc in a single transaction.
func (p *SQLProvider) Import(ctx context.Context, doc *Document) (err error) {
	if err := p.EnsureSchema(ctx); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // original error is returned
		}
	}()

	for _, table := range []string{"service_channels", "service_features", "channels", "services"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i := range doc.Services {
		s := &doc.Services[i]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO services (id, name, monthly_price, max_streams, has_ads, website_url) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.MonthlyPrice, s.MaxStreams, s.HasAds, s.WebsiteURL); err != nil {
			return fmt.Errorf("insert service %d: %w", s.ID, err)
		}
		for pos, feature := range s.Features {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO service_features (service_id, position, feature) VALUES (?, ?, ?)`,
				s.ID, pos, feature); err != nil {
				return fmt.Errorf("insert feature for service %d: %w", s.ID, err)
			}
		}
	}

	for _, c := range doc.Channels {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO channels (id, name, category, popularity) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Category, c.Popularity); err != nil {
			return fmt.Errorf("insert channel %d: %w", c.ID, err)
		}
	}

	for _, m := range doc.Mappings {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO service_channels (service_id, channel_id) VALUES (?, ?)`,
			m.ServiceID, m.ChannelID); err != nil {
			return fmt.Errorf("insert mapping %d/%d: %w", m.ServiceID, m.ChannelID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close() //nolint:errcheck // rows.Err is checked by callers
}
