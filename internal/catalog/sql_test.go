// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newSQLiteProvider(t *testing.T) *SQLProvider {
	t.Helper()
	p, err := NewSQLProvider(DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLProvider: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestSQLProvider_ImportAndFetch(t *testing.T) {
	t.Parallel()

	p := newSQLiteProvider(t)
	ctx := context.Background()
	doc := sampleDocument()

	if err := p.Import(ctx, &doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	services, err := p.FetchServices(ctx)
	if err != nil {
		t.Fatalf("FetchServices: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("got %d services", len(services))
	}
	if services[0].ID != 1 || services[0].Name != "YouTube TV" {
		t.Errorf("first service = %+v", services[0])
	}
	if !reflect.DeepEqual(services[0].Features, []string{"Unlimited DVR", "4K"}) {
		t.Errorf("features = %v, want insertion order", services[0].Features)
	}
	if !services[1].HasAds || services[0].HasAds {
		t.Errorf("has_ads = %v/%v", services[0].HasAds, services[1].HasAds)
	}

	channels, err := p.FetchChannels(ctx)
	if err != nil {
		t.Fatalf("FetchChannels: %v", err)
	}
	if len(channels) != 4 || channels[0].Category != "Sports" || channels[0].Popularity != 9 {
		t.Errorf("channels = %+v", channels)
	}

	mappings, err := p.FetchServiceChannelMappings(ctx)
	if err != nil {
		t.Fatalf("FetchServiceChannelMappings: %v", err)
	}
	if len(mappings) != 6 || mappings[0].ServiceID != 1 || mappings[0].ChannelID != 10 {
		t.Errorf("mappings = %+v", mappings)
	}
}

func TestSQLProvider_ImportReplaces(t *testing.T) {
	t.Parallel()

	p := newSQLiteProvider(t)
	ctx := context.Background()
	doc := sampleDocument()
	if err := p.Import(ctx, &doc); err != nil {
		t.Fatal(err)
	}

	smaller := Document{Services: doc.Services[:1], Channels: doc.Channels[:1]}
	if err := p.Import(ctx, &smaller); err != nil {
		t.Fatal(err)
	}

	services, err := p.FetchServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 {
		t.Errorf("got %d services after re-import, want 1", len(services))
	}
	mappings, err := p.FetchServiceChannelMappings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(mappings) != 0 {
		t.Errorf("got %d mappings after re-import, want 0", len(mappings))
	}
}

func TestSQLProvider_NullableColumns(t *testing.T) {
	t.Parallel()

	p := newSQLiteProvider(t)
	ctx := context.Background()
	if err := p.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := p.db.ExecContext(ctx, `INSERT INTO channels (id, name) VALUES (1, 'Local')`); err != nil {
		t.Fatal(err)
	}

	channels, err := p.FetchChannels(ctx)
	if err != nil {
		t.Fatalf("FetchChannels: %v", err)
	}
	if len(channels) != 1 || channels[0].Category != "" || channels[0].Popularity != 0 {
		t.Errorf("channels = %+v", channels)
	}
}

func TestSQLProvider_MissingTables(t *testing.T) {
	t.Parallel()

	p := newSQLiteProvider(t)
	if _, err := p.FetchServices(context.Background()); err == nil {
		t.Error("want error when tables are missing")
	}
}

func TestNewSQLProvider_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLProvider("postgres", "x"); err == nil {
		t.Error("want error for unsupported driver")
	}
}
