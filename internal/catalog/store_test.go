// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBadgerStore_SaveLoad(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if _, err := store.Load(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Load on empty store = %v, want ErrSnapshotNotFound", err)
	}

	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot(sampleDocument(), SourceREST, loadedAt)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != snap.Version {
		t.Errorf("version = %q, want %q", got.Version, snap.Version)
	}
	if got.Source != SourceREST || !got.LoadedAt.Equal(loadedAt) {
		t.Errorf("metadata = %s %v", got.Source, got.LoadedAt)
	}
	if !got.Stale {
		t.Error("loaded snapshot not marked stale")
	}
	if len(got.ChannelsForService(1)) != 3 {
		t.Error("indexes not rebuilt on load")
	}
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, NewSnapshot(sampleDocument(), SourceSQL, time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(got.Services()) != 3 {
		t.Errorf("got %d services", len(got.Services()))
	}
}

func TestBadgerStore_InMemory(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore(\"\"): %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(context.Background(), NewSnapshot(sampleDocument(), SourceFile, time.Now())); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
}
