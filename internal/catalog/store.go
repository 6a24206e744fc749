// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Store persists the last known good snapshot.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Close() error
}

const snapshotKey = "catalog:snapshot:latest"

// storedSnapshot is the on-disk envelope of a snapshot.
type storedSnapshot struct {
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Document Document  `json:"document"`
}

// BadgerStore keeps the latest snapshot in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a store under dir. An empty dir
// opens an in-memory database.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger snapshot store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Save replaces the stored snapshot.
func (s *BadgerStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(storedSnapshot{
		Version:  snap.Version,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Document: snap.Document(),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// Load returns the stored snapshot or ErrSnapshotNotFound.
// The returned snapshot is marked Stale.
func (s *BadgerStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored storedSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}

	snap := NewSnapshot(stored.Document, stored.Source, stored.LoadedAt)
	snap.Stale = true
	return snap, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
