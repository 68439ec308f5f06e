// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badgerstore wraps a BadgerDB instance used for service-local
// persistence (resolution result cache). The DB is embedded: no network
// call, no availability dependency.
package badgerstore

import (
	"context"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// DB is a thin wrapper around a BadgerDB handle that threads a context
// through transactions. The DB is expected to be a service-global
// singleton opened at startup and closed on shutdown.
//
// Thread Safety: Safe for concurrent use. BadgerDB transactions are
// per-goroutine.
type DB struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a BadgerDB at dir.
//
// Inputs:
//
//	dir    - Directory for the key-value store. Created if absent.
//	logger - Logger instance. Nil uses slog.Default().
//
// Outputs:
//
//	*DB   - Opened handle. Caller owns the lifecycle and must Close.
//	error - Non-nil on open failure (bad path, lock held).
func Open(dir string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is noisy; slog covers open/close

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	logger.Info("badger store opened", slog.String("dir", dir))
	return &DB{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying store.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// WithReadTxn runs fn inside a read-only transaction. Returns the
// context's error if it is already cancelled.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// WithTxn runs fn inside a read-write transaction.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.Update(fn)
}

// RunValueLogGC triggers one round of value-log garbage collection.
// Badger returns ErrNoRewrite when there is nothing to collect; callers
// treat that as success.
func (d *DB) RunValueLogGC(discardRatio float64) error {
	err := d.db.RunValueLogGC(discardRatio)
	if err == badger.ErrNoRewrite {
		return nil
	}
	return err
}
