// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolution

// =============================================================================
// ResultCacheStore — Resolution Persistence
// =============================================================================
//
// Resolving one entity is cheap, but the same 5000-title fuzzy scan repeats
// for every turn that mentions a popular misspelling. This store persists
// resolved results in BadgerDB between turns and service restarts.
//
// Storage layout:
//
//	resolution/result/v1/{vocabHash}/{queryHash}  →  gob-encoded ResolutionResult
//	                                                  TTL: 7 days
//
// The vocabulary hash covers every candidate title, so reloading a changed
// dataset silently invalidates all prior entries (they expire via TTL).

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/storage/badgerstore"
)

// resultCacheDefaultTTL is the default lifetime of a cached resolution.
// Long enough to cover a user's whole session history, short enough that
// entries for retired vocabulary hashes do not accumulate forever.
const resultCacheDefaultTTL = 7 * 24 * time.Hour

// resultCacheKeyPrefix is versioned (v1) to allow future format changes
// without collision.
const resultCacheKeyPrefix = "resolution/result/v1/"

// errCacheMiss distinguishes "key not found" from a genuine storage error.
var errCacheMiss = errors.New("cache miss")

// ResultCacheStore persists resolution results keyed by vocabulary hash
// and query.
//
// # Description
//
// Both methods are nil-safe at the call site: TitleResolver checks for a
// nil store and skips persistence, operating in compute-only mode. That is
// the correct behavior for tests and for deployments without a cache
// directory configured.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type ResultCacheStore interface {
	// Load retrieves a cached result for (vocabHash, query).
	//
	// Returns (nil, nil) on cache miss (key absent or TTL expired).
	// Returns (nil, error) on storage failure.
	Load(ctx context.Context, vocabHash, query string) (*ResolutionResult, error)

	// Save persists a result for (vocabHash, query). The store applies its
	// TTL automatically. Persistence failure is non-fatal: the caller logs
	// and continues, and the result is recomputed next time.
	Save(ctx context.Context, vocabHash, query string, result ResolutionResult) error
}

// =============================================================================
// BadgerResultCacheStore
// =============================================================================

// BadgerResultCacheStore implements ResultCacheStore backed by the
// service-global BadgerDB instance.
//
// # Thread Safety
//
// Safe for concurrent use.
type BadgerResultCacheStore struct {
	db     *badgerstore.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewBadgerResultCacheStore creates a store backed by the given DB.
// The caller owns the DB lifecycle; this store does not close it.
//
// Inputs:
//
//	db     - Opened BadgerDB wrapper. Must not be nil.
//	ttl    - Lifetime per entry. Pass 0 for the default (7 days).
//	logger - Logger for hit/miss diagnostics. May be nil.
func NewBadgerResultCacheStore(db *badgerstore.DB, ttl time.Duration, logger *slog.Logger) *BadgerResultCacheStore {
	if db == nil {
		panic("NewBadgerResultCacheStore: db must not be nil")
	}
	if ttl <= 0 {
		ttl = resultCacheDefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerResultCacheStore{db: db, ttl: ttl, logger: logger}
}

// Load retrieves a cached resolution result. Returns (nil, nil) on miss.
func (s *BadgerResultCacheStore) Load(ctx context.Context, vocabHash, query string) (*ResolutionResult, error) {
	key := resultCacheKey(vocabHash, query)

	var raw []byte
	err := s.db.WithReadTxn(ctx, func(txn *dgbadger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return errCacheMiss
		}
		if err != nil {
			return fmt.Errorf("get cache key: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("copy value: %w", err)
		}
		return nil
	})

	if errors.Is(err, errCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolution cache load: %w", err)
	}

	var result ResolutionResult
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&result); err != nil {
		return nil, fmt.Errorf("resolution cache decode: %w", err)
	}

	s.logger.Debug("resolution cache: hit",
		slog.String("query", query),
		slog.String("canonical", result.Canonical),
	)
	return &result, nil
}

// Save persists a resolution result with the configured TTL.
func (s *BadgerResultCacheStore) Save(ctx context.Context, vocabHash, query string, result ResolutionResult) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(result); err != nil {
		return fmt.Errorf("resolution cache encode: %w", err)
	}

	key := resultCacheKey(vocabHash, query)
	err := s.db.WithTxn(ctx, func(txn *dgbadger.Txn) error {
		entry := dgbadger.NewEntry(key, buf.Bytes()).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("resolution cache save: %w", err)
	}
	return nil
}

func resultCacheKey(vocabHash, query string) []byte {
	qh := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return []byte(resultCacheKeyPrefix + vocabHash + "/" + hex.EncodeToString(qh[:]))
}

// HashCandidates produces the vocabulary fingerprint used in cache keys.
// Candidates are hashed in the order given; the vocabulary's lists are
// already sorted, so equal vocabularies produce equal hashes.
func HashCandidates(candidates []string) string {
	h := sha256.New()
	for _, c := range candidates {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
