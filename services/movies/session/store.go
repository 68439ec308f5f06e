// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session holds per-conversation state: quiz state, conversation
// memory, and poster context, each keyed by session id.
package session

import "sync"

// Store is a concurrency-safe map of session id to state value. The
// factory runs at most once per session id.
//
// Thread Safety: Safe for concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]*T
	factory func() *T
}

// NewStore creates a Store backed by factory. A nil factory allocates
// zero values.
func NewStore[T any](factory func() *T) *Store[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &Store[T]{
		entries: make(map[string]*T),
		factory: factory,
	}
}

// GetOrCreate returns the state for sessionID, creating it on first use.
func (s *Store[T]) GetOrCreate(sessionID string) *T {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[sessionID]; ok {
		return entry
	}
	entry = s.factory()
	s.entries[sessionID] = entry
	return entry
}

// Get returns the state for sessionID without creating it.
func (s *Store[T]) Get(sessionID string) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[sessionID]
	return entry, ok
}

// Clear removes the state for sessionID.
func (s *Store[T]) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// ClearAll removes all sessions.
func (s *Store[T]) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*T)
}

// Len returns the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
