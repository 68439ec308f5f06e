// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import (
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Store Tests
// =============================================================================

type counterState struct{ n int }

func TestStore_GetOrCreate(t *testing.T) {
	created := 0
	store := NewStore(func() *counterState {
		created++
		return &counterState{}
	})

	a := store.GetOrCreate("alpha")
	a.n = 7
	b := store.GetOrCreate("alpha")
	if a != b {
		t.Error("same session id must return the same state")
	}
	if b.n != 7 {
		t.Errorf("state mutation lost: n = %d, want 7", b.n)
	}
	if created != 1 {
		t.Errorf("factory ran %d times for one session, want 1", created)
	}

	store.GetOrCreate("beta")
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestStore_Get(t *testing.T) {
	store := NewStore[counterState](nil)

	if _, ok := store.Get("missing"); ok {
		t.Error("Get must not create sessions")
	}
	store.GetOrCreate("alpha")
	if _, ok := store.Get("alpha"); !ok {
		t.Error("expected existing session")
	}
}

func TestStore_ClearAndClearAll(t *testing.T) {
	store := NewStore[counterState](nil)
	store.GetOrCreate("alpha").n = 1
	store.GetOrCreate("beta").n = 2

	store.Clear("alpha")
	if _, ok := store.Get("alpha"); ok {
		t.Error("cleared session still present")
	}
	if store.GetOrCreate("alpha").n != 0 {
		t.Error("recreated session must start fresh")
	}

	store.ClearAll()
	if store.Len() != 0 {
		t.Errorf("Len after ClearAll = %d, want 0", store.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore[counterState](nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.GetOrCreate("shared")
			store.GetOrCreate("other")
			store.Len()
		}()
	}
	wg.Wait()

	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

// =============================================================================
// Conversation Memory Tests
// =============================================================================

func TestConversationMemory_FIFOEviction(t *testing.T) {
	m := NewConversationMemory(3)
	for _, msg := range []string{"one", "two", "three", "four"} {
		m.Record(msg, "ack "+msg)
	}

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3 after eviction", m.Len())
	}
	turns := m.RecentTurns(3)
	if turns[0].UserMessage != "two" || turns[2].UserMessage != "four" {
		t.Errorf("expected oldest turn evicted, got %+v", turns)
	}
}

func TestConversationMemory_History(t *testing.T) {
	m := NewConversationMemory(0) // default cap
	if m.History() != "" {
		t.Error("empty memory must render an empty history")
	}

	m.Record("recommend a thriller", "Try Inception.")
	history := m.History()
	if !strings.Contains(history, "User: recommend a thriller") {
		t.Errorf("history = %q, missing user line", history)
	}
	if !strings.Contains(history, "Assistant: Try Inception.") {
		t.Errorf("history = %q, missing assistant line", history)
	}

	m.Clear()
	if m.Len() != 0 || m.History() != "" {
		t.Error("Clear must empty the buffer")
	}
}

func TestConversationMemory_RecentTurns(t *testing.T) {
	m := NewConversationMemory(5)
	m.Record("a", "")
	m.Record("b", "")

	if got := m.RecentTurns(1); len(got) != 1 || got[0].UserMessage != "b" {
		t.Errorf("RecentTurns(1) = %+v, want just the last turn", got)
	}
	if got := m.RecentTurns(10); len(got) != 2 {
		t.Errorf("RecentTurns over capacity = %d turns, want 2", len(got))
	}
	if m.RecentTurns(0) != nil {
		t.Error("RecentTurns(0) must be nil")
	}
}

// =============================================================================
// Poster Context Tests
// =============================================================================

func TestContext_PosterLifecycle(t *testing.T) {
	var c Context
	if c.HasPoster() {
		t.Error("fresh context must have no poster")
	}

	c.SetPoster(&PosterContext{
		Caption:        "a man in a spinning hallway",
		Title:          "Inception",
		Mood:           "tense",
		Confidence:     0.82,
		InferredGenres: []string{"Sci-Fi", "Thriller"},
	})
	if !c.HasPoster() || !c.Poster().HasTitle() {
		t.Error("poster with title not remembered")
	}

	c.ClearPoster()
	if c.HasPoster() || c.Poster() != nil {
		t.Error("ClearPoster must forget the analysis")
	}
}

func TestPosterContext_HasTitle(t *testing.T) {
	if (&PosterContext{Title: "  "}).HasTitle() {
		t.Error("whitespace title does not count")
	}
	var nilPoster *PosterContext
	if nilPoster.HasTitle() {
		t.Error("nil poster has no title")
	}
}
