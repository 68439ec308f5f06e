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

import (
	"context"
	"testing"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

func newTestRewriter(t *testing.T) *QueryRewriter {
	t.Helper()
	resolver, err := NewTitleResolver(testVocabulary(), 0.75, 0.75, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewQueryRewriter(nil, resolver, true, nil)
}

// =============================================================================
// QueryRewriter Tests
// =============================================================================

func TestQueryRewriter_ReverseOrderSplice(t *testing.T) {
	vocab := NewVocabulary([]dataset.Movie{{Title: "Matrix"}, {Title: "Inception"}})
	resolver, err := NewTitleResolver(vocab, 0.75, 0.75, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := NewQueryRewriter(nil, resolver, true, nil)

	// Two entities: the left one resolves exactly (same length, no shift)
	// and the right one fuzzy-resolves to a different-length canonical
	// value. If splicing ran left-to-right with stale offsets, the second
	// replacement would land in the wrong place.
	rewritten, meta := w.ResolveQuery(context.Background(), "find Matrix and compare to Inceptoin")

	if rewritten != "find Matrix and compare to Inception" {
		t.Errorf("rewritten = %q, want %q", rewritten, "find Matrix and compare to Inception")
	}
	if meta.ResolvedQuery != rewritten {
		t.Errorf("metadata resolved_query = %q, want %q", meta.ResolvedQuery, rewritten)
	}
	if len(meta.EntitiesResolved) == 0 {
		t.Fatal("expected resolved entity records")
	}
	last := meta.EntitiesResolved[len(meta.EntitiesResolved)-1]
	if last.Original != "Inceptoin" || last.Resolved != "Inception" {
		t.Errorf("expected Inceptoin->Inception record, got %+v", last)
	}
}

func TestQueryRewriter_LengthChangingSplices(t *testing.T) {
	resolver, _ := NewTitleResolver(testVocabulary(), 0.6, 0.6, nil, nil)
	w := NewQueryRewriter(nil, resolver, true, nil)

	// Both entities change length when canonicalized. Offsets for the
	// left entity must still be valid after the right splice.
	rewritten, meta := w.ResolveQuery(context.Background(), `compare "Inceptoin" with "Matrxi"`)

	if rewritten != `compare "Inception" with "The Matrix"` {
		t.Errorf("rewritten = %q", rewritten)
	}
	if len(meta.EntitiesResolved) != 2 {
		t.Fatalf("expected 2 resolved entities, got %+v", meta.EntitiesResolved)
	}
	if meta.EntitiesResolved[0].Original != "Inceptoin" {
		t.Errorf("records must read left-to-right, got %+v", meta.EntitiesResolved)
	}
}

func TestQueryRewriter_WeakestLinkConfidence(t *testing.T) {
	resolver, _ := NewTitleResolver(testVocabulary(), 0.6, 0.6, nil, nil)
	w := NewQueryRewriter(nil, resolver, true, nil)

	_, meta := w.ResolveQuery(context.Background(), `compare "Inception" with "Inceptoin"`)

	if len(meta.EntitiesResolved) != 2 {
		t.Fatalf("expected 2 resolved entities, got %+v", meta.EntitiesResolved)
	}
	min := meta.EntitiesResolved[0].Confidence
	for _, ent := range meta.EntitiesResolved {
		if ent.Confidence < min {
			min = ent.Confidence
		}
	}
	if meta.Confidence != min {
		t.Errorf("aggregate confidence = %v, want minimum %v", meta.Confidence, min)
	}
	if meta.Confidence >= 1.0 {
		t.Error("weakest link must be the fuzzy entity, not the exact one")
	}
}

func TestQueryRewriter_NoEntitiesUnchanged(t *testing.T) {
	w := newTestRewriter(t)

	query := "recommend something funny"
	rewritten, meta := w.ResolveQuery(context.Background(), query)
	if rewritten != query {
		t.Errorf("rewritten = %q, want unchanged %q", rewritten, query)
	}
	if meta.Changed() {
		t.Error("metadata must report no change")
	}
	if len(meta.EntitiesResolved) != 0 {
		t.Errorf("expected no entity records, got %+v", meta.EntitiesResolved)
	}
}

func TestQueryRewriter_LowConfidenceUnchanged(t *testing.T) {
	w := newTestRewriter(t)

	query := `find "Zzyzx Road" for me`
	rewritten, _ := w.ResolveQuery(context.Background(), query)
	if rewritten != query {
		t.Errorf("low-confidence entity must not be spliced, got %q", rewritten)
	}
}

func TestQueryRewriter_ExtractionDisabled_WholeQuery(t *testing.T) {
	resolver, _ := NewTitleResolver(testVocabulary(), 0.75, 0.75, nil, nil)
	w := NewQueryRewriter(nil, resolver, false, nil)

	rewritten, meta := w.ResolveQuery(context.Background(), "inceptoin")
	if rewritten != "Inception" {
		t.Errorf("whole-query fallback: got %q, want Inception", rewritten)
	}
	if meta.Strategy != StrategyFuzzy {
		t.Errorf("expected fuzzy strategy, got %q", meta.Strategy)
	}
}
