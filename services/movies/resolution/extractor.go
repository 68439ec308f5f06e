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
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// ExtractedEntity
// =============================================================================

// ExtractedEntity is one title-like span found in a query.
//
// Start and End are half-open byte offsets into the source query, and
// Text == query[Start:End] always holds for the query the entity was
// extracted from. The rewriter relies on this to splice replacements.
type ExtractedEntity struct {
	Text  string `json:"text"`
	Start int    `json:"start_pos"`
	End   int    `json:"end_pos"`
}

// =============================================================================
// EntityExtractor
// =============================================================================

var (
	// Inner span of single- or double-quoted text.
	quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)

	// Maximal runs of Title-Case words, allowing lowercase connectives
	// between them ("Lord of the Rings").
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+(?:(?:the|of|a|an|in|on|at|for|with|from)\s+)*[A-Z][a-z]+)*\b`)
)

// actionVerbs are imperative verbs that lead search queries ("Find Inception").
// A capitalized run starting with one of these has the verb stripped rather
// than included in the entity.
var actionVerbs = map[string]bool{
	"Find":      true,
	"Compare":   true,
	"Search":    true,
	"Show":      true,
	"List":      true,
	"Recommend": true,
	"Get":       true,
	"Give":      true,
}

// stopPhrases are capitalized runs that look like titles to the pattern but
// are interrogatives or filler, never worth resolving.
var stopPhrases = map[string]bool{
	"What":   true,
	"Which":  true,
	"Who":    true,
	"When":   true,
	"Where":  true,
	"Why":    true,
	"How":    true,
	"Please": true,
	"Tell":   true,
	"Movies": true,
	"Movie":  true,
}

// EntityExtractor pulls candidate movie-title spans out of free text.
//
// Description:
//
//	Two strategies run independently and their results are merged: quoted
//	spans (quotes stripped, offsets cover the inner text), and maximal
//	Title-Case word runs with embedded lowercase connectives. Leading
//	action verbs are stripped from capitalized runs. Candidates shorter
//	than three characters and named stop phrases are dropped.
//
//	Deduplication prefers the longest candidate (most specific phrase),
//	ties broken by leftmost position; a survivor's byte range never
//	overlaps another survivor's. Output is ordered by position ascending.
//
// Thread Safety: Stateless; safe for concurrent use.
type EntityExtractor struct{}

// NewEntityExtractor creates an EntityExtractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract returns the title-like spans of query, position-ordered.
// Empty or no-match input yields an empty list, never an error.
func (e *EntityExtractor) Extract(query string) []ExtractedEntity {
	var entities []ExtractedEntity
	entities = append(entities, e.extractQuoted(query)...)
	entities = append(entities, e.extractCapitalized(query)...)
	return dedupeEntities(entities)
}

func (e *EntityExtractor) extractQuoted(query string) []ExtractedEntity {
	var out []ExtractedEntity
	for _, m := range quotedPattern.FindAllStringSubmatchIndex(query, -1) {
		// m[2], m[3] bound the capture group inside the quotes.
		start, end := m[2], m[3]
		out = append(out, ExtractedEntity{
			Text:  query[start:end],
			Start: start,
			End:   end,
		})
	}
	return out
}

func (e *EntityExtractor) extractCapitalized(query string) []ExtractedEntity {
	var out []ExtractedEntity
	for _, m := range capitalizedPattern.FindAllStringIndex(query, -1) {
		start, end := m[0], m[1]
		text := query[start:end]
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}

		if actionVerbs[words[0]] {
			if len(words) == 1 {
				continue
			}
			// Drop the verb, keep the rest of the run as the entity.
			start += len(words[0])
			for start < end && (query[start] == ' ' || query[start] == '\t') {
				start++
			}
			text = query[start:end]
		}

		if stopPhrases[text] || len(text) < 3 {
			continue
		}

		out = append(out, ExtractedEntity{Text: text, Start: start, End: end})
	}
	return out
}

// dedupeEntities keeps the longest candidate per overlapping region.
//
// Candidates are visited longest-first (ties leftmost-first); one survives
// only if its lowercased text is unseen and its range does not overlap any
// already-kept range. Survivors are returned position-ascending.
func dedupeEntities(entities []ExtractedEntity) []ExtractedEntity {
	if len(entities) == 0 {
		return nil
	}

	ordered := make([]ExtractedEntity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i].Text) != len(ordered[j].Text) {
			return len(ordered[i].Text) > len(ordered[j].Text)
		}
		return ordered[i].Start < ordered[j].Start
	})

	seenText := make(map[string]bool)
	var kept []ExtractedEntity
	for _, ent := range ordered {
		key := strings.ToLower(strings.TrimSpace(ent.Text))
		if seenText[key] {
			continue
		}
		overlaps := false
		for _, k := range kept {
			if ent.Start < k.End && k.Start < ent.End {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		seenText[key] = true
		kept = append(kept, ent)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
