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
	"sort"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// =============================================================================
// Vocabulary
// =============================================================================

// Vocabulary holds the canonical entity lists (titles, directors, actors)
// derived from the movie catalog. All lists are deduplicated and
// alphabetically sorted at construction; the derivation is pure and
// performs no I/O.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type Vocabulary struct {
	titles    []string
	directors []string
	actors    []string
}

// NewVocabulary derives the entity lists from the catalog.
func NewVocabulary(movies []dataset.Movie) *Vocabulary {
	titleSet := make(map[string]bool)
	directorSet := make(map[string]bool)
	actorSet := make(map[string]bool)

	for _, m := range movies {
		if m.Title != "" {
			titleSet[m.Title] = true
		}
		if m.Director != "" {
			directorSet[m.Director] = true
		}
		for _, star := range m.Stars {
			if star != "" {
				actorSet[star] = true
			}
		}
	}

	return &Vocabulary{
		titles:    sortedKeys(titleSet),
		directors: sortedKeys(directorSet),
		actors:    sortedKeys(actorSet),
	}
}

// Titles returns all movie titles, sorted.
func (v *Vocabulary) Titles() []string { return v.titles }

// Directors returns all director names, sorted.
func (v *Vocabulary) Directors() []string { return v.directors }

// Actors returns all actor names, sorted.
func (v *Vocabulary) Actors() []string { return v.actors }

// AllEntities returns titles, then directors, then actors.
func (v *Vocabulary) AllEntities() []string {
	out := make([]string, 0, len(v.titles)+len(v.directors)+len(v.actors))
	out = append(out, v.titles...)
	out = append(out, v.directors...)
	out = append(out, v.actors...)
	return out
}

// TitleCandidates returns the default candidate list for title resolution.
func (v *Vocabulary) TitleCandidates() []string { return v.titles }

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
