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
	"strings"
)

// =============================================================================
// Similarity Scorers
// =============================================================================
//
// All scorers normalize both inputs (trim + lowercase) and return a
// similarity in [0, 1]. Ratio is indel-based: substitutions cost 2, so
// ratio(a, b) = 1 - indelDistance(a, b) / (len(a) + len(b)).

// ScoreFunc computes a similarity score in [0, 1] between two strings.
type ScoreFunc func(a, b string) float64

const (
	// ScorerRatio is plain whole-string similarity.
	ScorerRatio = "ratio"

	// ScorerPartialRatio scores the best alignment of the shorter string
	// against any equal-length window of the longer ("Matrix" vs
	// "The Matrix" scores 1.0).
	ScorerPartialRatio = "partial_ratio"

	// ScorerTokenSortRatio sorts whitespace tokens before comparing, making
	// the score insensitive to word order ("Rings of the Lord" vs
	// "Lord of the Rings").
	ScorerTokenSortRatio = "token_sort_ratio"
)

// scorerFor maps a scorer name to its implementation. Unknown names
// return nil.
func scorerFor(name string) ScoreFunc {
	switch name {
	case ScorerRatio:
		return Ratio
	case ScorerPartialRatio:
		return PartialRatio
	case ScorerTokenSortRatio:
		return TokenSortRatio
	default:
		return nil
	}
}

func normalizeForScore(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ratio returns whole-string similarity in [0, 1].
func Ratio(a, b string) float64 {
	return ratioNormalized(normalizeForScore(a), normalizeForScore(b))
}

func ratioNormalized(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 1.0 - float64(indelDistance(a, b))/float64(total)
}

// PartialRatio returns the best Ratio of the shorter string against any
// equal-length substring of the longer.
func PartialRatio(a, b string) float64 {
	shorter := normalizeForScore(a)
	longer := normalizeForScore(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 1.0
		}
		return 0.0
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		score := ratioNormalized(shorter, longer[i:i+len(shorter)])
		if score > best {
			best = score
		}
		if best == 1.0 {
			break
		}
	}
	return best
}

// TokenSortRatio sorts whitespace-delimited tokens in both strings before
// computing Ratio, discarding word-order differences.
func TokenSortRatio(a, b string) float64 {
	return ratioNormalized(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(normalizeForScore(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// indelDistance is the edit distance with insertions and deletions only
// (a substitution counts as delete + insert). Two-row rolling computation,
// same shape as the plain Levenshtein used for symbol lookup.
func indelDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min(prev[j]+1, curr[j-1]+1)
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
