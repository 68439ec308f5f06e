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

import "strings"

// =============================================================================
// Matcher
// =============================================================================

// Matcher resolves one query against a candidate list.
//
// Implementations never return errors: no-match conditions and internal
// scoring failures are expressed as a zero-confidence result, so callers
// branch on the result, not on error values.
type Matcher interface {
	// Resolve finds the best candidate for query. An empty candidate list
	// yields a no-match result.
	Resolve(query string, candidates []string) ResolutionResult

	// Name identifies the matcher for logging and metrics labels.
	Name() string
}

// =============================================================================
// ExactMatcher
// =============================================================================

// ExactMatcher performs case-insensitive, whitespace-trimmed equality
// matching. First strategy in the escalation order: O(n), deterministic,
// confidence 1.0 on hit.
//
// Thread Safety: Stateless; safe for concurrent use.
type ExactMatcher struct{}

// NewExactMatcher creates an ExactMatcher.
func NewExactMatcher() *ExactMatcher {
	return &ExactMatcher{}
}

// Name returns "exact".
func (m *ExactMatcher) Name() string { return string(StrategyExact) }

// Resolve scans candidates in order and returns the first whose trimmed,
// lowercased form equals the query's. The canonical value keeps the
// candidate's original casing.
func (m *ExactMatcher) Resolve(query string, candidates []string) ResolutionResult {
	normalized := strings.ToLower(strings.TrimSpace(query))

	for _, candidate := range candidates {
		if strings.ToLower(strings.TrimSpace(candidate)) == normalized {
			return ResolutionResult{
				Canonical:     candidate,
				Confidence:    1.0,
				StrategyUsed:  StrategyExact,
				OriginalQuery: query,
			}
		}
	}

	return ResolutionResult{
		Canonical:     "",
		Confidence:    0,
		StrategyUsed:  StrategyExact,
		OriginalQuery: query,
	}
}
