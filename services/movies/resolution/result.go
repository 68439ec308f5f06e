// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolution corrects typo'd and partially-remembered movie
// references in free-text queries before they reach the retrieval layer.
//
// The pipeline is: EntityExtractor pulls title-like spans out of a raw
// query, TitleResolver maps each span to a canonical vocabulary entry via
// an escalating matcher policy (exact first, fuzzy fallback), and
// QueryRewriter splices confident resolutions back into the query text.
package resolution

import (
	"errors"
	"fmt"
)

// =============================================================================
// Strategy
// =============================================================================

// Strategy identifies which matching approach produced a ResolutionResult.
type Strategy string

const (
	// StrategyExact means a case-insensitive, whitespace-trimmed equality hit.
	StrategyExact Strategy = "exact"

	// StrategyFuzzy means an approximate string-similarity hit.
	StrategyFuzzy Strategy = "fuzzy"

	// StrategyNone means no matcher produced a usable candidate.
	StrategyNone Strategy = "none"
)

// =============================================================================
// ResolutionResult
// =============================================================================

// ErrConfidenceRange is returned when a result is constructed with a
// confidence outside [0, 1]. Out-of-range values are a programming error
// and must fail fast rather than be silently clamped.
var ErrConfidenceRange = errors.New("confidence must be within [0, 1]")

// ResolutionResult is the immutable outcome of one resolution attempt.
//
// Description:
//
//	Canonical carries the authoritative spelling of the matched entity,
//	or "" when no match was found (Confidence 0, Strategy "none"). The
//	original query text is retained for explainability.
//
// Thread Safety: Immutable after construction; safe to share.
type ResolutionResult struct {
	Canonical     string   `json:"canonical_value"`
	Confidence    float64  `json:"confidence"`
	StrategyUsed  Strategy `json:"strategy_used"`
	OriginalQuery string   `json:"original_query"`
}

// NewResolutionResult constructs a validated ResolutionResult.
//
// Inputs:
//
//	canonical  - Matched vocabulary entry. Empty means no match.
//	confidence - Match confidence. Must be within [0, 1].
//	strategy   - Which matcher produced the result.
//	original   - The query text as received by the matcher.
//
// Outputs:
//
//	ResolutionResult - The constructed result.
//	error            - ErrConfidenceRange if confidence is out of range.
func NewResolutionResult(canonical string, confidence float64, strategy Strategy, original string) (ResolutionResult, error) {
	if confidence < 0 || confidence > 1 {
		return ResolutionResult{}, fmt.Errorf("%w: got %v", ErrConfidenceRange, confidence)
	}
	return ResolutionResult{
		Canonical:     canonical,
		Confidence:    confidence,
		StrategyUsed:  strategy,
		OriginalQuery: original,
	}, nil
}

// NoMatch returns the sentinel "nothing matched" result for a query.
// No-match is an expected outcome, not an error.
func NoMatch(original string) ResolutionResult {
	return ResolutionResult{
		Canonical:     "",
		Confidence:    0,
		StrategyUsed:  StrategyNone,
		OriginalQuery: original,
	}
}

// IsMatch reports whether the result carries a canonical value.
func (r ResolutionResult) IsMatch() bool {
	return r.Canonical != ""
}

// IsConfident reports whether the result meets the given acceptance
// threshold. A no-match result is never confident.
func (r ResolutionResult) IsConfident(threshold float64) bool {
	return r.IsMatch() && r.Confidence >= threshold
}
