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
	"fmt"
	"log/slog"
)

// =============================================================================
// FuzzyMatcher
// =============================================================================

// defaultFuzzyThreshold rejects matches below 75% similarity. High enough
// to avoid mapping unrelated titles onto each other, low enough to absorb
// one or two character typos in a typical title.
const defaultFuzzyThreshold = 0.75

// FuzzyMatcher finds the best approximate match via a best-of-all-candidates
// scan with a configurable similarity scorer.
//
// Description:
//
//	Handles typos ("Inceptoin" -> "Inception"), partial phrases
//	(partial_ratio), and word-order variation (token_sort_ratio). The best
//	candidate is returned only when its score meets the threshold; an empty
//	candidate list or a scorer failure yields a no-match result, never an
//	error.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type FuzzyMatcher struct {
	threshold  float64
	scorer     ScoreFunc
	scorerName string
	logger     *slog.Logger
}

// NewFuzzyMatcher creates a FuzzyMatcher.
//
// Inputs:
//
//	threshold  - Minimum similarity to accept, within [0, 1].
//	scorerName - One of ScorerRatio, ScorerPartialRatio, ScorerTokenSortRatio.
//	logger     - Logger instance. Nil uses slog.Default().
//
// Outputs:
//
//	*FuzzyMatcher - The constructed matcher.
//	error         - Non-nil on out-of-range threshold or unknown scorer name.
func NewFuzzyMatcher(threshold float64, scorerName string, logger *slog.Logger) (*FuzzyMatcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("fuzzy threshold must be within [0, 1], got %v", threshold)
	}
	if scorerName == "" {
		scorerName = ScorerRatio
	}
	scorer := scorerFor(scorerName)
	if scorer == nil {
		return nil, fmt.Errorf("unknown fuzzy scorer %q", scorerName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FuzzyMatcher{
		threshold:  threshold,
		scorer:     scorer,
		scorerName: scorerName,
		logger:     logger,
	}, nil
}

// Name returns "fuzzy".
func (m *FuzzyMatcher) Name() string { return string(StrategyFuzzy) }

// Resolve scans all candidates and returns the single best-scoring one,
// provided its score meets the threshold. Ties keep the earlier candidate.
func (m *FuzzyMatcher) Resolve(query string, candidates []string) ResolutionResult {
	noMatch := ResolutionResult{
		Canonical:     "",
		Confidence:    0,
		StrategyUsed:  StrategyFuzzy,
		OriginalQuery: query,
	}

	if len(candidates) == 0 {
		return noMatch
	}

	bestScore := -1.0
	bestCandidate := ""
	for _, candidate := range candidates {
		score, ok := m.scoreSafe(query, candidate)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestCandidate = candidate
		}
	}

	if bestScore < m.threshold || bestCandidate == "" {
		return noMatch
	}

	return ResolutionResult{
		Canonical:     bestCandidate,
		Confidence:    bestScore,
		StrategyUsed:  StrategyFuzzy,
		OriginalQuery: query,
	}
}

// scoreSafe shields the scan from a panicking scorer. A scoring failure
// on one candidate is treated as "that candidate scored nothing" rather
// than aborting resolution.
func (m *FuzzyMatcher) scoreSafe(query, candidate string) (score float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("fuzzy scorer panicked, skipping candidate",
				slog.String("scorer", m.scorerName),
				slog.Any("panic", r),
			)
			score, ok = 0, false
		}
	}()
	return m.scorer(query, candidate), true
}
