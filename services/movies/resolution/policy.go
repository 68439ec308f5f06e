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
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	policyResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelmind",
		Subsystem: "resolution",
		Name:      "policy_resolve_total",
		Help:      "Resolution outcomes by strategy: exact, fuzzy, fallback, none",
	}, []string{"outcome"})

	policyConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reelmind",
		Subsystem: "resolution",
		Name:      "policy_confidence",
		Help:      "Confidence of returned resolution results",
		Buckets:   []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1.0},
	})
)

// =============================================================================
// ResolutionPolicy
// =============================================================================

// ErrNoMatchers is returned when a policy is constructed with an empty
// matcher list. A policy with nothing to escalate through is a
// configuration error, not a runtime condition.
var ErrNoMatchers = errors.New("resolution policy requires at least one matcher")

// ResolutionPolicy escalates through an ordered list of matchers.
//
// Description:
//
//	Matchers run strictly in order (cheap and precise first). The first
//	result meeting the confidence threshold is returned immediately, so
//	an exact hit never pays for a fuzzy scan. When no matcher reaches the
//	threshold, the highest-confidence result seen is returned anyway,
//	letting the caller make its own low-confidence decision.
//
// Thread Safety: Immutable after construction; safe for concurrent use
// (delegates to stateless matchers).
type ResolutionPolicy struct {
	matchers  []Matcher
	threshold float64
	logger    *slog.Logger
}

// NewResolutionPolicy creates a ResolutionPolicy.
//
// Inputs:
//
//	matchers  - Matchers in escalation order. Must not be empty.
//	threshold - Minimum confidence for the fast path. Zero or negative
//	            uses the default (0.75).
//	logger    - Logger instance. Nil uses slog.Default().
//
// Outputs:
//
//	*ResolutionPolicy - The constructed policy.
//	error             - ErrNoMatchers if matchers is empty.
func NewResolutionPolicy(matchers []Matcher, threshold float64, logger *slog.Logger) (*ResolutionPolicy, error) {
	if len(matchers) == 0 {
		return nil, ErrNoMatchers
	}
	if threshold <= 0 {
		threshold = defaultFuzzyThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionPolicy{
		matchers:  matchers,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Threshold returns the policy's acceptance threshold.
func (p *ResolutionPolicy) Threshold() float64 { return p.threshold }

// Resolve tries each matcher in order and returns the first confident
// result, else the best result seen across all matchers.
func (p *ResolutionPolicy) Resolve(query string, candidates []string) ResolutionResult {
	var best ResolutionResult
	haveBest := false

	for _, matcher := range p.matchers {
		result := matcher.Resolve(query, candidates)

		if result.IsConfident(p.threshold) {
			policyResolveTotal.WithLabelValues(string(result.StrategyUsed)).Inc()
			policyConfidence.Observe(result.Confidence)
			return result
		}

		if !haveBest || result.Confidence > best.Confidence {
			best = result
			haveBest = true
		}
	}

	if haveBest {
		policyResolveTotal.WithLabelValues("fallback").Inc()
		policyConfidence.Observe(best.Confidence)
		p.logger.Debug("resolution below threshold, returning best effort",
			slog.String("query", query),
			slog.Float64("confidence", best.Confidence),
			slog.String("strategy", string(best.StrategyUsed)),
		)
		return best
	}

	policyResolveTotal.WithLabelValues("none").Inc()
	return NoMatch(query)
}
