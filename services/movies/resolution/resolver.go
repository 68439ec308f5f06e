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
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// OTel Tracer
// =============================================================================

var resolverTracer = otel.Tracer("reelmind.movies.resolution")

// =============================================================================
// TitleResolver
// =============================================================================

// TitleResolver is the facade over the resolution machinery: vocabulary
// candidates plus an exact-then-fuzzy escalation policy, with an optional
// persistent result cache in front.
//
// Description:
//
//	Resolve defaults its candidate list to the vocabulary's titles; a
//	caller may pass a custom subset (director names, actor names) and get
//	the same escalation behavior. Only default-candidate resolutions are
//	cached, since the cache key is fingerprinted on the title vocabulary.
//
// Thread Safety: Safe for concurrent use.
type TitleResolver struct {
	vocabulary *Vocabulary
	policy     *ResolutionPolicy
	cache      ResultCacheStore
	vocabHash  string
	logger     *slog.Logger
}

// NewTitleResolver wires ExactMatcher and FuzzyMatcher into a
// ResolutionPolicy over the vocabulary's titles.
//
// Inputs:
//
//	vocabulary          - Candidate source. Must not be nil.
//	fuzzyThreshold      - Minimum similarity for fuzzy matches. Zero uses 0.75.
//	confidenceThreshold - Policy fast-path threshold. Zero uses 0.75.
//	cache               - Optional persistent result cache. Nil disables caching.
//	logger              - Logger instance. Nil uses slog.Default().
//
// Outputs:
//
//	*TitleResolver - The constructed resolver.
//	error          - Non-nil on invalid threshold configuration.
func NewTitleResolver(vocabulary *Vocabulary, fuzzyThreshold, confidenceThreshold float64, cache ResultCacheStore, logger *slog.Logger) (*TitleResolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if fuzzyThreshold == 0 {
		fuzzyThreshold = defaultFuzzyThreshold
	}

	fuzzy, err := NewFuzzyMatcher(fuzzyThreshold, ScorerRatio, logger)
	if err != nil {
		return nil, err
	}

	policy, err := NewResolutionPolicy([]Matcher{NewExactMatcher(), fuzzy}, confidenceThreshold, logger)
	if err != nil {
		return nil, err
	}

	return &TitleResolver{
		vocabulary: vocabulary,
		policy:     policy,
		cache:      cache,
		vocabHash:  HashCandidates(vocabulary.TitleCandidates()),
		logger:     logger,
	}, nil
}

// ConfidenceThreshold returns the policy's acceptance threshold.
func (r *TitleResolver) ConfidenceThreshold() float64 { return r.policy.Threshold() }

// Resolve maps query to a canonical entity.
//
// Inputs:
//
//	ctx        - Context for cache access cancellation.
//	query      - The text to resolve (an extracted entity or raw query).
//	candidates - Optional custom candidate list. Nil uses the title
//	             vocabulary.
//
// Outputs:
//
//	ResolutionResult - Best match, or a below-threshold best effort, or
//	                   no-match. Never an error: resolution failure is an
//	                   expected outcome.
func (r *TitleResolver) Resolve(ctx context.Context, query string, candidates []string) ResolutionResult {
	ctx, span := resolverTracer.Start(ctx, "resolution.TitleResolver.Resolve",
		trace.WithAttributes(
			attribute.String("query", query),
			attribute.Bool("custom_candidates", candidates != nil),
		),
	)
	defer span.End()

	useCache := candidates == nil && r.cache != nil
	if candidates == nil {
		candidates = r.vocabulary.TitleCandidates()
	}

	if useCache {
		cached, err := r.cache.Load(ctx, r.vocabHash, query)
		if err != nil {
			r.logger.Warn("resolution cache load failed, computing",
				slog.String("query", query),
				slog.Any("error", err),
			)
		} else if cached != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return *cached
		}
	}

	result := r.policy.Resolve(query, candidates)

	span.SetAttributes(
		attribute.String("strategy", string(result.StrategyUsed)),
		attribute.Float64("confidence", result.Confidence),
	)

	if useCache {
		if err := r.cache.Save(ctx, r.vocabHash, query, result); err != nil {
			r.logger.Warn("resolution cache save failed",
				slog.String("query", query),
				slog.Any("error", err),
			)
		}
	}

	return result
}

// ResolveMultiple resolves each query independently against the title
// vocabulary. No state is shared between calls.
func (r *TitleResolver) ResolveMultiple(ctx context.Context, queries []string) []ResolutionResult {
	out := make([]ResolutionResult, 0, len(queries))
	for _, q := range queries {
		out = append(out, r.Resolve(ctx, q, nil))
	}
	return out
}
