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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var rewriterQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reelmind",
	Subsystem: "resolution",
	Name:      "rewritten_queries_total",
	Help:      "Query rewrite outcomes: rewritten, unchanged, whole_query",
}, []string{"outcome"})

// =============================================================================
// OTel Tracer
// =============================================================================

var rewriterTracer = otel.Tracer("reelmind.movies.resolution.rewriter")

// =============================================================================
// Metadata
// =============================================================================

// ResolvedEntity records one successful entity resolution inside a rewrite.
type ResolvedEntity struct {
	Original   string   `json:"original"`
	Resolved   string   `json:"resolved"`
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
}

// Metadata describes what, if anything, a rewrite changed. Created fresh
// per retrieval call, surfaced in responses for explainability, never
// persisted.
//
// Confidence is the minimum across all resolved entities: the weakest
// link bounds how much the whole rewrite should be trusted.
type Metadata struct {
	OriginalQuery    string           `json:"original_query"`
	ResolvedQuery    string           `json:"resolved_query"`
	Strategy         Strategy         `json:"resolution_strategy,omitempty"`
	Confidence       float64          `json:"resolution_confidence,omitempty"`
	EntitiesResolved []ResolvedEntity `json:"entities_resolved,omitempty"`
}

// Changed reports whether the rewrite altered the query text.
func (m *Metadata) Changed() bool {
	return m.OriginalQuery != m.ResolvedQuery
}

// =============================================================================
// QueryRewriter
// =============================================================================

// QueryRewriter corrects entity references in a full query before it
// reaches retrieval.
//
// Description:
//
//	Extracted entities are resolved right-to-left and confident canonical
//	values are spliced into the query at the entity's original byte
//	offsets. Reverse order is required for correctness: a left-to-right
//	pass would shift the offsets of every entity to the right of the
//	first replacement, corrupting subsequent splices.
//
//	With extraction disabled, the entire query string is resolved as one
//	candidate against the title vocabulary.
//
// Thread Safety: Safe for concurrent use.
type QueryRewriter struct {
	extractor         *EntityExtractor
	resolver          *TitleResolver
	extractionEnabled bool
	logger            *slog.Logger
}

// NewQueryRewriter creates a QueryRewriter.
//
// Inputs:
//
//	extractor         - Entity extractor. Nil constructs a default one.
//	resolver          - Title resolver. Must not be nil.
//	extractionEnabled - False resolves the whole query as one entity.
//	logger            - Logger instance. Nil uses slog.Default().
func NewQueryRewriter(extractor *EntityExtractor, resolver *TitleResolver, extractionEnabled bool, logger *slog.Logger) *QueryRewriter {
	if extractor == nil {
		extractor = NewEntityExtractor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryRewriter{
		extractor:         extractor,
		resolver:          resolver,
		extractionEnabled: extractionEnabled,
		logger:            logger,
	}
}

// ResolveQuery rewrites query with canonical entity spellings.
//
// Outputs:
//
//	string    - The rewritten query; identical to the input when nothing
//	            resolved confidently (not an error condition).
//	*Metadata - Per-entity resolution records for explainability.
func (w *QueryRewriter) ResolveQuery(ctx context.Context, query string) (string, *Metadata) {
	ctx, span := rewriterTracer.Start(ctx, "resolution.QueryRewriter.ResolveQuery",
		trace.WithAttributes(attribute.String("query", query)),
	)
	defer span.End()

	meta := &Metadata{OriginalQuery: query, ResolvedQuery: query}

	if !w.extractionEnabled {
		return w.resolveWholeQuery(ctx, query, meta), meta
	}

	entities := w.extractor.Extract(query)
	span.SetAttributes(attribute.Int("entities_extracted", len(entities)))
	if len(entities) == 0 {
		rewriterQueriesTotal.WithLabelValues("unchanged").Inc()
		return query, meta
	}

	threshold := w.resolver.ConfidenceThreshold()
	rewritten := query
	minConfidence := 0.0
	haveConfidence := false

	// Rightmost entity first: splicing never disturbs the offsets of
	// entities still to be processed.
	for i := len(entities) - 1; i >= 0; i-- {
		ent := entities[i]
		result := w.resolver.Resolve(ctx, ent.Text, nil)
		if !result.IsConfident(threshold) {
			continue
		}

		rewritten = rewritten[:ent.Start] + result.Canonical + rewritten[ent.End:]

		// Prepend: entities arrive right-to-left, records read left-to-right.
		meta.EntitiesResolved = append([]ResolvedEntity{{
			Original:   ent.Text,
			Resolved:   result.Canonical,
			Strategy:   result.StrategyUsed,
			Confidence: result.Confidence,
		}}, meta.EntitiesResolved...)

		if meta.Strategy == "" {
			meta.Strategy = result.StrategyUsed
		}
		if !haveConfidence || result.Confidence < minConfidence {
			minConfidence = result.Confidence
			haveConfidence = true
		}
	}

	meta.ResolvedQuery = rewritten
	if haveConfidence {
		meta.Confidence = minConfidence
	}

	if meta.Changed() {
		rewriterQueriesTotal.WithLabelValues("rewritten").Inc()
		w.logger.Info("query rewritten",
			slog.String("original", query),
			slog.String("resolved", rewritten),
			slog.Int("entities", len(meta.EntitiesResolved)),
			slog.Float64("confidence", meta.Confidence),
		)
	} else {
		rewriterQueriesTotal.WithLabelValues("unchanged").Inc()
	}

	span.SetAttributes(
		attribute.Bool("changed", meta.Changed()),
		attribute.Int("entities_resolved", len(meta.EntitiesResolved)),
	)
	return rewritten, meta
}

// resolveWholeQuery treats the full query as a single candidate entity.
func (w *QueryRewriter) resolveWholeQuery(ctx context.Context, query string, meta *Metadata) string {
	result := w.resolver.Resolve(ctx, query, nil)
	if !result.IsConfident(w.resolver.ConfidenceThreshold()) {
		rewriterQueriesTotal.WithLabelValues("unchanged").Inc()
		return query
	}

	rewriterQueriesTotal.WithLabelValues("whole_query").Inc()
	meta.ResolvedQuery = result.Canonical
	meta.Strategy = result.StrategyUsed
	meta.Confidence = result.Confidence
	meta.EntitiesResolved = []ResolvedEntity{{
		Original:   query,
		Resolved:   result.Canonical,
		Strategy:   result.StrategyUsed,
		Confidence: result.Confidence,
	}}
	return result.Canonical
}
