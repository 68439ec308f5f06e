// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package retrieval

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/resolution"
)

var resolvingTracer = otel.Tracer("reelmind.movies.retrieval")

// ResolvingRetriever corrects entity references in the query before
// delegating to the wrapped retriever: "movies like Inceptoin" searches
// as "movies like Inception". The resolution metadata is surfaced so the
// response can explain what was corrected.
//
// Thread Safety: Safe for concurrent use when the wrapped retriever is.
type ResolvingRetriever struct {
	inner    Retriever
	rewriter *resolution.QueryRewriter
	logger   *slog.Logger
}

// NewResolvingRetriever wraps inner with query resolution.
func NewResolvingRetriever(inner Retriever, rewriter *resolution.QueryRewriter, logger *slog.Logger) *ResolvingRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolvingRetriever{inner: inner, rewriter: rewriter, logger: logger}
}

// Retrieve rewrites query and delegates.
func (r *ResolvingRetriever) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	docs, _, err := r.RetrieveWithMetadata(ctx, query, k)
	return docs, err
}

// RetrieveWithMetadata is Retrieve plus the resolution metadata for the
// response envelope. Rewriting never fails a retrieval: with no
// confident resolution the original query goes through untouched.
func (r *ResolvingRetriever) RetrieveWithMetadata(ctx context.Context, query string, k int) ([]Document, *resolution.Metadata, error) {
	ctx, span := resolvingTracer.Start(ctx, "retrieval.resolve_and_retrieve",
		trace.WithAttributes(attribute.String("query", query), attribute.Int("k", k)))
	defer span.End()

	resolved, metadata := r.rewriter.ResolveQuery(ctx, query)
	if metadata.Changed() {
		r.logger.Info("query rewritten before retrieval",
			slog.String("original", metadata.OriginalQuery),
			slog.String("rewritten", resolved),
			slog.Float64("confidence", metadata.Confidence),
		)
	}
	span.SetAttributes(attribute.Bool("rewritten", metadata.Changed()))

	docs, err := r.inner.Retrieve(ctx, resolved, k)
	return docs, metadata, err
}
