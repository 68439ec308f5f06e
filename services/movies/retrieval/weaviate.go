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
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// =============================================================================
// Weaviate Vector Retriever
// =============================================================================

const movieClassName = "Movie"

// WeaviateRetriever runs nearText vector search against a Weaviate
// instance holding the movie catalog.
//
// Thread Safety: Safe for concurrent use (the client is).
type WeaviateRetriever struct {
	client *weaviate.Client
	logger *slog.Logger
}

// NewWeaviateRetriever connects to the Weaviate instance at host.
func NewWeaviateRetriever(scheme, host string, logger *slog.Logger) (*WeaviateRetriever, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := weaviate.NewClient(weaviate.Config{Scheme: scheme, Host: host})
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}
	return &WeaviateRetriever{client: client, logger: logger}, nil
}

// EnsureSchema creates the Movie class if it does not exist.
func (r *WeaviateRetriever) EnsureSchema(ctx context.Context) error {
	exists, err := r.client.Schema().ClassExistenceChecker().
		WithClassName(movieClassName).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("checking %s class: %w", movieClassName, err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:       movieClassName,
		Description: "One movie from the catalog, rendered as flat text for vector search",
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "year", DataType: []string{"int"}},
			{Name: "director", DataType: []string{"text"}},
		},
	}
	if err := r.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("creating %s class: %w", movieClassName, err)
	}
	r.logger.Info("weaviate schema created", slog.String("class", movieClassName))
	return nil
}

// Ingest loads the catalog into Weaviate. Idempotency is the caller's
// concern; this appends objects.
func (r *WeaviateRetriever) Ingest(ctx context.Context, movies []dataset.Movie) error {
	batch := r.client.Batch().ObjectsBatcher()
	for _, m := range movies {
		batch = batch.WithObjects(&models.Object{
			Class: movieClassName,
			Properties: map[string]any{
				"content":  m.Document(),
				"title":    m.Title,
				"year":     m.Year,
				"director": m.Director,
			},
		})
	}
	if _, err := batch.Do(ctx); err != nil {
		return fmt.Errorf("ingesting %d movies: %w", len(movies), err)
	}
	r.logger.Info("catalog ingested into weaviate", slog.Int("movies", len(movies)))
	return nil
}

// Retrieve runs a nearText query and maps the hits back to documents.
func (r *WeaviateRetriever) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}

	nearText := r.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	result, err := r.client.GraphQL().Get().
		WithClassName(movieClassName).
		WithFields(
			graphql.Field{Name: "content"},
			graphql.Field{Name: "title"},
			graphql.Field{Name: "year"},
			graphql.Field{Name: "director"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
		).
		WithNearText(nearText).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate nearText query: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate nearText query: %s", result.Errors[0].Message)
	}

	return parseGraphQLHits(result.Data)
}

// parseGraphQLHits unpacks the loosely-typed GraphQL response.
func parseGraphQLHits(data map[string]models.JSONObject) ([]Document, error) {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return nil, nil
	}
	hits, ok := get[movieClassName].([]any)
	if !ok {
		return nil, nil
	}

	docs := make([]Document, 0, len(hits))
	for _, hit := range hits {
		fields, ok := hit.(map[string]any)
		if !ok {
			continue
		}
		doc := Document{}
		if content, ok := fields["content"].(string); ok {
			doc.Content = content
		}
		if title, ok := fields["title"].(string); ok {
			doc.Movie.Title = title
		}
		if year, ok := fields["year"].(float64); ok {
			doc.Movie.Year = int(year)
		}
		if director, ok := fields["director"].(string); ok {
			doc.Movie.Director = director
		}
		if additional, ok := fields["_additional"].(map[string]any); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				doc.Score = certainty
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
