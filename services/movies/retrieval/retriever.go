// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package retrieval finds catalog documents relevant to a query. Two
// backends exist: an in-memory BM25 index (default, no external service)
// and a Weaviate vector search. A decorator runs semantic resolution on
// the query before either backend sees it.
package retrieval

import (
	"context"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// Document is one retrievable unit: the rendered text of a movie plus
// the movie it came from.
type Document struct {
	Content string
	Movie   dataset.Movie
	Score   float64
}

// Retriever finds the k documents most relevant to query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Document, error)
}

// BuildDocuments renders every movie in the catalog into its retrieval
// document.
func BuildDocuments(movies []dataset.Movie) []Document {
	docs := make([]Document, 0, len(movies))
	for _, m := range movies {
		docs = append(docs, Document{Content: m.Document(), Movie: m})
	}
	return docs
}
