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
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// =============================================================================
// BM25 Retriever
// =============================================================================

// BM25 tuning constants. Standard values recommended by Robertson et al.
const (
	// bm25K1 controls term frequency saturation. Higher = slower saturation.
	bm25K1 = 1.5

	// bm25B controls document length normalization.
	// 0 = no normalization, 1 = full normalization.
	bm25B = 0.75
)

// bm25Doc holds the indexed form of one catalog document.
type bm25Doc struct {
	movie dataset.Movie
	text  string

	// tf maps each term to its frequency within this document.
	tf map[string]int

	// len is the total token count of the document.
	len int
}

// BM25Retriever is an in-memory Okapi BM25 index over the rendered movie
// catalog. It is the default retriever: no external service, fully
// deterministic, good enough for a thousand-row catalog.
//
// Thread Safety: Immutable after construction. Safe for concurrent use.
type BM25Retriever struct {
	docs   []bm25Doc
	idf    map[string]float64
	avgLen float64
}

// NewBM25Retriever indexes the catalog. An empty catalog yields a valid
// index that retrieves nothing.
func NewBM25Retriever(movies []dataset.Movie) *BM25Retriever {
	if len(movies) == 0 {
		return &BM25Retriever{idf: make(map[string]float64)}
	}

	docs := make([]bm25Doc, 0, len(movies))
	totalLen := 0

	// df[term] = number of documents containing term.
	df := make(map[string]int)

	for _, m := range movies {
		text := m.Document()
		terms := tokenize(text)
		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		docs = append(docs, bm25Doc{movie: m, text: text, tf: tf, len: len(terms)})
		totalLen += len(terms)
		for term := range tf {
			df[term]++
		}
	}

	n := len(docs)
	// IDF with Lucene-style add-one smoothing: log((N+1)/(df+1)) + 1.
	idf := make(map[string]float64, len(df))
	for term, docFreq := range df {
		idf[term] = math.Log(float64(n+1)/float64(docFreq+1)) + 1.0
	}

	return &BM25Retriever{
		docs:   docs,
		idf:    idf,
		avgLen: float64(totalLen) / float64(n),
	}
}

// Retrieve returns the k highest-scoring documents for query, best
// first. Documents with zero score are omitted; fewer than k results is
// normal.
func (r *BM25Retriever) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(r.docs) == 0 {
		return nil, nil
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil, nil
	}
	unique := make(map[string]bool, len(queryTerms))
	for _, t := range queryTerms {
		unique[t] = true
	}

	type scored struct {
		idx   int
		score float64
	}
	var ranked []scored
	for i, doc := range r.docs {
		score := r.score(unique, doc)
		if score > 0 {
			ranked = append(ranked, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]Document, 0, len(ranked))
	for _, s := range ranked {
		doc := r.docs[s.idx]
		out = append(out, Document{Content: doc.text, Movie: doc.movie, Score: s.score})
	}
	return out, nil
}

// score computes the raw BM25 score of doc against the query term set.
func (r *BM25Retriever) score(queryTerms map[string]bool, doc bm25Doc) float64 {
	dl := float64(doc.len)
	norm := bm25K1 * (1 - bm25B + bm25B*dl/r.avgLen)

	var score float64
	for term := range queryTerms {
		tf := doc.tf[term]
		if tf == 0 {
			continue
		}
		score += r.idf[term] * (float64(tf) * (bm25K1 + 1)) / (float64(tf) + norm)
	}
	return score
}

// tokenize lowercases and splits on any non-alphanumeric rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
