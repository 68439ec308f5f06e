// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/quiz"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/retrieval"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/stats"
)

// =============================================================================
// Tool Interface
// =============================================================================

// Tool is one callable capability exposed to the model. Execute returns
// a JSON string; tool failures are reported to the model as JSON error
// payloads, never as Go errors, so a bad call does not end the turn.
type Tool interface {
	Name() string
	Definition() llms.Tool
	Execute(ctx context.Context, args json.RawMessage) string
}

func toolError(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func marshalOr(v any, fallback string) string {
	out, err := json.Marshal(v)
	if err != nil {
		return toolError(fallback)
	}
	return string(out)
}

// movieSummary is the movie shape returned to the model: enough to
// answer with, small enough not to blow the context.
type movieSummary struct {
	Title    string   `json:"title"`
	Year     int      `json:"year,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	Director string   `json:"director,omitempty"`
	Stars    []string `json:"stars,omitempty"`
}

func summarize(movies []dataset.Movie) []movieSummary {
	out := make([]movieSummary, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieSummary{
			Title:    m.Title,
			Year:     m.Year,
			Genres:   m.Genres,
			Rating:   m.IMDbRating,
			Director: m.Director,
			Stars:    m.Stars,
		})
	}
	return out
}

func functionTool(name, description string, parameters map[string]any) llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// =============================================================================
// Search Tools
// =============================================================================

// SearchTool retrieves catalog movies matching a free-text query.
type SearchTool struct {
	retriever retrieval.Retriever
	k         int
}

// NewSearchTool creates the movie_search tool returning up to k movies.
func NewSearchTool(retriever retrieval.Retriever, k int) *SearchTool {
	if k <= 0 {
		k = 5
	}
	return &SearchTool{retriever: retriever, k: k}
}

func (t *SearchTool) Name() string { return "movie_search" }

func (t *SearchTool) Definition() llms.Tool {
	return functionTool(t.Name(),
		"Search the movie catalog by title, genre, plot theme, or mood. Returns matching movies with their metadata.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Free-text search query, e.g. 'mind-bending sci-fi thrillers'",
				},
			},
			"required": []string{"query"},
		})
}

func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) string {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &in); err != nil || strings.TrimSpace(in.Query) == "" {
		return toolError("movie_search requires a non-empty 'query' argument")
	}

	docs, err := t.retriever.Retrieve(ctx, in.Query, t.k)
	if err != nil {
		return toolError(fmt.Sprintf("search failed: %v", err))
	}
	movies := make([]dataset.Movie, 0, len(docs))
	for _, d := range docs {
		movies = append(movies, d.Movie)
	}
	return marshalOr(map[string]any{"movies": summarize(movies)}, "encoding search results failed")
}

// CompareTool retrieves two or more titles side by side.
type CompareTool struct {
	retriever retrieval.Retriever
}

// NewCompareTool creates the compare_movies tool.
func NewCompareTool(retriever retrieval.Retriever) *CompareTool {
	return &CompareTool{retriever: retriever}
}

func (t *CompareTool) Name() string { return "compare_movies" }

func (t *CompareTool) Definition() llms.Tool {
	return functionTool(t.Name(),
		"Look up two or more movies by title for a side-by-side comparison.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"titles": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Movie titles to compare, at least two",
				},
			},
			"required": []string{"titles"},
		})
}

func (t *CompareTool) Execute(ctx context.Context, args json.RawMessage) string {
	var in struct {
		Titles []string `json:"titles"`
	}
	if err := json.Unmarshal(args, &in); err != nil || len(in.Titles) < 2 {
		return toolError("compare_movies requires a 'titles' array with at least two titles")
	}

	var found []dataset.Movie
	var missing []string
	for _, title := range in.Titles {
		docs, err := t.retriever.Retrieve(ctx, title, 1)
		if err != nil || len(docs) == 0 {
			missing = append(missing, title)
			continue
		}
		found = append(found, docs[0].Movie)
	}
	return marshalOr(map[string]any{
		"movies":    summarize(found),
		"not_found": missing,
	}, "encoding comparison failed")
}

// =============================================================================
// Lookup Tools
// =============================================================================

// LookupTool filters the catalog by one exact field: actor, director, or
// release year.
type LookupTool struct {
	name    string
	field   string
	movies  []dataset.Movie
	matches func(m dataset.Movie, value string) bool
}

// NewActorLookupTool creates the search_actor tool.
func NewActorLookupTool(movies []dataset.Movie) *LookupTool {
	return &LookupTool{
		name:   "search_actor",
		field:  "actor name",
		movies: movies,
		matches: func(m dataset.Movie, value string) bool {
			for _, star := range m.Stars {
				if strings.EqualFold(strings.TrimSpace(star), value) {
					return true
				}
			}
			return false
		},
	}
}

// NewDirectorLookupTool creates the search_director tool.
func NewDirectorLookupTool(movies []dataset.Movie) *LookupTool {
	return &LookupTool{
		name:   "search_director",
		field:  "director name",
		movies: movies,
		matches: func(m dataset.Movie, value string) bool {
			return strings.EqualFold(strings.TrimSpace(m.Director), value)
		},
	}
}

// NewYearLookupTool creates the search_year tool.
func NewYearLookupTool(movies []dataset.Movie) *LookupTool {
	return &LookupTool{
		name:   "search_year",
		field:  "release year",
		movies: movies,
		matches: func(m dataset.Movie, value string) bool {
			return fmt.Sprintf("%d", m.Year) == strings.TrimSpace(value)
		},
	}
}

func (t *LookupTool) Name() string { return t.name }

func (t *LookupTool) Definition() llms.Tool {
	return functionTool(t.name,
		fmt.Sprintf("Find catalog movies by exact %s.", t.field),
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("The %s to look up", t.field),
				},
			},
			"required": []string{"value"},
		})
}

func (t *LookupTool) Execute(ctx context.Context, args json.RawMessage) string {
	var in struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(args, &in); err != nil || strings.TrimSpace(in.Value) == "" {
		return toolError(fmt.Sprintf("%s requires a non-empty 'value' argument", t.name))
	}

	var found []dataset.Movie
	for _, m := range t.movies {
		if t.matches(m, strings.TrimSpace(in.Value)) {
			found = append(found, m)
		}
	}
	return marshalOr(map[string]any{"movies": summarize(found)}, "encoding lookup results failed")
}

// =============================================================================
// Statistics Tool
// =============================================================================

// StatisticsTool exposes deterministic catalog statistics.
type StatisticsTool struct {
	calculator *stats.Calculator
}

// NewStatisticsTool creates the get_movie_statistics tool.
func NewStatisticsTool(calculator *stats.Calculator) *StatisticsTool {
	return &StatisticsTool{calculator: calculator}
}

func (t *StatisticsTool) Name() string { return "get_movie_statistics" }

func (t *StatisticsTool) Definition() llms.Tool {
	return functionTool(t.Name(),
		"Get statistics about the movie catalog. Stat types: average_rating, count, genre_distribution, "+
			"highest_rated, lowest_rated, top_rated. For year ranges use filter_by.year_start and "+
			"filter_by.year_end in a single call, never one call per year. For a single year use "+
			"filter_by.year; for a genre use filter_by.genre.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"stat_type": map[string]any{
					"type": "string",
					"enum": []string{
						stats.StatAverageRating, stats.StatCount, stats.StatGenreDistribution,
						stats.StatHighestRated, stats.StatLowestRated, stats.StatTopRated,
					},
				},
				"filter_by": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"year":       map[string]any{"type": "integer"},
						"year_start": map[string]any{"type": "integer"},
						"year_end":   map[string]any{"type": "integer"},
						"genre":      map[string]any{"type": "string"},
						"director":   map[string]any{"type": "string"},
					},
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "For top_rated: number of movies to return (default 10, max 50)",
				},
			},
			"required": []string{"stat_type"},
		})
}

func (t *StatisticsTool) Execute(ctx context.Context, args json.RawMessage) string {
	var in struct {
		StatType string        `json:"stat_type"`
		FilterBy *stats.Filter `json:"filter_by"`
		Limit    int           `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("get_movie_statistics arguments could not be parsed")
	}

	result, err := t.calculator.Compute(in.StatType, in.FilterBy, in.Limit)
	if err != nil {
		return toolError(err.Error())
	}
	return marshalOr(result, "encoding statistics failed")
}

// =============================================================================
// Quiz Generation Tool
// =============================================================================

// QuizTool generates a quiz via the registry. The generated data is also
// captured on the agent result so the service layer can activate it.
type QuizTool struct {
	registry *quiz.Registry
	movies   []dataset.Movie

	// generated holds the last successful generation for this turn.
	generated *quiz.Data
}

// NewQuizTool creates the generate_movie_quiz tool.
func NewQuizTool(registry *quiz.Registry, movies []dataset.Movie) *QuizTool {
	return &QuizTool{registry: registry, movies: movies}
}

func (t *QuizTool) Name() string { return "generate_movie_quiz" }

func (t *QuizTool) Definition() llms.Tool {
	return functionTool(t.Name(),
		"Generate a multiple-choice movie quiz. Quiz types: year, director, cast.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic":         map[string]any{"type": "string"},
				"quiz_type":     map[string]any{"type": "string", "enum": []string{quiz.TypeYear, quiz.TypeDirector, quiz.TypeCast}},
				"num_questions": map[string]any{"type": "integer"},
			},
			"required": []string{"quiz_type"},
		})
}

func (t *QuizTool) Execute(ctx context.Context, args json.RawMessage) string {
	var in struct {
		Topic        string `json:"topic"`
		QuizType     string `json:"quiz_type"`
		NumQuestions int    `json:"num_questions"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("generate_movie_quiz arguments could not be parsed")
	}
	if in.Topic == "" {
		in.Topic = "movies"
	}

	data, genErr := t.registry.Generate(in.Topic, in.NumQuestions, in.QuizType, nil, t.movies)
	if genErr != nil {
		return marshalOr(genErr, "encoding quiz error failed")
	}
	t.generated = data
	return marshalOr(data, "encoding quiz failed")
}

// Generated returns the quiz produced during the current turn, nil when
// the tool was not called or generation failed.
func (t *QuizTool) Generated() *quiz.Data { return t.generated }

// Reset clears the captured quiz before a new turn.
func (t *QuizTool) Reset() { t.generated = nil }
