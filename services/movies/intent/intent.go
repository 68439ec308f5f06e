// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intent classifies a conversation turn into one of a fixed set
// of kinds using deterministic pattern matching. Classification is
// state-aware: the same literal text ("42") is a quiz answer while a
// quiz is active and a search otherwise.
package intent

// Kind is the intent taxonomy for agent routing.
type Kind string

const (
	KindMovieSearch    Kind = "movie_search"
	KindComparison     Kind = "comparison"
	KindQuizStart      Kind = "quiz_start"
	KindQuizAnswer     Kind = "quiz_answer"
	KindQuizNext       Kind = "quiz_next"
	KindActorLookup    Kind = "actor_lookup"
	KindDirectorLookup Kind = "director_lookup"
	KindYearLookup     Kind = "year_lookup"
	KindPosterQuery    Kind = "poster_query"
	KindCorrection     Kind = "correction"
	KindChitChat       Kind = "chit_chat"
)

// toolMapping pairs each kind with the agent tool that serves it. Kinds
// absent from the map are handled entirely in the service layer.
var toolMapping = map[Kind]string{
	KindMovieSearch:    "movie_search",
	KindComparison:     "compare_movies",
	KindQuizStart:      "generate_movie_quiz",
	KindQuizAnswer:     "check_quiz_answer",
	KindActorLookup:    "search_actor",
	KindDirectorLookup: "search_director",
	KindYearLookup:     "search_year",
	KindPosterQuery:    "movie_search",
}

// ToolFor returns the tool name serving kind, "" and false when the kind
// is handled without a tool call.
func ToolFor(kind Kind) (string, bool) {
	tool, ok := toolMapping[kind]
	return tool, ok
}

// RequiresTool reports whether kind routes through an agent tool.
func RequiresTool(kind Kind) bool {
	_, ok := toolMapping[kind]
	return ok
}
