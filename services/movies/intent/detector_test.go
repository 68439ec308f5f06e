// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intent

import "testing"

func TestNewDetector(t *testing.T) {
	d, err := NewDetector()
	if err != nil {
		t.Fatalf("embedded pattern tables failed to load: %v", err)
	}
	if d == nil {
		t.Fatal("expected a detector")
	}
	if len(d.movieKeywords) == 0 {
		t.Error("movie keyword table is empty")
	}
}

func TestDetect_QuizActive(t *testing.T) {
	d := MustNewDetector()

	tests := []struct {
		message string
		want    Kind
	}{
		{"next", KindQuizNext},
		{"next question please", KindQuizNext},
		{"continue", KindQuizNext},
		{"skip", KindQuizNext},
		{"move on", KindQuizNext},
		{"new quiz", KindQuizStart},
		{"let's play another quiz", KindQuizStart},
		{"start game", KindQuizStart},
		// Anything else is an answer, including text that would be a
		// search outside a quiz.
		{"42", KindQuizAnswer},
		{"1999", KindQuizAnswer},
		{"Christopher Nolan", KindQuizAnswer},
		{"option 3", KindQuizAnswer},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			if got := d.Detect(tc.message, true); got != tc.want {
				t.Errorf("Detect(%q, active) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestDetect_QuizInactive(t *testing.T) {
	d := MustNewDetector()

	tests := []struct {
		message string
		want    Kind
	}{
		{"let's play a quiz", KindQuizStart},
		{"trivia time", KindQuizStart},
		{"show me the poster", KindPosterQuery},
		{"analyze cover.jpg", KindPosterQuery},
		{"who stars in Inception", KindActorLookup},
		{"movies starring Tom Hanks", KindActorLookup},
		{"who directed Casablanca", KindDirectorLookup},
		{"films helmed by Nolan", KindDirectorLookup},
		{"movies from 1999", KindYearLookup},
		{"released in 2010", KindYearLookup},
		{"that's not right, it was 2010", KindCorrection},
		{"compare Inception and Interstellar", KindComparison},
		{"Inception vs Interstellar", KindComparison},
		{"recommend something scary", KindMovieSearch},
		{"find space epics", KindMovieSearch},
		{"hello", KindChitChat},
		{"thanks", KindChitChat},
		{"ok", KindChitChat},
		{"tell me about dystopian thrillers", KindMovieSearch},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			if got := d.Detect(tc.message, false); got != tc.want {
				t.Errorf("Detect(%q, inactive) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestDetect_SameTextDifferentState(t *testing.T) {
	d := MustNewDetector()

	if got := d.Detect("42", false); got != KindChitChat {
		t.Errorf("short numeric outside a quiz = %q, want chit_chat", got)
	}
	if got := d.Detect("42", true); got != KindQuizAnswer {
		t.Errorf("numeric inside a quiz = %q, want quiz_answer", got)
	}
}

func TestToolMapping(t *testing.T) {
	tests := []struct {
		kind     Kind
		tool     string
		required bool
	}{
		{KindMovieSearch, "movie_search", true},
		{KindComparison, "compare_movies", true},
		{KindQuizStart, "generate_movie_quiz", true},
		{KindActorLookup, "search_actor", true},
		{KindDirectorLookup, "search_director", true},
		{KindYearLookup, "search_year", true},
		{KindPosterQuery, "movie_search", true},
		{KindQuizNext, "", false},
		{KindCorrection, "", false},
		{KindChitChat, "", false},
	}

	for _, tc := range tests {
		tool, ok := ToolFor(tc.kind)
		if tool != tc.tool || ok != tc.required {
			t.Errorf("ToolFor(%q) = (%q, %v), want (%q, %v)", tc.kind, tool, ok, tc.tool, tc.required)
		}
		if RequiresTool(tc.kind) != tc.required {
			t.Errorf("RequiresTool(%q) = %v, want %v", tc.kind, !tc.required, tc.required)
		}
	}
}
