// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package quiz

import (
	"strings"
	"testing"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

func testMovies() []dataset.Movie {
	return []dataset.Movie{
		{Title: "The Matrix", Year: 1999, Director: "Lana Wachowski", Stars: []string{"Keanu Reeves", "Laurence Fishburne"}},
		{Title: "Inception", Year: 2010, Director: "Christopher Nolan", Stars: []string{"Leonardo DiCaprio", "Elliot Page"}},
		{Title: "Interstellar", Year: 2014, Director: "Christopher Nolan", Stars: []string{"Matthew McConaughey", "Anne Hathaway"}},
		{Title: "Casablanca", Year: 1942, Director: "Michael Curtiz", Stars: []string{"Humphrey Bogart", "Ingrid Bergman"}},
	}
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry_GenerateYearQuiz(t *testing.T) {
	r := NewRegistry(42, nil)

	data, genErr := r.Generate("movie years", 3, TypeYear, nil, testMovies())
	if genErr != nil {
		t.Fatalf("unexpected generation error: %+v", genErr)
	}
	if data.QuizType != TypeYear || data.Topic != "movie years" {
		t.Errorf("data header = %q/%q, want year/movie years", data.QuizType, data.Topic)
	}
	if len(data.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(data.Questions))
	}

	for _, q := range data.Questions {
		if q.ID < 1 || q.ID > len(testMovies()) {
			t.Errorf("question id %d out of catalog range", q.ID)
		}
		if !strings.Contains(q.Question, "released") {
			t.Errorf("question %q does not ask for a year", q.Question)
		}
		if len(q.Options) < 2 {
			t.Errorf("question %d has %d options, want at least 2", q.ID, len(q.Options))
		}
		answerPresent := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				answerPresent = true
			}
		}
		if !answerPresent {
			t.Errorf("answer %q missing from options %v", q.Answer, q.Options)
		}
	}
}

func TestRegistry_GenerateDeterministicWithSeed(t *testing.T) {
	a, _ := NewRegistry(7, nil).Generate("movies", 3, TypeYear, nil, testMovies())
	b, _ := NewRegistry(7, nil).Generate("movies", 3, TypeYear, nil, testMovies())

	if len(a.Questions) != len(b.Questions) {
		t.Fatalf("question counts differ: %d vs %d", len(a.Questions), len(b.Questions))
	}
	for i := range a.Questions {
		if a.Questions[i].ID != b.Questions[i].ID {
			t.Errorf("question %d: ids differ %d vs %d", i, a.Questions[i].ID, b.Questions[i].ID)
		}
	}
}

func TestRegistry_ExcludeIDs(t *testing.T) {
	r := NewRegistry(42, nil)
	exclude := map[int]bool{1: true, 2: true}

	data, genErr := r.Generate("movies", 4, TypeYear, exclude, testMovies())
	if genErr != nil {
		t.Fatalf("unexpected generation error: %+v", genErr)
	}
	for _, q := range data.Questions {
		if exclude[q.ID] {
			t.Errorf("excluded question id %d was generated", q.ID)
		}
	}
	if len(data.Questions) != 2 {
		t.Errorf("questions = %d, want 2 after excluding 2 of 4", len(data.Questions))
	}
}

func TestRegistry_UnknownTypeFallsBackToYear(t *testing.T) {
	r := NewRegistry(42, nil)

	data, genErr := r.Generate("movies", 2, "genre", nil, testMovies())
	if genErr != nil {
		t.Fatalf("unexpected generation error: %+v", genErr)
	}
	if data.QuizType != TypeYear {
		t.Errorf("quiz type = %q, want fallback to year", data.QuizType)
	}
}

func TestRegistry_NoUsableData(t *testing.T) {
	r := NewRegistry(42, nil)
	movies := []dataset.Movie{{Title: "Unknown Era"}} // no year

	data, genErr := r.Generate("movies", 3, TypeYear, nil, movies)
	if data != nil {
		t.Fatal("expected nil data when no questions can be built")
	}
	if genErr == nil {
		t.Fatal("expected a generation error")
	}
	if !strings.Contains(genErr.Error, "no year data available") {
		t.Errorf("error = %q, want no-year-data message", genErr.Error)
	}
	if genErr.QuizType != TypeYear {
		t.Errorf("error quiz type = %q, want year", genErr.QuizType)
	}
	if !strings.Contains(genErr.Note, "director") || !strings.Contains(genErr.Note, "cast") {
		t.Errorf("note = %q, want the remaining quiz types offered", genErr.Note)
	}
}

// =============================================================================
// Generator Tests
// =============================================================================

func TestYearGenerator(t *testing.T) {
	r := NewRegistry(42, nil)
	gen := r.generators[TypeYear]

	q, ok := gen.Generate(testMovies()[0], 1, testMovies())
	if !ok {
		t.Fatal("expected a question for a movie with a year")
	}
	if q.Answer != "1999" {
		t.Errorf("answer = %q, want 1999", q.Answer)
	}
	if !strings.Contains(q.Question, "The Matrix") {
		t.Errorf("question %q must name the movie", q.Question)
	}

	if _, ok := gen.Generate(dataset.Movie{Title: "No Year"}, 1, nil); ok {
		t.Error("movie without a year must be skipped")
	}
}

func TestDirectorGenerator(t *testing.T) {
	r := NewRegistry(42, nil)
	gen := r.generators[TypeDirector]

	q, ok := gen.Generate(testMovies()[1], 2, testMovies())
	if !ok {
		t.Fatal("expected a question for a movie with a director")
	}
	if q.Answer != "Christopher Nolan" {
		t.Errorf("answer = %q, want Christopher Nolan", q.Answer)
	}
	for _, opt := range q.Options {
		if opt != q.Answer && strings.EqualFold(opt, q.Answer) {
			t.Errorf("distractor %q duplicates the answer", opt)
		}
	}

	if _, ok := gen.Generate(dataset.Movie{Title: "No Director"}, 1, nil); ok {
		t.Error("movie without a director must be skipped")
	}
}

func TestCastGenerator(t *testing.T) {
	r := NewRegistry(42, nil)
	movies := testMovies()
	gen := r.generators[TypeCast]

	q, ok := gen.Generate(movies[0], 1, movies)
	if !ok {
		t.Fatal("expected a question for a movie with stars")
	}

	isStar := false
	for _, star := range movies[0].Stars {
		if q.Answer == star {
			isStar = true
		}
	}
	if !isStar {
		t.Errorf("answer %q is not one of the movie's stars", q.Answer)
	}
	// Co-stars of the same movie would make the question ambiguous.
	for _, opt := range q.Options {
		if opt == q.Answer {
			continue
		}
		for _, star := range movies[0].Stars {
			if opt == star {
				t.Errorf("distractor %q co-stars in the same movie", opt)
			}
		}
	}

	if _, ok := gen.Generate(dataset.Movie{Title: "No Cast"}, 1, nil); ok {
		t.Error("movie without stars must be skipped")
	}
}

func TestGenericPadding(t *testing.T) {
	// A one-movie catalog has no real distractors; the generic pool
	// fills the options out.
	r := NewRegistry(42, nil)
	movies := []dataset.Movie{{Title: "Solo", Director: "Jane Doe", Stars: []string{"John Smith"}}}

	data, genErr := r.Generate("movies", 1, TypeDirector, nil, movies)
	if genErr != nil {
		t.Fatalf("unexpected generation error: %+v", genErr)
	}
	q := data.Questions[0]
	if len(q.Options) < 3 {
		t.Errorf("options = %v, want generic padding to at least 3", q.Options)
	}
	if q.Answer != "Jane Doe" {
		t.Errorf("answer = %q, want Jane Doe", q.Answer)
	}
}

// =============================================================================
// Quiz Type Detection Tests
// =============================================================================

func TestDetectType(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"quiz me about actors", TypeCast},
		{"cast quiz please", TypeCast},
		{"who played the lead role", TypeCast},
		{"quiz me on directors", TypeDirector},
		{"who directed these", TypeDirector},
		{"quiz me about years", TypeYear},
		{"when were these released", TypeYear},
		{"give me a quiz", ""},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			if got := DetectType(tc.message); got != tc.want {
				t.Errorf("DetectType(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestTypePrompt(t *testing.T) {
	if msg := TypePrompt(TypeDirector); !strings.Contains(msg, "director") {
		t.Errorf("prompt = %q, want director continuation", msg)
	}
	menu := TypePrompt("")
	for _, kind := range []string{"year", "director", "cast"} {
		if !strings.Contains(strings.ToLower(menu), kind) {
			t.Errorf("menu %q missing %q", menu, kind)
		}
	}
}

func TestAvailableTypesMessage(t *testing.T) {
	msg := strings.ToLower(AvailableTypesMessage(TypeYear))
	if strings.Contains(msg, "year") {
		t.Errorf("message %q must not re-offer the failed type", msg)
	}
	if !strings.Contains(msg, "director") || !strings.Contains(msg, "cast") {
		t.Errorf("message %q must offer the remaining types", msg)
	}
}
