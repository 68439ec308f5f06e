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
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// =============================================================================
// Generator
// =============================================================================

// Generator builds one quiz question from a movie. One implementation per
// quiz type; new types are added by adding a variant and registering it,
// not by branching.
type Generator interface {
	// Generate builds a question for movie, returning false when the
	// movie lacks the data this quiz type needs. allMovies supplies
	// distractor material.
	Generate(movie dataset.Movie, questionID int, allMovies []dataset.Movie) (Question, bool)

	// QuizType identifies the type this generator handles.
	QuizType() string
}

// shuffleWithAnswer shuffles options, guaranteeing the correct answer is
// among them.
func shuffleWithAnswer(rng *rand.Rand, options []string, correct string) []string {
	present := false
	for _, o := range options {
		if o == correct {
			present = true
			break
		}
	}
	if !present {
		if len(options) < 3 {
			options = append(options, correct)
		} else {
			options[len(options)-1] = correct
		}
	}

	shuffled := make([]string, len(options))
	copy(shuffled, options)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// buildOptions combines the correct answer with distractors, deduplicated
// and capped at three.
func buildOptions(correct string, distractors []string) []string {
	var options []string
	for _, opt := range append([]string{correct}, distractors...) {
		seen := false
		for _, o := range options {
			if o == opt {
				seen = true
				break
			}
		}
		if !seen {
			options = append(options, opt)
		}
		if len(options) == 3 {
			break
		}
	}
	return options
}

// =============================================================================
// YearGenerator
// =============================================================================

// YearGenerator asks "What year was X released?" with distractor years
// adjacent to the real one.
type YearGenerator struct {
	rng *rand.Rand
}

// QuizType returns "year".
func (g *YearGenerator) QuizType() string { return TypeYear }

// Generate builds a year question. Requires a known release year.
func (g *YearGenerator) Generate(movie dataset.Movie, questionID int, allMovies []dataset.Movie) (Question, bool) {
	if movie.Title == "" || movie.Year == 0 {
		return Question{}, false
	}

	correct := strconv.Itoa(movie.Year)
	offsets := []int{-1, 1, 2}
	g.rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })

	distractors := make([]string, 0, len(offsets))
	for _, off := range offsets {
		distractors = append(distractors, strconv.Itoa(movie.Year+off))
	}

	options := shuffleWithAnswer(g.rng, buildOptions(correct, distractors), correct)
	return Question{
		ID:       questionID,
		Question: fmt.Sprintf("What year was %q released?", movie.Title),
		Options:  options,
		Answer:   correct,
	}, true
}

// =============================================================================
// DirectorGenerator
// =============================================================================

// genericDirectors pad the distractor pool when the dataset slice is too
// small to supply three distinct directors.
var genericDirectors = []string{
	"Steven Spielberg", "Christopher Nolan", "Martin Scorsese", "Quentin Tarantino",
}

// DirectorGenerator asks "Who directed X?" with other movies' directors
// as distractors.
type DirectorGenerator struct {
	rng *rand.Rand
}

// QuizType returns "director".
func (g *DirectorGenerator) QuizType() string { return TypeDirector }

// Generate builds a director question. Requires a known director.
func (g *DirectorGenerator) Generate(movie dataset.Movie, questionID int, allMovies []dataset.Movie) (Question, bool) {
	if movie.Title == "" || movie.Director == "" {
		return Question{}, false
	}

	correct := strings.TrimSpace(movie.Director)
	distractors := collectDistinct(allMovies, correct, func(m dataset.Movie) []string {
		if m.Director == "" {
			return nil
		}
		return []string{m.Director}
	})
	distractors = padGeneric(distractors, correct, genericDirectors)

	options := shuffleWithAnswer(g.rng, buildOptions(correct, distractors), correct)
	return Question{
		ID:       questionID,
		Question: fmt.Sprintf("Who directed %q?", movie.Title),
		Options:  options,
		Answer:   correct,
	}, true
}

// =============================================================================
// CastGenerator
// =============================================================================

var genericActors = []string{
	"Tom Hanks", "Meryl Streep", "Denzel Washington", "Cate Blanchett",
}

// CastGenerator asks "Who starred in X?" with other movies' stars as
// distractors.
type CastGenerator struct {
	rng *rand.Rand
}

// QuizType returns "cast".
func (g *CastGenerator) QuizType() string { return TypeCast }

// Generate builds a cast question. Requires at least one known star.
func (g *CastGenerator) Generate(movie dataset.Movie, questionID int, allMovies []dataset.Movie) (Question, bool) {
	if movie.Title == "" || len(movie.Stars) == 0 {
		return Question{}, false
	}

	correct := strings.TrimSpace(movie.Stars[g.rng.Intn(len(movie.Stars))])
	if correct == "" {
		return Question{}, false
	}

	distractors := collectDistinct(allMovies, correct, func(m dataset.Movie) []string {
		// A co-star of the same movie would be a second right answer.
		if m.Title == movie.Title {
			return nil
		}
		return m.Stars
	})
	distractors = padGeneric(distractors, correct, genericActors)

	options := shuffleWithAnswer(g.rng, buildOptions(correct, distractors), correct)
	return Question{
		ID:       questionID,
		Question: fmt.Sprintf("Who starred in %q?", movie.Title),
		Options:  options,
		Answer:   correct,
	}, true
}

// collectDistinct gathers up to three distractor names from the catalog,
// case-insensitively distinct from the correct answer and each other.
func collectDistinct(movies []dataset.Movie, correct string, pick func(dataset.Movie) []string) []string {
	seen := map[string]bool{strings.ToLower(correct): true}
	var out []string
	for _, m := range movies {
		for _, name := range pick(m) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
			if len(out) >= 3 {
				return out
			}
		}
	}
	return out
}

// padGeneric tops up distractors from a fixed pool when the catalog could
// not supply three.
func padGeneric(distractors []string, correct string, pool []string) []string {
	seen := map[string]bool{strings.ToLower(correct): true}
	for _, d := range distractors {
		seen[strings.ToLower(d)] = true
	}
	for _, g := range pool {
		if len(distractors) >= 3 {
			break
		}
		if !seen[strings.ToLower(g)] {
			distractors = append(distractors, g)
			seen[strings.ToLower(g)] = true
		}
	}
	return distractors
}

// =============================================================================
// Registry
// =============================================================================

// Registry maps quiz types to their generators and drives quiz
// generation over the movie catalog.
//
// Thread Safety: Safe for concurrent use after construction if rng is
// not shared; the default constructor gives each generator its own
// source, so one Registry should serve one goroutine at a time.
type Registry struct {
	generators map[string]Generator
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewRegistry creates a Registry with the year, director, and cast
// generators registered.
//
// Inputs:
//
//	seed   - Seed for option shuffling. Zero uses a random seed.
//	logger - Logger instance. Nil uses slog.Default().
func NewRegistry(seed int64, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	var rng *rand.Rand
	if seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	} else {
		rng = rand.New(rand.NewSource(seed))
	}
	return &Registry{
		generators: map[string]Generator{
			TypeYear:     &YearGenerator{rng: rng},
			TypeDirector: &DirectorGenerator{rng: rng},
			TypeCast:     &CastGenerator{rng: rng},
		},
		rng:    rng,
		logger: logger,
	}
}

// QuizTypes returns the registered quiz types.
func (r *Registry) QuizTypes() []string {
	return []string{TypeYear, TypeDirector, TypeCast}
}

// Generate builds a quiz of numQuestions questions of quizType from the
// catalog.
//
// Description:
//
//	Question ids are the 1-based positions of the source movies in the
//	catalog, which keeps them stable across rounds so excludeIDs (and
//	the controller's asked-id filter) can suppress repeats. When the
//	requested type has no backing data at all, a GenerationError payload
//	is returned instead of an empty quiz so the caller can suggest the
//	other quiz types.
//
// Inputs:
//
//	topic        - Free-text topic label carried into the quiz data.
//	numQuestions - Number of questions wanted. Zero or negative uses 3.
//	quizType     - One of year, director, cast. Unknown falls back to year.
//	excludeIDs   - Question ids to skip (already asked this session).
//	movies       - The movie catalog.
//
// Outputs:
//
//	*Data            - The generated quiz. Nil when generation failed.
//	*GenerationError - Structured failure payload. Nil on success.
func (r *Registry) Generate(topic string, numQuestions int, quizType string, excludeIDs map[int]bool, movies []dataset.Movie) (*Data, *GenerationError) {
	if numQuestions <= 0 {
		numQuestions = 3
	}
	gen, ok := r.generators[quizType]
	if !ok {
		gen = r.generators[TypeYear]
		quizType = TypeYear
	}

	// Visit movies in random order but key ids by catalog position.
	order := r.rng.Perm(len(movies))

	var questions []Question
	for _, idx := range order {
		if len(questions) >= numQuestions {
			break
		}
		id := idx + 1
		if excludeIDs[id] {
			continue
		}
		q, ok := gen.Generate(movies[idx], id, movies)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		r.logger.Warn("quiz generation produced no questions",
			slog.String("quiz_type", quizType),
			slog.Int("movies", len(movies)),
		)
		return nil, &GenerationError{
			Error:    fmt.Sprintf("no %s data available", quizType),
			Note:     AvailableTypesMessage(quizType),
			QuizType: quizType,
		}
	}

	return &Data{
		Topic:     topic,
		QuizType:  quizType,
		Questions: questions,
	}, nil
}
