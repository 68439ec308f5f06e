// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package stats

import (
	"errors"
	"testing"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

func testCatalog() []dataset.Movie {
	return []dataset.Movie{
		{Title: "The Matrix", Year: 1999, IMDbRating: 8.7, Genres: []string{"Action", "Sci-Fi"}, Director: "Lana Wachowski"},
		{Title: "Inception", Year: 2010, IMDbRating: 8.8, Genres: []string{"Action", "Sci-Fi", "Thriller"}, Director: "Christopher Nolan"},
		{Title: "Interstellar", Year: 2014, IMDbRating: 8.7, Genres: []string{"Sci-Fi", "Drama"}, Director: "Christopher Nolan"},
		{Title: "The Room", Year: 2003, IMDbRating: 3.6, Genres: []string{"Drama"}, Director: "Tommy Wiseau"},
		{Title: "Lost Reel", Year: 2001, Genres: []string{"Drama"}}, // unrated
	}
}

func TestCompute_AverageRating(t *testing.T) {
	c := NewCalculator(testCatalog())

	result, err := c.Compute(StatAverageRating, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (8.7 + 8.8 + 8.7 + 3.6) / 4 = 7.45; the unrated movie is excluded.
	if result.AverageRating != 7.45 {
		t.Errorf("average = %v, want 7.45", result.AverageRating)
	}
	if result.Count != 4 {
		t.Errorf("rated count = %d, want 4", result.Count)
	}
}

func TestCompute_Count(t *testing.T) {
	c := NewCalculator(testCatalog())

	result, err := c.Compute(StatCount, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 5 {
		t.Errorf("count = %d, want 5", result.Count)
	}
}

func TestCompute_GenreDistribution(t *testing.T) {
	c := NewCalculator(testCatalog())

	result, err := c.Compute(StatGenreDistribution, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]int{"Action": 2, "Sci-Fi": 3, "Thriller": 1, "Drama": 3}
	for genre, count := range want {
		if result.GenreDistribution[genre] != count {
			t.Errorf("genre %s = %d, want %d", genre, result.GenreDistribution[genre], count)
		}
	}
}

func TestCompute_HighestAndLowestRated(t *testing.T) {
	c := NewCalculator(testCatalog())

	highest, err := c.Compute(StatHighestRated, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if highest.HighestRating != 8.8 || len(highest.Movies) != 1 || highest.Movies[0].Title != "Inception" {
		t.Errorf("highest = %+v, want Inception at 8.8", highest)
	}

	lowest, err := c.Compute(StatLowestRated, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lowest.LowestRating != 3.6 || len(lowest.Movies) != 1 || lowest.Movies[0].Title != "The Room" {
		t.Errorf("lowest = %+v, want The Room at 3.6", lowest)
	}
}

func TestCompute_HighestRatedTies(t *testing.T) {
	// Every movie tied at the extreme must be listed.
	c := NewCalculator([]dataset.Movie{
		{Title: "The Matrix", Year: 1999, IMDbRating: 8.7},
		{Title: "Interstellar", Year: 2014, IMDbRating: 8.7},
		{Title: "The Room", Year: 2003, IMDbRating: 3.6},
	})

	result, err := c.Compute(StatHighestRated, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HighestRating != 8.7 || len(result.Movies) != 2 {
		t.Errorf("highest = %+v, want two movies tied at 8.7", result)
	}
}

func TestCompute_TopRated(t *testing.T) {
	c := NewCalculator(testCatalog())

	result, err := c.Compute(StatTopRated, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Movies) != 2 {
		t.Fatalf("top rated returned %d movies, want 2", len(result.Movies))
	}
	if result.Movies[0].Title != "Inception" {
		t.Errorf("top movie = %q, want Inception", result.Movies[0].Title)
	}
	if result.Movies[1].Rating != 8.7 {
		t.Errorf("second rating = %v, want 8.7", result.Movies[1].Rating)
	}

	// Non-positive limit defaults to 10, capped by catalog size.
	result, err = c.Compute(StatTopRated, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Movies) != 4 {
		t.Errorf("default limit returned %d rated movies, want 4", len(result.Movies))
	}
}

func TestCompute_Filters(t *testing.T) {
	c := NewCalculator(testCatalog())

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"single year", &Filter{Year: 2010}, 1},
		{"year range", &Filter{YearStart: 2000, YearEnd: 2009}, 2},
		{"open-ended start", &Filter{YearStart: 2010}, 2},
		{"open-ended end", &Filter{YearEnd: 2001}, 2},
		{"genre", &Filter{Genre: "sci-fi"}, 3},
		{"director", &Filter{Director: "christopher nolan"}, 2},
		{"combined", &Filter{Genre: "Sci-Fi", Director: "Christopher Nolan"}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := c.Compute(StatCount, tc.filter, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Count != tc.want {
				t.Errorf("count = %d, want %d", result.Count, tc.want)
			}
		})
	}
}

func TestCompute_Errors(t *testing.T) {
	empty := NewCalculator(nil)
	if _, err := empty.Compute(StatCount, nil, 0); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty dataset error = %v, want ErrEmptyDataset", err)
	}

	c := NewCalculator(testCatalog())
	if _, err := c.Compute(StatCount, &Filter{Year: 1850}, 0); !errors.Is(err, ErrNoMatches) {
		t.Errorf("no-match error = %v, want ErrNoMatches", err)
	}
	if _, err := c.Compute("median_rating", nil, 0); !errors.Is(err, ErrUnknownStat) {
		t.Errorf("unknown stat error = %v, want ErrUnknownStat", err)
	}

	unrated := NewCalculator([]dataset.Movie{{Title: "Lost Reel", Year: 2001}})
	if _, err := unrated.Compute(StatAverageRating, nil, 0); !errors.Is(err, ErrNoRatings) {
		t.Errorf("unrated average error = %v, want ErrNoRatings", err)
	}
	if _, err := unrated.Compute(StatHighestRated, nil, 0); !errors.Is(err, ErrNoRatings) {
		t.Errorf("unrated highest error = %v, want ErrNoRatings", err)
	}
}
