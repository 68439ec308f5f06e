// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats computes deterministic dataset-level statistics over the
// movie catalog. Pure aggregation, no model involvement.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// Statistic types.
const (
	StatAverageRating     = "average_rating"
	StatCount             = "count"
	StatGenreDistribution = "genre_distribution"
	StatHighestRated      = "highest_rated"
	StatLowestRated       = "lowest_rated"
	StatTopRated          = "top_rated"
)

const (
	defaultTopRatedLimit = 10
	maxTopRatedLimit     = 50
)

var (
	ErrEmptyDataset = errors.New("movie dataset not loaded")
	ErrNoMatches    = errors.New("no movies match the filters")
	ErrNoRatings    = errors.New("no movies with ratings found")
	ErrUnknownStat  = errors.New("unknown stat type")
)

// Filter narrows the catalog before aggregation. Zero values mean
// "no constraint". YearStart/YearEnd express a range ("the 2000s")
// without one call per year.
type Filter struct {
	Year      int    `json:"year,omitempty"`
	YearStart int    `json:"year_start,omitempty"`
	YearEnd   int    `json:"year_end,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Director  string `json:"director,omitempty"`
}

// RatedMovie is one rated title in a result listing.
type RatedMovie struct {
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
}

// Result is the outcome of one statistics computation. Only the fields
// relevant to the requested type are populated.
type Result struct {
	StatType          string         `json:"stat_type"`
	AverageRating     float64        `json:"average_rating,omitempty"`
	Count             int            `json:"count,omitempty"`
	GenreDistribution map[string]int `json:"genre_distribution,omitempty"`
	HighestRating     float64        `json:"highest_rating,omitempty"`
	LowestRating      float64        `json:"lowest_rating,omitempty"`
	Movies            []RatedMovie   `json:"movies,omitempty"`
}

// Calculator aggregates over a fixed catalog.
//
// Thread Safety: Safe for concurrent use (read-only after construction).
type Calculator struct {
	movies []dataset.Movie
}

// NewCalculator creates a Calculator over movies.
func NewCalculator(movies []dataset.Movie) *Calculator {
	return &Calculator{movies: movies}
}

// Compute runs the statType aggregation over the filtered catalog.
// limit applies only to top_rated and is clamped to [1, 50], defaulting
// to 10 when non-positive.
func (c *Calculator) Compute(statType string, filter *Filter, limit int) (*Result, error) {
	if len(c.movies) == 0 {
		return nil, ErrEmptyDataset
	}

	filtered := applyFilter(c.movies, filter)
	if len(filtered) == 0 {
		return nil, ErrNoMatches
	}

	switch statType {
	case StatAverageRating:
		return averageRating(filtered)
	case StatCount:
		return &Result{StatType: StatCount, Count: len(filtered)}, nil
	case StatGenreDistribution:
		return genreDistribution(filtered), nil
	case StatHighestRated:
		return extremeRated(filtered, true)
	case StatLowestRated:
		return extremeRated(filtered, false)
	case StatTopRated:
		return topRated(filtered, limit), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, statType)
	}
}

func applyFilter(movies []dataset.Movie, filter *Filter) []dataset.Movie {
	if filter == nil {
		return movies
	}

	filtered := movies
	if filter.Year != 0 {
		filtered = keep(filtered, func(m dataset.Movie) bool { return m.Year == filter.Year })
	}
	if filter.YearStart != 0 && filter.YearEnd != 0 {
		filtered = keep(filtered, func(m dataset.Movie) bool {
			return m.Year != 0 && m.Year >= filter.YearStart && m.Year <= filter.YearEnd
		})
	} else if filter.YearStart != 0 {
		filtered = keep(filtered, func(m dataset.Movie) bool { return m.Year >= filter.YearStart })
	} else if filter.YearEnd != 0 {
		filtered = keep(filtered, func(m dataset.Movie) bool { return m.Year != 0 && m.Year <= filter.YearEnd })
	}
	if filter.Genre != "" {
		genre := strings.ToLower(filter.Genre)
		filtered = keep(filtered, func(m dataset.Movie) bool {
			for _, g := range m.Genres {
				if strings.ToLower(g) == genre {
					return true
				}
			}
			return false
		})
	}
	if filter.Director != "" {
		director := strings.ToLower(filter.Director)
		filtered = keep(filtered, func(m dataset.Movie) bool {
			return m.Director != "" && strings.ToLower(m.Director) == director
		})
	}
	return filtered
}

func keep(movies []dataset.Movie, pred func(dataset.Movie) bool) []dataset.Movie {
	var out []dataset.Movie
	for _, m := range movies {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

func rated(movies []dataset.Movie) []dataset.Movie {
	return keep(movies, func(m dataset.Movie) bool { return m.IMDbRating > 0 })
}

func averageRating(movies []dataset.Movie) (*Result, error) {
	withRatings := rated(movies)
	if len(withRatings) == 0 {
		return nil, ErrNoRatings
	}
	sum := 0.0
	for _, m := range withRatings {
		sum += m.IMDbRating
	}
	avg := sum / float64(len(withRatings))
	return &Result{
		StatType:      StatAverageRating,
		AverageRating: math.Round(avg*100) / 100,
		Count:         len(withRatings),
	}, nil
}

func genreDistribution(movies []dataset.Movie) *Result {
	dist := make(map[string]int)
	for _, m := range movies {
		for _, g := range m.Genres {
			dist[g]++
		}
	}
	return &Result{StatType: StatGenreDistribution, GenreDistribution: dist}
}

// extremeRated lists every movie tied at the highest (or lowest) rating.
func extremeRated(movies []dataset.Movie, highest bool) (*Result, error) {
	withRatings := rated(movies)
	if len(withRatings) == 0 {
		return nil, ErrNoRatings
	}

	extreme := withRatings[0].IMDbRating
	for _, m := range withRatings[1:] {
		if (highest && m.IMDbRating > extreme) || (!highest && m.IMDbRating < extreme) {
			extreme = m.IMDbRating
		}
	}

	var tied []RatedMovie
	for _, m := range withRatings {
		if m.IMDbRating == extreme {
			tied = append(tied, RatedMovie{Title: m.Title, Year: m.Year, Rating: m.IMDbRating})
		}
	}

	result := &Result{Movies: tied}
	if highest {
		result.StatType = StatHighestRated
		result.HighestRating = extreme
	} else {
		result.StatType = StatLowestRated
		result.LowestRating = extreme
	}
	return result, nil
}

func topRated(movies []dataset.Movie, limit int) *Result {
	if limit <= 0 {
		limit = defaultTopRatedLimit
	}
	if limit > maxTopRatedLimit {
		limit = maxTopRatedLimit
	}

	withRatings := rated(movies)
	sorted := make([]dataset.Movie, len(withRatings))
	copy(sorted, withRatings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IMDbRating > sorted[j].IMDbRating
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	top := make([]RatedMovie, 0, len(sorted))
	for _, m := range sorted {
		top = append(top, RatedMovie{Title: m.Title, Year: m.Year, Rating: m.IMDbRating})
	}
	return &Result{StatType: StatTopRated, Movies: top, Count: len(top)}
}
