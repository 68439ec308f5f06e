// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset loads and models the movie catalog that every other
// subsystem (resolution vocabulary, retrieval, quiz generation, statistics)
// is derived from.
package dataset

import (
	"fmt"
	"strings"
)

// Movie is one catalog entry. Zero values mean "not present in the source
// row": Year 0, Rating 0, Metascore 0, empty strings and slices.
type Movie struct {
	Title           string   `json:"title"`
	Year            int      `json:"year,omitempty"`
	Genres          []string `json:"genres,omitempty"`
	IMDbRating      float64  `json:"imdb_rating,omitempty"`
	Metascore       int      `json:"metascore,omitempty"`
	Certificate     string   `json:"certificate,omitempty"`
	Director        string   `json:"director,omitempty"`
	Stars           []string `json:"stars,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	PosterURL       string   `json:"poster_url,omitempty"`
}

// Document renders the movie as one retrieval document: a flat text block
// with every searchable field named, so both lexical and vector retrieval
// can match on titles, people, genres, and years.
func (m Movie) Document() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s", m.Title)
	if m.Year > 0 {
		fmt.Fprintf(&b, "\nYear: %d", m.Year)
	}
	if len(m.Genres) > 0 {
		fmt.Fprintf(&b, "\nGenres: %s", strings.Join(m.Genres, ", "))
	}
	if m.Director != "" {
		fmt.Fprintf(&b, "\nDirector: %s", m.Director)
	}
	if len(m.Stars) > 0 {
		fmt.Fprintf(&b, "\nStars: %s", strings.Join(m.Stars, ", "))
	}
	if m.IMDbRating > 0 {
		fmt.Fprintf(&b, "\nIMDb Rating: %.1f", m.IMDbRating)
	}
	if m.DurationMinutes > 0 {
		fmt.Fprintf(&b, "\nDuration: %d minutes", m.DurationMinutes)
	}
	if m.Certificate != "" {
		fmt.Fprintf(&b, "\nCertificate: %s", m.Certificate)
	}
	return b.String()
}
