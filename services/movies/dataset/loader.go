// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// CSV Loader
// =============================================================================

var (
	digitsPattern = regexp.MustCompile(`\d+`)

	// Splits concatenated names that lost their separators in the source
	// export: a capital following a lowercase letter or digit starts a new
	// name ("Cliff HollingsworthAkiva Goldsman").
	concatNamePattern = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// Loader reads the movie catalog from a CSV export.
//
// Description:
//
//	Rows are keyed by header name, so column order does not matter.
//	Rows without a title are skipped. Numeric fields that fail to parse
//	become zero values rather than aborting the load; the source export
//	is known to contain partially-filled rows.
//
// Thread Safety: Safe for concurrent use (no mutable state).
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader creates a Loader for the CSV file at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

// Load reads and parses every row of the catalog.
//
// Outputs:
//
//	[]Movie - Parsed catalog entries, source order preserved.
//	error   - Non-nil on open or CSV syntax failure.
func (l *Loader) Load() ([]Movie, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	movies, err := l.parse(f)
	if err != nil {
		return nil, err
	}

	l.logger.Info("movie dataset loaded",
		slog.String("path", l.path),
		slog.Int("movies", len(movies)),
	)
	return movies, nil
}

func (l *Loader) parse(r io.Reader) ([]Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var movies []Movie
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		title := field(row, "Title")
		if title == "" {
			skipped++
			continue
		}

		movies = append(movies, Movie{
			Title:           title,
			Year:            parseLeadingInt(field(row, "Year")),
			Genres:          parseNameList(field(row, "Genre")),
			IMDbRating:      parseFloat(field(row, "IMDb Rating")),
			Metascore:       parseLeadingInt(field(row, "MetaScore")),
			Certificate:     field(row, "Certificates"),
			Director:        field(row, "Director"),
			Stars:           parseNameList(field(row, "Star Cast")),
			DurationMinutes: parseLeadingInt(field(row, "Duration (minutes)")),
			PosterURL:       field(row, "Poster-src"),
		})
	}

	if skipped > 0 {
		l.logger.Warn("skipped dataset rows without a title", slog.Int("count", skipped))
	}
	return movies, nil
}

// parseLeadingInt extracts the first digit run from a value like
// "2010" or "142 min". Returns 0 when no digits are present.
func parseLeadingInt(value string) int {
	m := digitsPattern.FindString(value)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseNameList splits a multi-value cell. Comma- and pipe-separated
// values are split on the separator; values with no separator at all are
// split at lowercase-to-uppercase boundaries to recover concatenated names.
func parseNameList(value string) []string {
	if value == "" {
		return nil
	}

	if strings.ContainsAny(value, ",|") {
		parts := strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == '|'
		})
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	separated := concatNamePattern.ReplaceAllString(value, "$1\x00$2")
	var out []string
	for _, frag := range strings.Split(separated, "\x00") {
		if frag = strings.TrimSpace(frag); frag != "" {
			out = append(out, frag)
		}
	}
	if len(out) == 0 {
		return []string{value}
	}
	return out
}
