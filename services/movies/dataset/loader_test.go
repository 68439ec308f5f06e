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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `Title,Year,Genre,IMDb Rating,MetaScore,Certificates,Director,Star Cast,Duration (minutes),Poster-src
Inception,2010,"Action, Sci-Fi",8.8,74,PG-13,Christopher Nolan,"Leonardo DiCaprio, Elliot Page",148 min,http://example.com/inception.jpg
The Matrix,1999,Sci-Fi,8.7,73,R,Lana Wachowski,Keanu ReevesLaurence Fishburne,136,http://example.com/matrix.jpg
,2001,Drama,7.0,,,,,,
Cinderella Man,2005,Drama,8.0,69,PG-13,Ron Howard,Russell CroweRenee Zellweger,144 min,
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("writing sample: %v", err)
	}
	return path
}

func TestLoad_ParsesRows(t *testing.T) {
	loader := NewLoader(writeSample(t), nil)
	movies, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The row without a title is skipped.
	if len(movies) != 3 {
		t.Fatalf("got %d movies, want 3", len(movies))
	}

	inception := movies[0]
	if inception.Title != "Inception" || inception.Year != 2010 {
		t.Errorf("first movie = %q/%d", inception.Title, inception.Year)
	}
	if !reflect.DeepEqual(inception.Genres, []string{"Action", "Sci-Fi"}) {
		t.Errorf("genres = %v", inception.Genres)
	}
	if inception.IMDbRating != 8.8 || inception.Metascore != 74 {
		t.Errorf("ratings = %v/%d", inception.IMDbRating, inception.Metascore)
	}
	if inception.DurationMinutes != 148 {
		t.Errorf("duration = %d, want 148 from %q", inception.DurationMinutes, "148 min")
	}
}

func TestLoad_SplitsConcatenatedNames(t *testing.T) {
	loader := NewLoader(writeSample(t), nil)
	movies, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matrix := movies[1]
	want := []string{"Keanu Reeves", "Laurence Fishburne"}
	if !reflect.DeepEqual(matrix.Stars, want) {
		t.Errorf("stars = %v, want %v", matrix.Stars, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.csv"), nil)
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_EmptyFile(t *testing.T) {
	loader := NewLoader("", nil)
	movies, err := loader.parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movies != nil {
		t.Errorf("got %v, want nil for an empty file", movies)
	}
}

func TestParseNameList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Action, Sci-Fi", []string{"Action", "Sci-Fi"}},
		{"Drama|Comedy", []string{"Drama", "Comedy"}},
		{"Russell CroweRenee Zellweger", []string{"Russell Crowe", "Renee Zellweger"}},
		{"Tom Hanks", []string{"Tom Hanks"}},
	}
	for _, tt := range tests {
		if got := parseNameList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseNameList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDocument_ContainsSearchableFields(t *testing.T) {
	movie := Movie{
		Title:    "Inception",
		Year:     2010,
		Genres:   []string{"Sci-Fi"},
		Director: "Christopher Nolan",
		Stars:    []string{"Leonardo DiCaprio"},
	}
	doc := movie.Document()
	for _, want := range []string{"Inception", "2010", "Sci-Fi", "Christopher Nolan", "Leonardo DiCaprio"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}
