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

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var intentDetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reelmind",
	Subsystem: "intent",
	Name:      "detections_total",
	Help:      "Intent detections by kind",
}, []string{"kind"})

// =============================================================================
// Embedded Pattern Tables
// =============================================================================

//go:embed intent_patterns.yaml
var defaultPatternsYAML []byte

// patternTables is the raw YAML shape of intent_patterns.yaml. The
// *_patterns lists are regular expressions, movie_keywords are plain
// substrings.
type patternTables struct {
	QuizNext    []string `yaml:"quiz_next_patterns"`
	QuizRestart []string `yaml:"quiz_restart_patterns"`
	QuizStart   []string `yaml:"quiz_start_patterns"`
	Poster      []string `yaml:"poster_patterns"`
	Actor       []string `yaml:"actor_patterns"`
	Director    []string `yaml:"director_patterns"`
	Year        []string `yaml:"year_patterns"`
	Correction  []string `yaml:"correction_patterns"`
	Comparison  []string `yaml:"comparison_patterns"`
	Movie       []string `yaml:"movie_keywords"`
	Greeting    []string `yaml:"greeting_patterns"`
}

var (
	cachedDetector *Detector
	detectorOnce   sync.Once
	detectorErr    error
)

// =============================================================================
// Detector
// =============================================================================

// Detector classifies messages against compiled pattern tables.
//
// Thread Safety: Safe for concurrent use after construction (immutable).
type Detector struct {
	quizNext      []*regexp.Regexp
	quizRestart   []*regexp.Regexp
	quizStart     []*regexp.Regexp
	poster        []*regexp.Regexp
	actor         []*regexp.Regexp
	director      []*regexp.Regexp
	year          []*regexp.Regexp
	correction    []*regexp.Regexp
	comparison    []*regexp.Regexp
	greeting      []*regexp.Regexp
	movieKeywords []string
}

// NewDetector compiles the embedded pattern tables. Returns an error if
// the YAML is malformed or any pattern fails to compile. The result is
// cached; subsequent calls return the same Detector.
func NewDetector() (*Detector, error) {
	detectorOnce.Do(func() {
		var tables patternTables
		if err := yaml.Unmarshal(defaultPatternsYAML, &tables); err != nil {
			detectorErr = fmt.Errorf("parsing intent_patterns.yaml: %w", err)
			return
		}

		d := &Detector{movieKeywords: tables.Movie}
		for _, set := range []struct {
			dst      *[]*regexp.Regexp
			patterns []string
			name     string
		}{
			{&d.quizNext, tables.QuizNext, "quiz_next_patterns"},
			{&d.quizRestart, tables.QuizRestart, "quiz_restart_patterns"},
			{&d.quizStart, tables.QuizStart, "quiz_start_patterns"},
			{&d.poster, tables.Poster, "poster_patterns"},
			{&d.actor, tables.Actor, "actor_patterns"},
			{&d.director, tables.Director, "director_patterns"},
			{&d.year, tables.Year, "year_patterns"},
			{&d.correction, tables.Correction, "correction_patterns"},
			{&d.comparison, tables.Comparison, "comparison_patterns"},
			{&d.greeting, tables.Greeting, "greeting_patterns"},
		} {
			for _, p := range set.patterns {
				re, err := regexp.Compile(p)
				if err != nil {
					detectorErr = fmt.Errorf("compiling %s pattern %q: %w", set.name, p, err)
					return
				}
				*set.dst = append(*set.dst, re)
			}
		}

		cachedDetector = d
		slog.Info("intent pattern tables loaded",
			slog.Int("movie_keywords", len(tables.Movie)),
		)
	})
	return cachedDetector, detectorErr
}

// MustNewDetector returns the compiled detector or panics. The pattern
// tables are embedded, so failure here is a build defect, not a runtime
// condition.
func MustNewDetector() *Detector {
	d, err := NewDetector()
	if err != nil {
		panic(err)
	}
	return d
}

// Detect classifies message into a Kind.
//
// Description:
//
//	Precedence is fixed. With a quiz active: navigation phrases first,
//	then explicit new-quiz requests, and everything else is treated as
//	an answer to the current question. Without an active quiz the tables
//	are tried most-specific first (quiz start, poster, actor, director,
//	year, correction, comparison), then movie keywords, then greetings;
//	remaining messages fall back on length (longer reads as a search).
func (d *Detector) Detect(message string, quizActive bool) Kind {
	text := strings.ToLower(strings.TrimSpace(message))

	kind := d.classify(text, quizActive)
	intentDetectionsTotal.WithLabelValues(string(kind)).Inc()
	return kind
}

func (d *Detector) classify(text string, quizActive bool) Kind {
	if quizActive {
		if matchAny(d.quizNext, text) {
			return KindQuizNext
		}
		if matchAny(d.quizRestart, text) {
			return KindQuizStart
		}
		return KindQuizAnswer
	}

	switch {
	case matchAny(d.quizStart, text):
		return KindQuizStart
	case matchAny(d.poster, text):
		return KindPosterQuery
	case matchAny(d.actor, text):
		return KindActorLookup
	case matchAny(d.director, text):
		return KindDirectorLookup
	case matchAny(d.year, text):
		return KindYearLookup
	case matchAny(d.correction, text):
		return KindCorrection
	case matchAny(d.comparison, text):
		return KindComparison
	}

	for _, keyword := range d.movieKeywords {
		if strings.Contains(text, keyword) {
			return KindMovieSearch
		}
	}

	words := len(strings.Fields(text))
	if matchAny(d.greeting, text) || words <= 2 {
		return KindChitChat
	}
	return KindMovieSearch
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
