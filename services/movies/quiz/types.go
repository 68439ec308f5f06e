// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package quiz implements the trivia session engine: an explicit,
// LLM-independent state machine for activation, answer validation,
// scoring, advancement, completion, and recovery. The LLM never decides
// quiz progression; answer checking must be exact and testable.
package quiz

import "strings"

// =============================================================================
// Quiz Types
// =============================================================================

const (
	// TypeYear asks for release years.
	TypeYear = "year"

	// TypeDirector asks who directed a movie.
	TypeDirector = "director"

	// TypeCast asks which actor starred in a movie.
	TypeCast = "cast"
)

// Question is one multiple-choice item. Answer is the correct option text;
// it is stripped before a question reaches the presentation layer.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer,omitempty"`
}

// Data is one generated quiz: a topic plus its question list.
type Data struct {
	Topic     string     `json:"topic"`
	QuizType  string     `json:"quiz_type,omitempty"`
	Questions []Question `json:"questions"`
}

// GenerationError is the structured payload returned when a quiz type has
// no backing data in the dataset. Surfaced to the user with alternative
// quiz types, never as a stack trace.
type GenerationError struct {
	Error    string `json:"error"`
	Note     string `json:"note"`
	QuizType string `json:"quiz_type"`
}

// HistoryEntry records one answered question.
type HistoryEntry struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Attempts      int    `json:"attempts"`
}

// inferType maps quiz data to a quiz type: an explicit quiz_type field
// wins, else the free-text topic is substring-matched, else year.
func inferType(data *Data) string {
	if data == nil {
		return TypeYear
	}
	switch strings.ToLower(strings.TrimSpace(data.QuizType)) {
	case TypeCast, "actor", "actors":
		return TypeCast
	case TypeDirector:
		return TypeDirector
	case TypeYear:
		return TypeYear
	}

	topic := strings.ToLower(data.Topic)
	switch {
	case strings.Contains(topic, "actor"), strings.Contains(topic, "cast"):
		return TypeCast
	case strings.Contains(topic, "director"):
		return TypeDirector
	default:
		return TypeYear
	}
}
