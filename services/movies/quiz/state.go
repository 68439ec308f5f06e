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
	"strconv"
	"strings"
)

// =============================================================================
// State
// =============================================================================

// State is the per-session quiz record: active flag, question list with
// answers, current index, score, attempt count, and answer history.
//
// Description:
//
//	Lifecycle is inactive -> active (Activate) -> inactive (Deactivate,
//	either explicit stop or natural completion). Deactivation clears the
//	question data but deliberately preserves quizType (so "next" can
//	restart a quiz of the same type without re-asking), the cached totals
//	(so a final-score screen renders after the data is gone), and the
//	cumulative asked-question ids (so a later round never repeats a
//	question from this session).
//
// Thread Safety: Not safe for concurrent use. One State belongs to one
// session, whose turns arrive serially.
type State struct {
	active       bool
	mode         string
	quizType     string
	currentID    int
	currentIndex int
	attempts     int
	score        int
	data         *Data
	history      []HistoryEntry

	// Survive deactivation.
	asked       map[int]bool
	cachedTotal int
	cachedTopic string
	finalScore  int
}

// NewState creates an inactive State.
func NewState() *State {
	return &State{asked: make(map[int]bool)}
}

// Activate starts a quiz from data, resetting index, attempts, score, and
// history. An empty question list is tolerated and produces an activated
// but immediately-exhausted quiz.
func (s *State) Activate(data *Data) {
	if data == nil {
		data = &Data{}
	}
	s.active = true
	s.data = data
	s.currentIndex = 0
	s.attempts = 0
	s.score = 0
	s.finalScore = 0
	s.history = nil
	s.mode = inferType(data)
	s.quizType = s.mode
	s.cachedTotal = len(data.Questions)
	s.cachedTopic = data.Topic
	if len(data.Questions) > 0 {
		s.currentID = data.Questions[0].ID
	} else {
		s.currentID = 0
	}
}

// Deactivate clears the in-flight quiz. quizType, asked ids, and the
// cached total/topic/final score survive.
func (s *State) Deactivate() {
	s.active = false
	s.mode = ""
	s.currentID = 0
	s.currentIndex = 0
	s.attempts = 0
	s.score = 0
	s.data = nil
	s.history = nil
}

// Reactivate restores the active flag when it has drifted out of sync
// with still-present quiz data. Returns false when there is no data to
// recover from.
func (s *State) Reactivate() bool {
	if s.active || s.data == nil || len(s.data.Questions) == 0 {
		return false
	}
	s.active = true
	return true
}

// IsActive reports whether a quiz is in flight.
func (s *State) IsActive() bool { return s.active }

// IsComplete is true only in the narrow window where the quiz is still
// active but the index has run past the last question.
func (s *State) IsComplete() bool {
	return s.active && s.currentIndex >= s.TotalQuestions()
}

// QuizType returns the session's quiz type. Persists across deactivation.
func (s *State) QuizType() string { return s.quizType }

// Mode returns the active quiz's mode, "" when inactive.
func (s *State) Mode() string { return s.mode }

// Score returns the number of correct answers in the current quiz.
func (s *State) Score() int { return s.score }

// Attempts returns the attempt count for the current question.
func (s *State) Attempts() int { return s.attempts }

// CurrentIndex returns the zero-based index of the current question.
func (s *State) CurrentIndex() int { return s.currentIndex }

// Topic returns the quiz topic, falling back to the cached value after
// deactivation.
func (s *State) Topic() string {
	if s.data != nil && s.data.Topic != "" {
		return s.data.Topic
	}
	return s.cachedTopic
}

// TotalQuestions returns the live question count while quiz data is
// present, and the cached count after deactivation cleared it.
func (s *State) TotalQuestions() int {
	if s.data != nil {
		return len(s.data.Questions)
	}
	return s.cachedTotal
}

// FinalScore returns the snapshot taken when the quiz completed, or the
// live score while the quiz is still running.
func (s *State) FinalScore() int {
	if s.data == nil {
		return s.finalScore
	}
	return s.score
}

// IncrementAttempts bumps the attempt counter for the current question.
func (s *State) IncrementAttempts() { s.attempts++ }

// IncrementScore records one correct answer.
func (s *State) IncrementScore() { s.score++ }

// CurrentQuestion returns the current question with its answer stripped,
// or nil when inactive or out of range. The answer never reaches the
// presentation layer.
func (s *State) CurrentQuestion() *Question {
	if !s.active || s.data == nil || s.currentIndex >= len(s.data.Questions) {
		return nil
	}
	q := s.data.Questions[s.currentIndex]
	q.Answer = ""
	return &q
}

// CheckAnswer validates userAnswer against the current question without
// mutating state.
//
// Description:
//
//	Matching rule, in priority order: a user answer that parses as an
//	integer AND is a valid 1-based index into the options list selects
//	that option's text for comparison; any other answer (including an
//	out-of-range number like a year "1999") is compared directly against
//	the correct answer. Both comparisons are case-insensitive and
//	whitespace-trimmed.
//
// Outputs:
//
//	bool   - Whether the answer is correct.
//	string - The correct answer text, "" when no question is current.
func (s *State) CheckAnswer(userAnswer string) (bool, string) {
	if !s.active || s.data == nil || s.currentIndex >= len(s.data.Questions) {
		return false, ""
	}

	q := s.data.Questions[s.currentIndex]
	correct := strings.ToLower(strings.TrimSpace(q.Answer))
	answer := strings.ToLower(strings.TrimSpace(userAnswer))

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
		selected := strings.ToLower(strings.TrimSpace(q.Options[n-1]))
		return selected == correct, q.Answer
	}

	return answer == correct, q.Answer
}

// RecordAnswer appends a history entry for the current question and marks
// its id as asked. Must be called before AdvanceToNextQuestion so the
// entry lands on the right question.
func (s *State) RecordAnswer(userAnswer string, isCorrect bool) {
	if !s.active || s.data == nil || s.currentIndex >= len(s.data.Questions) {
		return
	}
	q := s.data.Questions[s.currentIndex]
	s.history = append(s.history, HistoryEntry{
		QuestionID:    q.ID,
		Question:      q.Question,
		UserAnswer:    userAnswer,
		CorrectAnswer: q.Answer,
		IsCorrect:     isCorrect,
		Attempts:      s.attempts,
	})
	s.asked[q.ID] = true
}

// History returns the answered-question records for the current quiz.
func (s *State) History() []HistoryEntry { return s.history }

// AskedQuestionIDs returns every question id answered in this session,
// across all quiz rounds. Used to filter repeats out of new quizzes.
func (s *State) AskedQuestionIDs() map[int]bool {
	ids := make(map[int]bool, len(s.asked))
	for id := range s.asked {
		ids[id] = true
	}
	return ids
}

// AdvanceToNextQuestion moves to the next question, resetting attempts.
// On exhaustion it snapshots the final score, deactivates, and returns
// false.
func (s *State) AdvanceToNextQuestion() bool {
	if !s.active {
		return false
	}

	s.currentIndex++
	s.attempts = 0

	if s.currentIndex >= s.TotalQuestions() {
		s.finalScore = s.score
		s.Deactivate()
		return false
	}

	if s.data != nil && s.currentIndex < len(s.data.Questions) {
		s.currentID = s.data.Questions[s.currentIndex].ID
	}
	return true
}
