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
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	quizAnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelmind",
		Subsystem: "quiz",
		Name:      "answers_total",
		Help:      "Answer outcomes: correct, incorrect, inactive, complete",
	}, []string{"outcome"})

	quizSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelmind",
		Subsystem: "quiz",
		Name:      "sessions_total",
		Help:      "Quiz lifecycle events: activated, completed, stopped, recovered",
	}, []string{"event"})
)

// =============================================================================
// Payloads
// =============================================================================

// Progress locates the user inside the quiz, 1-based.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// QuestionPayload is the presentation-layer view of the current question.
// Never carries the answer.
type QuestionPayload struct {
	QuizActive bool     `json:"quiz_active"`
	QuestionID int      `json:"question_id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Progress   Progress `json:"progress"`
	Topic      string   `json:"topic"`
	Mode       string   `json:"mode"`
}

// CompletionPayload is the final-score view rendered after the last
// question. Totals come from the state's cache because deactivation has
// already cleared the question data.
type CompletionPayload struct {
	QuizActive   bool   `json:"quiz_active"`
	QuizComplete bool   `json:"quiz_complete"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Topic        string `json:"topic"`
}

// NavigationResult is the outcome of one navigation turn. Exactly one of
// Question and Completion is set when StopQuiz is false; both are nil
// when the user stopped the quiz (the caller falls through to normal
// handling).
type NavigationResult struct {
	Question   *QuestionPayload
	Completion *CompletionPayload
	Answer     string
	StopQuiz   bool
}

// stopPhrases end a quiz mid-run. Defined here, not in the service
// layer: the controller owns quiz lifecycle vocabulary.
var stopPhrases = []string{
	"no", "n", "nope", "stop", "quit", "end", "exit", "done", "finish",
	"enough", "finish game", "quit game", "end game", "stop game",
	"finish quiz", "quit quiz", "end quiz", "stop quiz",
}

// =============================================================================
// Controller
// =============================================================================

// Controller is the orchestration facade over State: the only component
// permitted to decide quiz progression.
//
// Description:
//
//	Validates answers, advances the index, detects completion, builds the
//	user-facing question and completion payloads, and recovers from an
//	active flag that desynchronized from the quiz data. LLM output is
//	non-deterministic; it is never consulted for progression decisions.
//
// Thread Safety: Not safe for concurrent use; owns a per-session State.
type Controller struct {
	state  *State
	logger *slog.Logger
}

// NewController creates a Controller over state.
func NewController(state *State, logger *slog.Logger) *Controller {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{state: state, logger: logger}
}

// State exposes the managed quiz state.
func (c *Controller) State() *State { return c.state }

// IsActive reports whether a quiz is in flight.
func (c *Controller) IsActive() bool { return c.state.IsActive() }

// IsComplete reports whether the active quiz has run out of questions.
func (c *Controller) IsComplete() bool { return c.state.IsComplete() }

// IsLastQuestion reports whether the current question is the final one.
func (c *Controller) IsLastQuestion() bool {
	if !c.state.IsActive() {
		return false
	}
	return c.state.CurrentIndex()+1 >= c.state.TotalQuestions()
}

// Score returns the current score.
func (c *Controller) Score() int { return c.state.Score() }

// TotalQuestions returns the question count (cached after deactivation).
func (c *Controller) TotalQuestions() int { return c.state.TotalQuestions() }

// ActivateQuiz starts a quiz, first filtering out any question whose id
// was already asked earlier in this session. This is what prevents a
// user from seeing a repeat when continuing with the same quiz type.
func (c *Controller) ActivateQuiz(data *Data) {
	if data != nil && len(data.Questions) > 0 {
		asked := c.state.AskedQuestionIDs()
		if len(asked) > 0 {
			fresh := data.Questions[:0:0]
			for _, q := range data.Questions {
				if !asked[q.ID] {
					fresh = append(fresh, q)
				}
			}
			data.Questions = fresh
		}
	}

	c.state.Activate(data)
	quizSessionsTotal.WithLabelValues("activated").Inc()
	c.logger.Debug("quiz activated",
		slog.Int("questions", c.state.TotalQuestions()),
		slog.String("quiz_type", c.state.QuizType()),
	)
}

// DeactivateQuiz stops the quiz and returns to normal flow.
func (c *Controller) DeactivateQuiz() {
	if c.state.IsActive() {
		c.state.Deactivate()
		quizSessionsTotal.WithLabelValues("stopped").Inc()
		c.logger.Info("quiz deactivated by controller")
	}
}

// HandleAnswer processes one answer submission against the current
// question.
//
// Description:
//
//	Guards first: an inactive quiz gets a recovery attempt (reactivate
//	from still-present data when the active flag desynchronized) and
//	otherwise an apologetic message; a completed quiz gets a "already
//	complete" message. Neither is an error. Otherwise the controller
//	increments attempts, checks the answer, updates the score, and
//	records history. It does NOT advance: feedback is shown first and the
//	next question waits for the user's confirmation, so one turn never
//	carries two questions.
//
// Outputs:
//
//	string - User-facing feedback message.
//	bool   - Whether the answer was correct.
//	string - The correct answer text, "" on the guard paths.
func (c *Controller) HandleAnswer(userAnswer string) (string, bool, string) {
	if !c.state.IsActive() {
		if c.state.Reactivate() {
			quizSessionsTotal.WithLabelValues("recovered").Inc()
			c.logger.Warn("quiz state desync: reactivated from retained quiz data")
		} else {
			c.logger.Warn("handle_answer called but quiz is not active")
			quizAnswersTotal.WithLabelValues("inactive").Inc()
			return "No quiz is currently active. Would you like to start one?", false, ""
		}
	}

	if c.state.IsComplete() {
		c.logger.Warn("handle_answer called but quiz is complete")
		quizAnswersTotal.WithLabelValues("complete").Inc()
		return "The quiz is already complete!", false, ""
	}

	// Check before advancing: the answer must land on the current
	// question, not the next one.
	c.state.IncrementAttempts()
	isCorrect, correctAnswer := c.state.CheckAnswer(userAnswer)
	if isCorrect {
		c.state.IncrementScore()
	}
	c.state.RecordAnswer(userAnswer, isCorrect)

	var feedback string
	if isCorrect {
		quizAnswersTotal.WithLabelValues("correct").Inc()
		feedback = fmt.Sprintf("Great job! The answer was %s. Well done!", correctAnswer)
	} else {
		quizAnswersTotal.WithLabelValues("incorrect").Inc()
		feedback = fmt.Sprintf("Not quite. The correct answer was %s. Don't worry, try again next time!", correctAnswer)
	}

	// No auto-advance: the user confirms ("yes", "next", "continue")
	// before the next question is served.
	c.logger.Info("answer processed",
		slog.Bool("correct", isCorrect),
		slog.Int("score", c.state.Score()),
		slog.Int("total", c.state.TotalQuestions()),
		slog.Int("question_index", c.state.CurrentIndex()),
	)
	return feedback, isCorrect, correctAnswer
}

// AdvanceToNextQuestion moves to the next question after the user
// confirmed. Returns false when the quiz completed (and deactivated).
func (c *Controller) AdvanceToNextQuestion() bool {
	if !c.state.IsActive() {
		c.logger.Warn("advance called but quiz is not active")
		return false
	}

	hasMore := c.state.AdvanceToNextQuestion()
	c.logger.Info("question advanced",
		slog.Bool("has_more", hasMore),
		slog.Int("question_index", c.state.CurrentIndex()),
		slog.Int("score", c.state.Score()),
	)
	return hasMore
}

// CurrentQuestionPayload builds the display view of the current question,
// nil when no quiz is active or the index is out of range.
func (c *Controller) CurrentQuestionPayload() *QuestionPayload {
	if !c.state.IsActive() {
		return nil
	}
	q := c.state.CurrentQuestion()
	if q == nil {
		return nil
	}

	topic := c.state.Topic()
	if topic == "" {
		topic = "movies"
	}
	return &QuestionPayload{
		QuizActive: true,
		QuestionID: q.ID,
		Question:   q.Question,
		Options:    q.Options,
		Progress: Progress{
			Current: c.state.CurrentIndex() + 1,
			Total:   c.state.TotalQuestions(),
		},
		Topic: topic,
		Mode:  c.state.Mode(),
	}
}

// CompletionData builds the final-score view. Works after deactivation
// via the state's cached totals.
func (c *Controller) CompletionData() *CompletionPayload {
	topic := c.state.Topic()
	if topic == "" {
		topic = "movies"
	}
	return &CompletionPayload{
		QuizActive:   false,
		QuizComplete: true,
		Score:        c.state.FinalScore(),
		Total:        c.state.TotalQuestions(),
		Topic:        topic,
	}
}

// CompleteQuiz force-finishes the quiz and returns the completion view.
func (c *Controller) CompleteQuiz() *CompletionPayload {
	for c.state.IsActive() {
		if !c.state.AdvanceToNextQuestion() {
			break
		}
	}
	return c.CompletionData()
}

// HandleNavigation processes a mid-quiz navigation turn ("next",
// "continue", "stop").
//
// Description:
//
//	Stop phrases deactivate the quiz and signal the caller to fall
//	through to normal handling. Anything else means "continue": advance,
//	then either serve the next question or, when that was the last one,
//	build the tiered completion message (perfect / at least 70% / below)
//	and prompt for another round.
func (c *Controller) HandleNavigation(userInput string) NavigationResult {
	input := strings.ToLower(strings.TrimSpace(userInput))

	if isStopPhrase(input) {
		c.DeactivateQuiz()
		c.logger.Info("user requested to stop quiz")
		return NavigationResult{StopQuiz: true}
	}

	hasMore := c.AdvanceToNextQuestion()
	if hasMore {
		payload := c.CurrentQuestionPayload()
		if payload == nil {
			c.logger.Error("advance reported more questions but none is current",
				slog.Bool("active", c.state.IsActive()),
				slog.Int("index", c.state.CurrentIndex()),
				slog.Int("total", c.state.TotalQuestions()),
			)
			return NavigationResult{Answer: "Error: Could not get next question."}
		}

		answer := fmt.Sprintf("Question %d of %d:\n%s\nOptions: %s\n\n(Answer with the number or year)",
			payload.Progress.Current, payload.Progress.Total,
			payload.Question, strings.Join(payload.Options, ", "))
		c.logger.Info("serving question",
			slog.Int("current", payload.Progress.Current),
			slog.Int("total", payload.Progress.Total),
		)
		return NavigationResult{Question: payload, Answer: answer}
	}

	// That was the last question: advancing completed the quiz.
	completion := c.CompletionData()
	quizSessionsTotal.WithLabelValues("completed").Inc()

	var scoreMessage string
	switch {
	case completion.Score == completion.Total:
		scoreMessage = fmt.Sprintf("Perfect score! You got all %d questions correct! Amazing work!", completion.Total)
	case float64(completion.Score) >= float64(completion.Total)*0.7:
		scoreMessage = fmt.Sprintf("Great job! You got %d out of %d correct! Well done!", completion.Score, completion.Total)
	default:
		scoreMessage = fmt.Sprintf("You got %d out of %d correct. Keep practicing!", completion.Score, completion.Total)
	}

	answer := fmt.Sprintf("%s\n\nQuiz Complete!\n\nWould you like to play again? (Type 'yes', 'play', or 'let's play')", scoreMessage)
	c.logger.Info("quiz completed",
		slog.Int("score", completion.Score),
		slog.Int("total", completion.Total),
	)
	return NavigationResult{Completion: completion, Answer: answer}
}

// IsStopPhrase reports whether input asks to end the quiz. Callers use
// it to divert a would-be answer ("stop") into navigation.
func IsStopPhrase(input string) bool {
	return isStopPhrase(strings.ToLower(strings.TrimSpace(input)))
}

// isStopPhrase matches exact stop phrases and inputs containing a
// compound stop phrase ("quit quiz please").
func isStopPhrase(input string) bool {
	for _, phrase := range stopPhrases {
		if input == phrase {
			return true
		}
	}
	for _, phrase := range stopPhrases {
		if strings.Contains(phrase, " ") && strings.Contains(input, phrase) {
			return true
		}
	}
	// Single-word stop phrases still stop when they appear as a whole
	// word ("nope thanks"), but never as a substring of another word
	// ("north" contains "no").
	for _, word := range strings.Fields(input) {
		for _, phrase := range stopPhrases {
			if !strings.Contains(phrase, " ") && word == phrase {
				return true
			}
		}
	}
	return false
}
