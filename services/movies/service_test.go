// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package movies

import (
	"context"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/agent"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/config"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/quiz"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/retrieval"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/stats"
)

// mockModel replays scripted responses, one per GenerateContent call.
type mockModel struct {
	responses []*llms.ContentResponse
	calls     int
	received  [][]llms.MessageContent
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.received = append(m.received, messages)
	if m.calls >= len(m.responses) {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "out of script"}}}, nil
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

// mockVision returns a fixed caption.
type mockVision struct {
	caption string
	err     error
}

func (v *mockVision) Caption(ctx context.Context, imagePath string) (string, error) {
	return v.caption, v.err
}

func testMovies() []dataset.Movie {
	return []dataset.Movie{
		{Title: "The Matrix", Year: 1999, IMDbRating: 8.7, Genres: []string{"Action", "Sci-Fi"}, Director: "Lana Wachowski", Stars: []string{"Keanu Reeves"}},
		{Title: "Inception", Year: 2010, IMDbRating: 8.8, Genres: []string{"Sci-Fi", "Thriller"}, Director: "Christopher Nolan", Stars: []string{"Leonardo DiCaprio"}},
		{Title: "Interstellar", Year: 2014, IMDbRating: 8.7, Genres: []string{"Drama", "Sci-Fi"}, Director: "Christopher Nolan", Stars: []string{"Matthew McConaughey"}},
		{Title: "The Hangover", Year: 2009, IMDbRating: 7.7, Genres: []string{"Comedy"}, Director: "Todd Phillips", Stars: []string{"Bradley Cooper"}},
	}
}

func newTestService(t *testing.T, model llms.Model, vision *mockVision) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.QuizQuestions = 3

	var visionTool agent.VisionTool
	if vision != nil {
		visionTool = vision
	}

	service, err := NewService(cfg, testMovies(), model, visionTool, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service
}

// newAgentForTest swaps in an agent driven by a fresh scripted model.
func newAgentForTest(model llms.Model) *agent.ToolCallingAgent {
	movies := testMovies()
	retriever := retrieval.NewBM25Retriever(movies)
	tools := []agent.Tool{
		agent.NewSearchTool(retriever, 5),
		agent.NewCompareTool(retriever),
	}
	return agent.NewToolCallingAgent(model, tools, nil)
}

// =============================================================================
// Quiz Turn Tests
// =============================================================================

func TestChat_QuizRoundTrip(t *testing.T) {
	model := &mockModel{}
	service := newTestService(t, model, nil)
	ctx := context.Background()

	// Start a year quiz.
	resp, err := service.Chat(ctx, "quiz me on movie years", "s1")
	if err != nil {
		t.Fatalf("quiz start: %v", err)
	}
	if resp.ReasoningType != reasoningQuiz {
		t.Errorf("reasoning = %q, want quiz", resp.ReasoningType)
	}
	payload, ok := resp.QuizData.(*quiz.QuestionPayload)
	if !ok {
		t.Fatalf("quiz data = %T, want *quiz.QuestionPayload", resp.QuizData)
	}
	if payload.Progress.Current != 1 {
		t.Errorf("progress = %d, want 1", payload.Progress.Current)
	}
	if !strings.Contains(resp.Answer, "Question 1 of") {
		t.Errorf("answer %q missing question header", resp.Answer)
	}

	// Answer with the correct year text.
	correctYear := ""
	for _, option := range payload.Options {
		if strings.Contains(payload.Question, "The Matrix") && option == "1999" {
			correctYear = option
		}
	}
	answerText := payload.Options[0]
	if correctYear != "" {
		answerText = correctYear
	}
	resp, err = service.Chat(ctx, answerText, "s1")
	if err != nil {
		t.Fatalf("quiz answer: %v", err)
	}
	if !strings.Contains(resp.Answer, "next") {
		t.Errorf("answer %q should prompt for next", resp.Answer)
	}

	// Navigate forward.
	resp, err = service.Chat(ctx, "next", "s1")
	if err != nil {
		t.Fatalf("quiz next: %v", err)
	}
	if resp.ReasoningType != reasoningQuiz {
		t.Errorf("reasoning = %q, want quiz", resp.ReasoningType)
	}
	if resp.QuizData == nil {
		t.Error("navigation should carry quiz data")
	}

	// The model was never consulted for any quiz turn.
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0 for quiz turns", model.calls)
	}
}

func TestChat_QuizStop(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)
	ctx := context.Background()

	if _, err := service.Chat(ctx, "start a year quiz", "s1"); err != nil {
		t.Fatalf("quiz start: %v", err)
	}
	resp, err := service.Chat(ctx, "stop", "s1")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !strings.Contains(resp.Answer, "stopped") {
		t.Errorf("answer = %q, want stop acknowledgment", resp.Answer)
	}

	// Follow-up turns route to the agent again.
	model := &mockModel{responses: []*llms.ContentResponse{textResponse("Sure!")}}
	service.agent = newAgentForTest(model)
	resp, err = service.Chat(ctx, "recommend something funny", "s1")
	if err != nil {
		t.Fatalf("post-stop turn: %v", err)
	}
	if resp.ReasoningType != reasoningToolCalling {
		t.Errorf("reasoning = %q, want tool_calling after stop", resp.ReasoningType)
	}
}

func TestChat_QuizStartWithoutType(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)

	resp, err := service.Chat(context.Background(), "let's play a quiz", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Answer, "What type of quiz") {
		t.Errorf("answer = %q, want the type prompt", resp.Answer)
	}
	if resp.QuizData != nil {
		t.Error("no quiz should be active before a type is chosen")
	}
}

// =============================================================================
// Agent Turn Tests
// =============================================================================

func TestChat_AgentTurnRecordsMemory(t *testing.T) {
	model := &mockModel{responses: []*llms.ContentResponse{
		textResponse("Try Inception."),
		textResponse("It is from 2010."),
	}}
	service := newTestService(t, model, nil)
	ctx := context.Background()

	resp, err := service.Chat(ctx, "recommend a mind-bending movie", "s1")
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if resp.Answer != "Try Inception." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.ReasoningType != reasoningToolCalling {
		t.Errorf("reasoning = %q, want tool_calling", resp.ReasoningType)
	}

	// The second turn's prompt carries the first exchange.
	if _, err := service.Chat(ctx, "what year is it from?", "s1"); err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if len(model.received) != 2 {
		t.Fatalf("model calls = %d, want 2", len(model.received))
	}
	system := renderedText(model.received[1][0])
	if !strings.Contains(system, "Try Inception.") {
		t.Errorf("second turn prompt missing first answer:\n%s", system)
	}
}

func TestNewService_WarmsCatalogIndexes(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)

	// The statistics snapshot, title vocabulary, and intent tables are
	// all built before NewService returns.
	result, err := service.Stats("count", &stats.Filter{Genre: "Sci-Fi"}, 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("count = %d, want 3", result.Count)
	}
}

func TestChat_ToolHintInPrompt(t *testing.T) {
	model := &mockModel{responses: []*llms.ContentResponse{
		textResponse("Try The Matrix."),
		textResponse("Hi there!"),
	}}
	service := newTestService(t, model, nil)
	ctx := context.Background()

	// A search intent steers the model toward its tool.
	if _, err := service.Chat(ctx, "recommend a good sci-fi movie", "hint1"); err != nil {
		t.Fatalf("search turn: %v", err)
	}
	system := renderedText(model.received[0][0])
	if !strings.Contains(system, "movie_search tool") {
		t.Errorf("search prompt missing tool hint:\n%s", system)
	}

	// Chit chat has no backing tool and gets no hint.
	if _, err := service.Chat(ctx, "hello", "hint2"); err != nil {
		t.Fatalf("chit chat turn: %v", err)
	}
	system = renderedText(model.received[1][0])
	if strings.Contains(system, "most relevant for this request") {
		t.Errorf("chit chat prompt carries a tool hint:\n%s", system)
	}
}

func TestChat_ResolutionMetadataOnTypo(t *testing.T) {
	model := &mockModel{responses: []*llms.ContentResponse{textResponse("Found it.")}}
	service := newTestService(t, model, nil)

	resp, err := service.Chat(context.Background(), `find the movie "Inceptoin"`, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ResolutionMetadata == nil {
		t.Fatal("expected resolution metadata for a misspelled title")
	}
	if !resp.ResolutionMetadata.Changed() {
		t.Error("metadata should report a change")
	}
}

func TestChat_EmptyQuery(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)
	if _, err := service.Chat(context.Background(), "   ", "s1"); err == nil {
		t.Fatal("expected error for empty query")
	}
}

// =============================================================================
// Poster Tests
// =============================================================================

func TestAnalyzePoster_MatchesCatalogTitle(t *testing.T) {
	vision := &mockVision{caption: "three men on a rooftop after a wild hangover party"}
	service := newTestService(t, &mockModel{}, vision)
	ctx := context.Background()

	resp, err := service.AnalyzePoster(ctx, "poster.jpg", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "The Hangover" {
		t.Errorf("title = %q, want The Hangover", resp.Title)
	}
	if resp.Mood != "Comedic" {
		t.Errorf("mood = %q, want Comedic from the comedy genre", resp.Mood)
	}

	// The next agent turn sees the poster context.
	model := &mockModel{responses: []*llms.ContentResponse{textResponse("Looks fun!")}}
	service.agent = newAgentForTest(model)
	if _, err := service.Chat(ctx, "what do you think of this one?", "s1"); err != nil {
		t.Fatalf("chat after poster: %v", err)
	}
	system := renderedText(model.received[0][0])
	if !strings.Contains(system, "The Hangover") {
		t.Errorf("prompt missing poster context:\n%s", system)
	}
}

func TestAnalyzePoster_WithoutVision(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)
	if _, err := service.AnalyzePoster(context.Background(), "poster.jpg", "s1"); err == nil {
		t.Fatal("expected error when vision is not configured")
	}
}

// =============================================================================
// Memory Tests
// =============================================================================

func TestClearMemory_ResetsQuizAndHistory(t *testing.T) {
	service := newTestService(t, &mockModel{}, nil)
	ctx := context.Background()

	if _, err := service.Chat(ctx, "start a year quiz", "s1"); err != nil {
		t.Fatalf("quiz start: %v", err)
	}
	service.ClearMemory("s1")

	// Without an active quiz, "next" no longer routes to navigation.
	resp, err := service.Chat(ctx, "1999", "s1")
	if err != nil {
		t.Fatalf("post-clear turn: %v", err)
	}
	if resp.ReasoningType == reasoningQuiz {
		t.Error("quiz state survived ClearMemory")
	}
}

// =============================================================================
// Caption Analysis Tests
// =============================================================================

func TestAnalyzeCaption(t *testing.T) {
	movies := testMovies()

	tests := []struct {
		name      string
		caption   string
		wantTitle string
		wantMood  string
	}{
		{"matrix match", "a man in a long coat, the matrix of green code behind him", "The Matrix", "Thrilling"},
		{"hangover match", "a hangover after a bachelor party", "The Hangover", "Comedic"},
		{"no match thrilling caption", "an explosion behind a running figure", "", "Thrilling"},
		{"no match neutral caption", "a quiet landscape under clouds", "", "Neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzeCaption(tt.caption, movies)
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Mood != tt.wantMood {
				t.Errorf("mood = %q, want %q", got.Mood, tt.wantMood)
			}
		})
	}
}

func TestAnalyzeCaption_Confidence(t *testing.T) {
	movies := testMovies()

	matched := analyzeCaption("the matrix code", movies)
	if matched.Confidence != 0.7 {
		t.Errorf("one-keyword confidence = %v, want 0.7", matched.Confidence)
	}
	unmatched := analyzeCaption("a quiet landscape", movies)
	if unmatched.Confidence != 0.3 {
		t.Errorf("unmatched confidence = %v, want 0.3", unmatched.Confidence)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// renderedText flattens one message's text parts.
func renderedText(message llms.MessageContent) string {
	var b strings.Builder
	for _, part := range message.Parts {
		if text, ok := part.(llms.TextContent); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
