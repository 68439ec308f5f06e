// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package movies is the composition root of the movie agent service:
// it wires the dataset, semantic resolution, retrieval, quiz engine,
// and the tool-calling agent, and orchestrates each conversation turn.
package movies

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/agent"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/config"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/intent"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/quiz"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/resolution"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/retrieval"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/session"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/stats"
)

var serviceTracer = otel.Tracer("reelmind.movies")

// Reasoning paths reported in responses.
const (
	reasoningQuiz        = "quiz"
	reasoningToolCalling = "tool_calling"
)

// =============================================================================
// Response Shapes
// =============================================================================

// ChatResponse is the structured outcome of one chat turn.
type ChatResponse struct {
	Answer             string               `json:"answer"`
	Movies             []dataset.Movie      `json:"movies"`
	ToolsUsed          []string             `json:"tools_used"`
	LLMLatencyMs       int64                `json:"llm_latency_ms"`
	ToolLatencyMs      int64                `json:"tool_latency_ms"`
	LatencyMs          int64                `json:"latency_ms"`
	ReasoningType      string               `json:"reasoning_type"`
	ResolutionMetadata *resolution.Metadata `json:"resolution_metadata,omitempty"`
	QuizData           any                  `json:"quiz_data,omitempty"`
}

// PosterResponse is the outcome of a poster analysis.
type PosterResponse struct {
	Caption        string   `json:"caption"`
	Title          string   `json:"title,omitempty"`
	Mood           string   `json:"mood"`
	Confidence     float64  `json:"confidence"`
	InferredGenres []string `json:"inferred_genres,omitempty"`
}

// =============================================================================
// Service
// =============================================================================

// Service is the single entry point for the HTTP and CLI layers.
//
// Description:
//
//	Each turn runs intent detection against the session's quiz state.
//	Quiz answers, navigation, and starts are handled deterministically
//	here; the model is never consulted for quiz progression. Everything
//	else goes through semantic resolution and then the tool-calling
//	agent. A failed turn leaves session state untouched for the next
//	turn.
//
// Thread Safety: Safe for concurrent use across sessions. Turns within
// one session are expected to be serialized by the caller (one user).
type Service struct {
	cfg        config.ServiceConfig
	movies     []dataset.Movie
	detector   *intent.Detector
	registry   *quiz.Registry
	rewriter   *resolution.QueryRewriter
	calculator *stats.Calculator
	agent      *agent.ToolCallingAgent
	vision     agent.VisionTool
	weaviate   *retrieval.WeaviateRetriever
	logger     *slog.Logger

	quizStates *session.Store[quiz.State]
	memories   *session.Store[session.ConversationMemory]
	contexts   *session.Store[session.Context]
}

// NewService wires the full service. model runs the agent; vision is
// optional (nil disables poster analysis). cache may be nil to skip
// resolution caching.
func NewService(
	cfg config.ServiceConfig,
	movies []dataset.Movie,
	model llms.Model,
	vision agent.VisionTool,
	cache resolution.ResultCacheStore,
	logger *slog.Logger,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// The catalog-derived indexes do not depend on each other and are
	// built concurrently.
	var (
		detector   *intent.Detector
		vocabulary *resolution.Vocabulary
		inner      retrieval.Retriever
		weaviate   *retrieval.WeaviateRetriever
		calculator *stats.Calculator
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if detector, err = intent.NewDetector(); err != nil {
			return fmt.Errorf("loading intent detector: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		vocabulary = resolution.NewVocabulary(movies)
		return nil
	})
	g.Go(func() error {
		switch cfg.RetrievalBackend {
		case config.RetrievalWeaviate:
			var err error
			if weaviate, err = retrieval.NewWeaviateRetriever(cfg.WeaviateScheme, cfg.WeaviateHost, logger); err != nil {
				return fmt.Errorf("building weaviate retriever: %w", err)
			}
			inner = weaviate
		default:
			inner = retrieval.NewBM25Retriever(movies)
		}
		return nil
	})
	g.Go(func() error {
		calculator = stats.NewCalculator(movies)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolver, err := resolution.NewTitleResolver(vocabulary, cfg.FuzzyThreshold, cfg.ConfidenceThreshold, cache, logger)
	if err != nil {
		return nil, fmt.Errorf("building title resolver: %w", err)
	}
	rewriter := resolution.NewQueryRewriter(resolution.NewEntityExtractor(), resolver, cfg.ExtractionEnabled, logger)
	resolving := retrieval.NewResolvingRetriever(inner, rewriter, logger)

	registry := quiz.NewRegistry(time.Now().UnixNano(), logger)

	tools := []agent.Tool{
		agent.NewSearchTool(resolving, cfg.RetrievalTopK),
		agent.NewCompareTool(resolving),
		agent.NewActorLookupTool(movies),
		agent.NewDirectorLookupTool(movies),
		agent.NewYearLookupTool(movies),
		agent.NewStatisticsTool(calculator),
		agent.NewQuizTool(registry, movies),
	}

	return &Service{
		cfg:        cfg,
		movies:     movies,
		detector:   detector,
		registry:   registry,
		rewriter:   rewriter,
		calculator: calculator,
		agent:      agent.NewToolCallingAgent(model, tools, logger),
		vision:     vision,
		weaviate:   weaviate,
		logger:     logger,

		quizStates: session.NewStore(func() *quiz.State { return quiz.NewState() }),
		memories: session.NewStore(func() *session.ConversationMemory {
			return session.NewConversationMemory(cfg.MemoryTurns)
		}),
		contexts: session.NewStore[session.Context](nil),
	}, nil
}

// Movies exposes the loaded catalog.
func (s *Service) Movies() []dataset.Movie { return s.movies }

// Bootstrap prepares external stores. With the weaviate backend it
// creates the schema and ingests the catalog; with bm25 it is a no-op.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.weaviate == nil {
		return nil
	}
	if err := s.weaviate.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring weaviate schema: %w", err)
	}
	if err := s.weaviate.Ingest(ctx, s.movies); err != nil {
		return fmt.Errorf("ingesting catalog: %w", err)
	}
	return nil
}

// Stats computes a catalog statistic.
func (s *Service) Stats(statType string, filter *stats.Filter, limit int) (*stats.Result, error) {
	return s.calculator.Compute(statType, filter, limit)
}

// Chat processes one conversation turn for sessionID.
func (s *Service) Chat(ctx context.Context, query, sessionID string) (*ChatResponse, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	controller := quiz.NewController(s.quizStates.GetOrCreate(sessionID), s.logger)
	kind := s.detector.Detect(query, controller.IsActive())

	ctx, span := serviceTracer.Start(ctx, "movies.Chat",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("intent", string(kind)),
			attribute.Bool("tool_backed", intent.RequiresTool(kind)),
		))
	defer span.End()

	s.logger.Info("chat turn",
		slog.String("session_id", sessionID),
		slog.String("intent", string(kind)),
	)

	var (
		response *ChatResponse
		err      error
	)
	switch kind {
	case intent.KindQuizAnswer:
		response = s.handleQuizAnswer(controller, query)
	case intent.KindQuizNext:
		response = s.handleQuizNavigation(controller, query)
	case intent.KindQuizStart:
		response = s.handleQuizStart(controller, query)
	default:
		response, err = s.handleAgentTurn(ctx, controller, query, sessionID, kind)
	}
	if err != nil {
		return nil, err
	}

	response.LatencyMs = time.Since(start).Milliseconds()
	s.memories.GetOrCreate(sessionID).Record(query, response.Answer)
	return response, nil
}

// handleQuizAnswer scores an answer without advancing; the user
// confirms before the next question is served. A stop phrase typed in
// place of an answer still ends the quiz.
func (s *Service) handleQuizAnswer(controller *quiz.Controller, query string) *ChatResponse {
	if quiz.IsStopPhrase(query) {
		return s.handleQuizNavigation(controller, query)
	}

	feedback, _, _ := controller.HandleAnswer(query)

	answer := feedback
	if controller.IsActive() {
		if controller.IsLastQuestion() {
			answer += "\n\nThat was the last question! Type 'next' to see your final score."
		} else {
			answer += "\n\nType 'next' for the next question, or 'stop' to end the quiz."
		}
	}
	return &ChatResponse{
		Answer:        answer,
		ReasoningType: reasoningQuiz,
		QuizData:      controller.CurrentQuestionPayload(),
	}
}

// handleQuizNavigation advances, stops, or completes the quiz.
func (s *Service) handleQuizNavigation(controller *quiz.Controller, query string) *ChatResponse {
	result := controller.HandleNavigation(query)
	if result.StopQuiz {
		return &ChatResponse{
			Answer:        "Quiz stopped. What else can I help you with?",
			ReasoningType: reasoningQuiz,
		}
	}

	response := &ChatResponse{
		Answer:        result.Answer,
		ReasoningType: reasoningQuiz,
	}
	if result.Question != nil {
		response.QuizData = result.Question
	} else if result.Completion != nil {
		response.QuizData = result.Completion
	}
	return response
}

// handleQuizStart generates and activates a quiz. With no recognizable
// quiz type in the request and none persisted from an earlier round,
// the user is asked to pick one.
func (s *Service) handleQuizStart(controller *quiz.Controller, query string) *ChatResponse {
	quizType := quiz.DetectType(query)
	if quizType == "" {
		quizType = controller.State().QuizType()
	}
	if quizType == "" {
		return &ChatResponse{
			Answer:        quiz.TypePrompt(""),
			ReasoningType: reasoningQuiz,
		}
	}

	data, genErr := s.registry.Generate("movies", s.cfg.QuizQuestions, quizType,
		controller.State().AskedQuestionIDs(), s.movies)
	if genErr != nil {
		return &ChatResponse{
			Answer:        fmt.Sprintf("Sorry, I couldn't build that quiz: %s\n\n%s", genErr.Error, genErr.Note),
			ReasoningType: reasoningQuiz,
		}
	}

	controller.ActivateQuiz(data)
	payload := controller.CurrentQuestionPayload()
	if payload == nil {
		return &ChatResponse{
			Answer:        "You've already answered every question I have! Ask me something else.",
			ReasoningType: reasoningQuiz,
		}
	}

	answer := fmt.Sprintf("%s\n\nQuestion %d of %d:\n%s\nOptions: %s\n\n(Answer with the number or year)",
		quiz.TypePrompt(quizType),
		payload.Progress.Current, payload.Progress.Total,
		payload.Question, strings.Join(payload.Options, ", "))
	return &ChatResponse{
		Answer:        answer,
		ReasoningType: reasoningQuiz,
		QuizData:      payload,
	}
}

// StartQuiz activates a quiz directly, bypassing intent detection. An
// empty quizType falls back to the session's previous type, then to the
// type prompt.
func (s *Service) StartQuiz(sessionID, quizType string) *ChatResponse {
	controller := quiz.NewController(s.quizStates.GetOrCreate(sessionID), s.logger)
	response := s.handleQuizStart(controller, quizType)
	s.memories.GetOrCreate(sessionID).Record("start quiz", response.Answer)
	return response
}

// handleAgentTurn runs the resolution + agent path.
func (s *Service) handleAgentTurn(ctx context.Context, controller *quiz.Controller, query, sessionID string, kind intent.Kind) (*ChatResponse, error) {
	resolved, metadata := s.rewriter.ResolveQuery(ctx, query)

	history := s.memories.GetOrCreate(sessionID).History()
	contextText := s.posterContext(sessionID)
	if tool, ok := intent.ToolFor(kind); ok {
		hint := fmt.Sprintf("The %s tool is the most relevant for this request.", tool)
		if contextText != "" {
			contextText += "\n"
		}
		contextText += hint
	}

	result, err := s.agent.Run(ctx, resolved, history, contextText)
	if err != nil {
		// Session state is untouched: the next turn starts clean.
		s.logger.Error("agent turn failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("agent turn: %w", err)
	}

	response := &ChatResponse{
		Answer:        result.Answer,
		Movies:        result.Movies,
		ToolsUsed:     result.ToolsUsed,
		LLMLatencyMs:  result.Latencies.ModelMs,
		ToolLatencyMs: result.Latencies.ToolsMs,
		ReasoningType: reasoningToolCalling,
	}
	if metadata.Changed() {
		response.ResolutionMetadata = metadata
	}

	// A quiz generated by the model's tool call still activates
	// deterministically here.
	if result.QuizData != nil {
		controller.ActivateQuiz(result.QuizData)
		response.QuizData = controller.CurrentQuestionPayload()
	}
	return response, nil
}

// posterContext renders the session's poster memory for the agent
// prompt, "" when none exists.
func (s *Service) posterContext(sessionID string) string {
	sessionContext, ok := s.contexts.Get(sessionID)
	if !ok || !sessionContext.HasPoster() {
		return ""
	}
	poster := sessionContext.Poster()

	var b strings.Builder
	b.WriteString("The user uploaded a movie poster.")
	if poster.HasTitle() {
		fmt.Fprintf(&b, " It was identified as %q.", poster.Title)
	}
	if poster.Mood != "" {
		fmt.Fprintf(&b, " Mood: %s.", poster.Mood)
	}
	if len(poster.InferredGenres) > 0 {
		fmt.Fprintf(&b, " Inferred genres: %s.", strings.Join(poster.InferredGenres, ", "))
	}
	if poster.Caption != "" {
		fmt.Fprintf(&b, " Visual description: %s", poster.Caption)
	}
	return b.String()
}

// AnalyzePoster captions the image, infers title/mood/genres from the
// caption against the catalog, and remembers the result for follow-up
// questions in the session.
func (s *Service) AnalyzePoster(ctx context.Context, imagePath, sessionID string) (*PosterResponse, error) {
	if s.vision == nil {
		return nil, fmt.Errorf("poster analysis is not configured")
	}

	caption, err := s.vision.Caption(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("captioning poster: %w", err)
	}

	analysis := analyzeCaption(caption, s.movies)
	s.contexts.GetOrCreate(sessionID).SetPoster(&session.PosterContext{
		Caption:        analysis.Caption,
		Title:          analysis.Title,
		Mood:           analysis.Mood,
		Confidence:     analysis.Confidence,
		InferredGenres: analysis.InferredGenres,
	})

	s.logger.Info("poster analyzed",
		slog.String("session_id", sessionID),
		slog.String("title", analysis.Title),
		slog.Float64("confidence", analysis.Confidence),
	)
	return analysis, nil
}

// ClearMemory drops all state for one session.
func (s *Service) ClearMemory(sessionID string) {
	s.quizStates.Clear(sessionID)
	s.memories.Clear(sessionID)
	s.contexts.Clear(sessionID)
	s.logger.Info("session memory cleared", slog.String("session_id", sessionID))
}

// ClearAllMemory drops every session.
func (s *Service) ClearAllMemory() {
	s.quizStates.ClearAll()
	s.memories.ClearAll()
	s.contexts.ClearAll()
	s.logger.Info("all session memory cleared")
}
