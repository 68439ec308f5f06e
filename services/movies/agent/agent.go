// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent runs the tool-calling model loop for general movie
// questions. Quiz progression never goes through here; the service layer
// handles it deterministically.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/quiz"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	agentToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelmind",
		Subsystem: "agent",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name",
	}, []string{"tool"})

	agentTurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reelmind",
		Subsystem: "agent",
		Name:      "turn_duration_seconds",
		Help:      "Wall time of one agent turn",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

var agentTracer = otel.Tracer("reelmind.movies.agent")

// maxToolRounds bounds the model/tool loop. A model that keeps asking
// for tools past this point gets cut off with whatever it has.
const maxToolRounds = 4

const systemPrompt = `You are a movie recommendation assistant with access to a curated movie catalog.
Use the provided tools to ground every factual claim in catalog data. Prefer a single
tool call with the right arguments over many narrow calls. If the catalog has no
answer, say so instead of guessing. Keep answers concise and conversational.`

// ErrNoChoices is returned when the model produces an empty response.
var ErrNoChoices = errors.New("model returned no choices")

// =============================================================================
// Result
// =============================================================================

// Latencies splits a turn's wall time between the model and the tools.
type Latencies struct {
	ModelMs int64 `json:"model_ms"`
	ToolsMs int64 `json:"tools_ms"`
}

// Result is the outcome of one agent turn.
type Result struct {
	Answer     string          `json:"answer"`
	Movies     []dataset.Movie `json:"movies,omitempty"`
	ToolsUsed  []string        `json:"tools_used,omitempty"`
	Confidence float64         `json:"confidence"`
	Latencies  Latencies       `json:"latencies"`
	QuizData   *quiz.Data      `json:"quiz_data,omitempty"`
}

// =============================================================================
// Vision
// =============================================================================

// VisionTool captions an image. The implementation is an opaque
// collaborator; the agent only consumes its text output.
type VisionTool interface {
	Caption(ctx context.Context, imagePath string) (string, error)
}

// =============================================================================
// Tool-Calling Agent
// =============================================================================

// ToolCallingAgent drives a bounded model/tool loop.
//
// Description:
//
//	Each turn sends the conversation to the model with the tool
//	definitions attached. Tool calls are executed locally and their JSON
//	results appended as tool messages; the loop repeats until the model
//	answers in text or the round bound is hit. Tool failures are fed
//	back to the model as error payloads, never surfaced as turn errors.
//
// Thread Safety: Not safe for concurrent use (tools carry per-turn
// state). The service creates one agent per process and serializes
// turns through it.
type ToolCallingAgent struct {
	model  llms.Model
	tools  []Tool
	byName map[string]Tool
	logger *slog.Logger
}

// NewToolCallingAgent creates an agent over model with tools.
func NewToolCallingAgent(model llms.Model, tools []Tool, logger *slog.Logger) *ToolCallingAgent {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &ToolCallingAgent{model: model, tools: tools, byName: byName, logger: logger}
}

// Run executes one turn. history and contextText are optional prompt
// enrichments: prior conversation and poster/session context.
func (a *ToolCallingAgent) Run(ctx context.Context, query, history, contextText string) (*Result, error) {
	start := time.Now()
	defer func() { agentTurnDuration.Observe(time.Since(start).Seconds()) }()

	ctx, span := agentTracer.Start(ctx, "agent.Run",
		trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	for _, t := range a.tools {
		if qt, ok := t.(*QuizTool); ok {
			qt.Reset()
		}
	}

	messages := a.buildMessages(query, history, contextText)
	definitions := make([]llms.Tool, 0, len(a.tools))
	for _, t := range a.tools {
		definitions = append(definitions, t.Definition())
	}

	result := &Result{}
	for round := 0; round <= maxToolRounds; round++ {
		modelStart := time.Now()
		resp, err := a.model.GenerateContent(ctx, messages, llms.WithTools(definitions))
		result.Latencies.ModelMs += time.Since(modelStart).Milliseconds()
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, ErrNoChoices
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 || round == maxToolRounds {
			result.Answer = choice.Content
			break
		}

		messages = append(messages, assistantToolCallMessage(choice.ToolCalls))

		toolStart := time.Now()
		for _, call := range choice.ToolCalls {
			output := a.executeCall(ctx, call, result)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: call.ID,
					Name:       call.FunctionCall.Name,
					Content:    output,
				}},
			})
		}
		result.Latencies.ToolsMs += time.Since(toolStart).Milliseconds()
	}

	result.Confidence = confidenceFor(result)
	span.SetAttributes(
		attribute.Int("tools_used", len(result.ToolsUsed)),
		attribute.Float64("confidence", result.Confidence),
	)
	a.logger.Info("agent turn complete",
		slog.Int("tools_used", len(result.ToolsUsed)),
		slog.Int64("model_ms", result.Latencies.ModelMs),
		slog.Int64("tools_ms", result.Latencies.ToolsMs),
	)
	return result, nil
}

func (a *ToolCallingAgent) buildMessages(query, history, contextText string) []llms.MessageContent {
	system := systemPrompt
	if contextText != "" {
		system += "\n\nSession context:\n" + contextText
	}
	if history != "" {
		system += "\n\nConversation so far:\n" + history
	}
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}
}

// executeCall runs one tool call, recording its outcome on result.
func (a *ToolCallingAgent) executeCall(ctx context.Context, call llms.ToolCall, result *Result) string {
	if call.FunctionCall == nil {
		return toolError("malformed tool call")
	}
	name := call.FunctionCall.Name
	agentToolCallsTotal.WithLabelValues(name).Inc()

	tool, ok := a.byName[name]
	if !ok {
		a.logger.Warn("model requested unknown tool", slog.String("tool", name))
		return toolError(fmt.Sprintf("unknown tool %q", name))
	}

	output := tool.Execute(ctx, json.RawMessage(call.FunctionCall.Arguments))
	result.ToolsUsed = append(result.ToolsUsed, name)
	collectResultData(output, result)

	if qt, ok := tool.(*QuizTool); ok && qt.Generated() != nil {
		result.QuizData = qt.Generated()
	}
	return output
}

// collectResultData lifts movies out of tool output JSON onto the
// result so the response can list them structurally.
func collectResultData(output string, result *Result) {
	var payload struct {
		Movies []movieSummary `json:"movies"`
	}
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		return
	}
	for _, s := range payload.Movies {
		result.Movies = append(result.Movies, dataset.Movie{
			Title:      s.Title,
			Year:       s.Year,
			Genres:     s.Genres,
			IMDbRating: s.Rating,
			Director:   s.Director,
			Stars:      s.Stars,
		})
	}
}

// confidenceFor grades the answer by how grounded it is: tool-backed
// answers with catalog hits score highest, pure-chat answers lowest.
func confidenceFor(result *Result) float64 {
	switch {
	case len(result.ToolsUsed) > 0 && (len(result.Movies) > 0 || result.QuizData != nil):
		return 0.9
	case len(result.ToolsUsed) > 0:
		return 0.6
	default:
		return 0.4
	}
}

func assistantToolCallMessage(calls []llms.ToolCall) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call)
	}
	return llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts}
}
