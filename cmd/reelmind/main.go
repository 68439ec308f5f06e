// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command reelmind runs the ReelMind movie agent.
//
// The agent answers movie questions over a local catalog with a
// tool-calling LLM, resolves misspelled titles before retrieval, and
// runs deterministic multiple-choice quizzes.
//
// Usage:
//
//	go run ./cmd/reelmind serve
//	go run ./cmd/reelmind ask "recommend a sci-fi movie about dreams"
//	go run ./cmd/reelmind chat
//
// With Ollama (default provider):
//
//	REELMIND_MODEL_NAME=llama3.1:8b go run ./cmd/reelmind serve
//
// With OpenAI:
//
//	REELMIND_MODEL_PROVIDER=openai REELMIND_MODEL_NAME=gpt-4o-mini \
//	  OPENAI_API_KEY=sk-... go run ./cmd/reelmind serve
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/movies/health
//
//	# One chat turn
//	curl -X POST http://localhost:8080/v1/movies/chat \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "recommend a movie like Inception"}'
//
//	# Catalog statistics
//	curl "http://localhost:8080/v1/movies/stats?stat=top_rated&limit=5"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/agent"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/config"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/resolution"
	"github.com/ReelMindAI/ReelMindFOSS/services/movies/storage/badgerstore"
)

var (
	flagDebug  bool
	flagVision bool
)

var rootCmd = &cobra.Command{
	Use:   "reelmind",
	Short: "Conversational movie recommendation agent",
	Long: "ReelMind answers movie questions over a local catalog with a " +
		"tool-calling LLM, resolves misspelled titles before retrieval, " +
		"and runs deterministic movie quizzes.",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and stdout trace export")
	rootCmd.PersistentFlags().BoolVar(&flagVision, "vision", false, "Enable poster analysis (requires a multimodal model)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// setupTelemetry installs the W3C propagator and, in debug mode, a
// stdout span exporter. The returned function flushes on shutdown.
func setupTelemetry(ctx context.Context, logger *slog.Logger) func() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !flagDebug {
		return func() {}
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		logger.Warn("stdout trace exporter unavailable", slog.String("error", err.Error()))
		return func() {}
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("trace provider shutdown failed", slog.String("error", err.Error()))
		}
	}
}

// buildService loads config, catalog, model, and optional cache/vision,
// and wires the movie service. The returned badger DB may be nil.
func buildService(logger *slog.Logger) (*movies.Service, *badgerstore.DB, config.ServiceConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("loading config: %w", err)
	}

	catalog, err := dataset.NewLoader(cfg.DatasetPath, logger).Load()
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.String("path", cfg.DatasetPath),
		slog.Int("movies", len(catalog)),
	)

	model, err := agent.NewModel(agent.ProviderConfig{
		Provider: cfg.ModelProvider,
		Model:    cfg.ModelName,
		BaseURL:  cfg.ModelBaseURL,
		APIKey:   cfg.ModelAPIKey,
	})
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("creating model: %w", err)
	}

	var vision agent.VisionTool
	if flagVision {
		vision = agent.NewModelVision(model, logger)
	}

	// Resolution cache degrades gracefully: without badger, fuzzy
	// matches are recomputed per query.
	var (
		cacheDB *badgerstore.DB
		cache   resolution.ResultCacheStore
	)
	if cfg.CacheDir != "" {
		cacheDB, err = badgerstore.Open(cfg.CacheDir, logger)
		if err != nil {
			logger.Warn("resolution cache unavailable, continuing without it",
				slog.String("dir", cfg.CacheDir),
				slog.String("error", err.Error()),
			)
			cacheDB = nil
		} else {
			cache = resolution.NewBadgerResultCacheStore(cacheDB, 0, logger)
		}
	}

	service, err := movies.NewService(cfg, catalog, model, vision, cache, logger)
	if err != nil {
		if cacheDB != nil {
			_ = cacheDB.Close()
		}
		return nil, nil, cfg, err
	}
	return service, cacheDB, cfg, nil
}
