// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the movie service configuration
// from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Retrieval backends.
const (
	RetrievalBM25     = "bm25"
	RetrievalWeaviate = "weaviate"
)

// ServiceConfig is the full configuration of the movie service.
// Validation tags follow go-playground/validator v10 syntax.
type ServiceConfig struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string `validate:"required"`

	// DatasetPath is the movie catalog CSV.
	DatasetPath string `validate:"required"`

	// CacheDir holds the badger resolution cache. Empty disables caching.
	CacheDir string

	// RateLimitPerMinute bounds chat requests per client.
	RateLimitPerMinute int `validate:"min=1,max=10000"`

	// FuzzyThreshold is the minimum fuzzy match score in [0,1].
	FuzzyThreshold float64 `validate:"gt=0,lte=1"`

	// ConfidenceThreshold is the minimum confidence for accepting a
	// resolution in [0,1].
	ConfidenceThreshold float64 `validate:"gt=0,lte=1"`

	// ExtractionEnabled toggles entity extraction before resolution.
	// Disabled, whole queries are resolved as single candidates.
	ExtractionEnabled bool

	// RetrievalBackend selects the retriever: "bm25" or "weaviate".
	RetrievalBackend string `validate:"oneof=bm25 weaviate"`

	// WeaviateScheme and WeaviateHost locate the Weaviate instance,
	// required when RetrievalBackend is "weaviate".
	WeaviateScheme string `validate:"required_if=RetrievalBackend weaviate,omitempty,oneof=http https"`
	WeaviateHost   string `validate:"required_if=RetrievalBackend weaviate"`

	// RetrievalTopK is how many documents each retrieval returns.
	RetrievalTopK int `validate:"min=1,max=50"`

	// ModelProvider is the chat model backend: "openai" or "ollama".
	ModelProvider string `validate:"oneof=openai ollama"`

	// ModelName is the provider-specific model identifier.
	ModelName string `validate:"required"`

	// ModelBaseURL is an optional endpoint override.
	ModelBaseURL string `validate:"omitempty,url"`

	// ModelAPIKey authenticates cloud providers. Loaded from
	// OPENAI_API_KEY.
	ModelAPIKey string

	// QuizQuestions is the default question count per quiz round.
	QuizQuestions int `validate:"min=1,max=20"`

	// MemoryTurns bounds the per-session conversation buffer.
	MemoryTurns int `validate:"min=1,max=100"`
}

// Default returns the configuration used when no environment overrides
// are present.
func Default() ServiceConfig {
	return ServiceConfig{
		ListenAddr:          ":8080",
		DatasetPath:         "data/movies.csv",
		CacheDir:            "",
		RateLimitPerMinute:  20,
		FuzzyThreshold:      0.75,
		ConfidenceThreshold: 0.75,
		ExtractionEnabled:   true,
		RetrievalBackend:    RetrievalBM25,
		WeaviateScheme:      "http",
		RetrievalTopK:       5,
		ModelProvider:       "ollama",
		ModelName:           "llama3.1:8b",
		QuizQuestions:       3,
		MemoryTurns:         10,
	}
}

// Load builds the configuration from environment variables on top of
// the defaults, then validates it.
func Load() (ServiceConfig, error) {
	cfg := Default()

	envString(&cfg.ListenAddr, "REELMIND_LISTEN_ADDR")
	envString(&cfg.DatasetPath, "REELMIND_DATASET_PATH")
	envString(&cfg.CacheDir, "REELMIND_CACHE_DIR")
	envInt(&cfg.RateLimitPerMinute, "REELMIND_RATE_LIMIT_PER_MINUTE")
	envFloat(&cfg.FuzzyThreshold, "REELMIND_FUZZY_THRESHOLD")
	envFloat(&cfg.ConfidenceThreshold, "REELMIND_CONFIDENCE_THRESHOLD")
	envBool(&cfg.ExtractionEnabled, "REELMIND_EXTRACTION_ENABLED")
	envString(&cfg.RetrievalBackend, "REELMIND_RETRIEVAL_BACKEND")
	envString(&cfg.WeaviateScheme, "REELMIND_WEAVIATE_SCHEME")
	envString(&cfg.WeaviateHost, "REELMIND_WEAVIATE_HOST")
	envInt(&cfg.RetrievalTopK, "REELMIND_RETRIEVAL_TOP_K")
	envString(&cfg.ModelProvider, "REELMIND_MODEL_PROVIDER")
	envString(&cfg.ModelName, "REELMIND_MODEL_NAME")
	envString(&cfg.ModelBaseURL, "REELMIND_MODEL_BASE_URL")
	envString(&cfg.ModelAPIKey, "OPENAI_API_KEY")
	envInt(&cfg.QuizQuestions, "REELMIND_QUIZ_QUESTIONS")
	envInt(&cfg.MemoryTurns, "REELMIND_MEMORY_TURNS")

	if err := cfg.Validate(); err != nil {
		return ServiceConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c ServiceConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
