// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Supported model providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ProviderConfig selects and configures the chat model backend.
type ProviderConfig struct {
	// Provider is the backend to use: "openai" or "ollama".
	Provider string

	// Model is the provider-specific model identifier.
	// Examples: "gpt-4o-mini" (OpenAI), "llama3.1:8b" (Ollama).
	Model string

	// BaseURL is an optional endpoint override.
	// For Ollama: defaults to http://localhost:11434.
	BaseURL string

	// APIKey is the authentication key for cloud providers.
	APIKey string
}

// NewModel builds the chat model for cfg.
func NewModel(cfg ProviderConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating openai model: %w", err)
		}
		return model, nil

	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating ollama model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
