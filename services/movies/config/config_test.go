// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import "testing"

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration must validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REELMIND_LISTEN_ADDR", ":9090")
	t.Setenv("REELMIND_FUZZY_THRESHOLD", "0.8")
	t.Setenv("REELMIND_EXTRACTION_ENABLED", "false")
	t.Setenv("REELMIND_RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.FuzzyThreshold != 0.8 {
		t.Errorf("FuzzyThreshold = %v, want 0.8", cfg.FuzzyThreshold)
	}
	if cfg.ExtractionEnabled {
		t.Error("ExtractionEnabled = true, want false")
	}
	if cfg.RateLimitPerMinute != 5 {
		t.Errorf("RateLimitPerMinute = %d, want 5", cfg.RateLimitPerMinute)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
	}{
		{"threshold above one", func(c *ServiceConfig) { c.FuzzyThreshold = 1.5 }},
		{"threshold zero", func(c *ServiceConfig) { c.ConfidenceThreshold = 0 }},
		{"unknown backend", func(c *ServiceConfig) { c.RetrievalBackend = "elastic" }},
		{"weaviate without host", func(c *ServiceConfig) { c.RetrievalBackend = RetrievalWeaviate; c.WeaviateHost = "" }},
		{"unknown provider", func(c *ServiceConfig) { c.ModelProvider = "bedrock" }},
		{"empty model", func(c *ServiceConfig) { c.ModelName = "" }},
		{"zero rate limit", func(c *ServiceConfig) { c.RateLimitPerMinute = 0 }},
		{"zero quiz questions", func(c *ServiceConfig) { c.QuizQuestions = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestLoad_BadEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("REELMIND_RETRIEVAL_TOP_K", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RetrievalTopK != Default().RetrievalTopK {
		t.Errorf("RetrievalTopK = %d, want default", cfg.RetrievalTopK)
	}
}
