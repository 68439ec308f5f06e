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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tmc/langchaingo/llms"
)

const visionPrompt = "Describe this movie poster in one or two sentences. " +
	"Mention any visible title text, the people or objects shown, and the overall tone."

// ModelVision captions poster images through a multimodal chat model.
//
// Description:
//
//	Reads the image from disk and sends it as a binary part alongside a
//	fixed captioning prompt. Works with any provider whose model accepts
//	image input (gpt-4o, llava, etc).
//
// Thread Safety: Safe for concurrent use.
type ModelVision struct {
	model  llms.Model
	logger *slog.Logger
}

// NewModelVision wraps model as a VisionTool.
func NewModelVision(model llms.Model, logger *slog.Logger) *ModelVision {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelVision{model: model, logger: logger}
}

// Caption returns a one-sentence visual description of the image.
func (v *ModelVision) Caption(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	message := llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(visionPrompt),
			llms.BinaryPart(http.DetectContentType(data), data),
		},
	}

	response, err := v.model.GenerateContent(ctx, []llms.MessageContent{message})
	if err != nil {
		return "", fmt.Errorf("captioning image: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", ErrNoChoices
	}

	caption := response.Choices[0].Content
	v.logger.Debug("poster captioned",
		slog.String("image", imagePath),
		slog.Int("caption_len", len(caption)),
	)
	return caption, nil
}
