// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import "strings"

// PosterContext is the remembered outcome of a poster analysis: what the
// vision layer saw and what was inferred from it.
type PosterContext struct {
	Caption        string   `json:"caption"`
	Title          string   `json:"title,omitempty"`
	Mood           string   `json:"mood"`
	Confidence     float64  `json:"confidence"`
	InferredGenres []string `json:"inferred_genres,omitempty"`
}

// HasTitle reports whether the analysis identified a movie title.
func (p *PosterContext) HasTitle() bool {
	return p != nil && strings.TrimSpace(p.Title) != ""
}

// Context is the per-session conversational context outside the quiz:
// currently the most recent poster analysis. Follow-up questions
// ("what genre is it?") resolve against it.
//
// Thread Safety: Not safe for concurrent use; the service serializes
// turns per session.
type Context struct {
	poster *PosterContext
}

// SetPoster records a poster analysis, replacing any previous one.
func (c *Context) SetPoster(p *PosterContext) { c.poster = p }

// Poster returns the remembered poster analysis, nil when none exists.
func (c *Context) Poster() *PosterContext { return c.poster }

// HasPoster reports whether a poster analysis is remembered.
func (c *Context) HasPoster() bool { return c.poster != nil }

// ClearPoster forgets the remembered poster analysis.
func (c *Context) ClearPoster() { c.poster = nil }
