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

import (
	"fmt"
	"strings"
)

const defaultMaxTurns = 10

// Turn is one user/assistant exchange.
type Turn struct {
	UserMessage string
	Response    string
}

// ConversationMemory is a bounded FIFO buffer of recent turns. No
// embeddings, no persistence: recency beats similarity for pronoun
// resolution ("compare them", "that movie").
//
// Thread Safety: Not safe for concurrent use; the service serializes
// turns per session.
type ConversationMemory struct {
	turns    []Turn
	maxTurns int
}

// NewConversationMemory creates a memory keeping at most maxTurns turns.
// Non-positive maxTurns uses the default of 10.
func NewConversationMemory(maxTurns int) *ConversationMemory {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &ConversationMemory{maxTurns: maxTurns}
}

// Record appends a turn, evicting the oldest when full.
func (m *ConversationMemory) Record(userMessage, response string) {
	m.turns = append(m.turns, Turn{UserMessage: userMessage, Response: response})
	if len(m.turns) > m.maxTurns {
		m.turns = m.turns[len(m.turns)-m.maxTurns:]
	}
}

// RecentTurns returns the most recent k turns, oldest first.
func (m *ConversationMemory) RecentTurns(k int) []Turn {
	if k <= 0 || len(m.turns) == 0 {
		return nil
	}
	if k > len(m.turns) {
		k = len(m.turns)
	}
	out := make([]Turn, k)
	copy(out, m.turns[len(m.turns)-k:])
	return out
}

// Len returns the number of buffered turns.
func (m *ConversationMemory) Len() int { return len(m.turns) }

// History renders the buffer as a chat transcript for prompt injection.
// Empty when nothing was recorded.
func (m *ConversationMemory) History() string {
	if len(m.turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range m.turns {
		fmt.Fprintf(&b, "User: %s\n", t.UserMessage)
		if t.Response != "" {
			fmt.Fprintf(&b, "Assistant: %s\n", t.Response)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Clear drops all buffered turns.
func (m *ConversationMemory) Clear() { m.turns = nil }
