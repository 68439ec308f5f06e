// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/storage/badgerstore"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the movie agent a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAskCommand,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChatCommand,
}

func runAskCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	flushTraces := setupTelemetry(cmd.Context(), logger)
	defer flushTraces()

	service, cacheDB, _, err := buildService(logger)
	if err != nil {
		return err
	}
	defer closeCache(cacheDB, logger)

	question := strings.Join(args, " ")
	response, err := service.Chat(cmd.Context(), question, uuid.NewString())
	if err != nil {
		return err
	}

	fmt.Println(response.Answer)
	if len(response.ToolsUsed) > 0 {
		fmt.Printf("\n(tools: %s, %dms)\n", strings.Join(response.ToolsUsed, ", "), response.LatencyMs)
	}
	return nil
}

func runChatCommand(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	flushTraces := setupTelemetry(cmd.Context(), logger)
	defer flushTraces()

	service, cacheDB, _, err := buildService(logger)
	if err != nil {
		return err
	}
	defer closeCache(cacheDB, logger)

	sessionID := uuid.NewString()
	fmt.Println("ReelMind movie chat. Type 'exit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		response, err := service.Chat(cmd.Context(), input, sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(response.Answer)
	}
	return scanner.Err()
}

func closeCache(cacheDB *badgerstore.DB, logger *slog.Logger) {
	if cacheDB == nil {
		return
	}
	if err := cacheDB.Close(); err != nil {
		logger.Warn("failed to close resolution cache", slog.String("error", err.Error()))
	}
}
