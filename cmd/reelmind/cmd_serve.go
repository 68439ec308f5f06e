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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the movie agent HTTP server",
	RunE:  runServeCommand,
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flushTraces := setupTelemetry(ctx, logger)
	defer flushTraces()

	service, cacheDB, cfg, err := buildService(logger)
	if err != nil {
		return err
	}
	if cacheDB != nil {
		defer func() {
			if err := cacheDB.Close(); err != nil {
				logger.Warn("failed to close resolution cache", slog.String("error", err.Error()))
			}
		}()
	}

	if err := service.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping retrieval backend: %w", err)
	}

	if flagDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("reelmind-movies"))
	if flagDebug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	movies.RegisterRoutes(v1, movies.NewHandlers(service, logger))

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	printBanner(cfg.ListenAddr, len(service.Movies()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", cfg.ListenAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func printBanner(addr string, catalogSize int) {
	fmt.Fprintf(os.Stderr, `
ReelMind Movie Agent
====================
Address:  http://localhost%s
Catalog:  %d movies
Health:   GET  /v1/movies/health
Chat:     POST /v1/movies/chat

`, addr, catalogSize)
}
