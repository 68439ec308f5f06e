// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package movies

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the movie agent API under rg.
//
// Endpoints:
//
//	POST /v1/movies/chat - One conversation turn
//	POST /v1/movies/poster - Poster image analysis
//	POST /v1/movies/quiz/start - Direct quiz activation
//	GET  /v1/movies/stats - Catalog statistics
//	POST /v1/movies/memory/clear - Clear session memory
//
// Health Endpoints:
//
//	GET  /v1/movies/health - Health check
//	GET  /v1/movies/ready - Readiness check
//
// Example:
//
//	svc, _ := movies.NewService(cfg, catalog, model, vision, cache, logger)
//	handlers := movies.NewHandlers(svc, logger)
//
//	v1 := router.Group("/v1")
//	movies.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	moviesGroup := rg.Group("/movies")
	{
		// Conversation
		moviesGroup.POST("/chat", handlers.HandleChat)
		moviesGroup.POST("/poster", handlers.HandlePoster)
		moviesGroup.POST("/quiz/start", handlers.HandleQuizStart)

		// Catalog
		moviesGroup.GET("/stats", handlers.HandleStats)

		// Memory management
		moviesGroup.POST("/memory/clear", handlers.HandleClearMemory)

		// Health checks
		moviesGroup.GET("/health", handlers.HandleHealth)
		moviesGroup.GET("/ready", handlers.HandleReady)
	}
}
