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

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/stats"
)

// Per-endpoint request budgets, per session.
const (
	chatRequestsPerMinute   = 20
	posterRequestsPerMinute = 10
)

const sessionCookieName = "session_id"

// =============================================================================
// Request / Response Types
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// QuizStartRequest is the body of POST /quiz/start.
type QuizStartRequest struct {
	QuizType string `json:"quiz_type"`
}

// ClearMemoryRequest is the body of POST /memory/clear.
type ClearMemoryRequest struct {
	All bool `json:"all"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// Session Rate Limiting
// =============================================================================

// sessionLimiters holds one token bucket per session.
type sessionLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newSessionLimiters(perMinute int) *sessionLimiters {
	return &sessionLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *sessionLimiters) allow(sessionID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[sessionID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[sessionID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// =============================================================================
// Handlers
// =============================================================================

// Handlers binds the movie service to gin routes.
type Handlers struct {
	service       *Service
	chatLimiter   *sessionLimiters
	posterLimiter *sessionLimiters
	logger        *slog.Logger
}

// NewHandlers creates the handler set for svc.
func NewHandlers(svc *Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:       svc,
		chatLimiter:   newSessionLimiters(chatRequestsPerMinute),
		posterLimiter: newSessionLimiters(posterRequestsPerMinute),
		logger:        logger,
	}
}

// getOrCreateSessionID reads the session cookie or X-Session-ID header,
// minting and setting a cookie when neither exists.
func getOrCreateSessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-ID"); id != "" {
		return id
	}
	if id, err := c.Cookie(sessionCookieName); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookieName, id, 0, "/", "", false, true)
	return id
}

func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleChat processes one conversation turn.
//
// Request:
//
//	POST /v1/movies/chat
//	{"query": "recommend a sci-fi movie"}
//
// Response:
//
//	200 OK: ChatResponse
//	400 Bad Request: Missing or empty query
//	429 Too Many Requests: Session over its chat budget
//	500 Internal Server Error: Agent failure
func (h *Handlers) HandleChat(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	sessionID := getOrCreateSessionID(c)
	logger := h.logger.With("request_id", requestID, "session_id", sessionID, "handler", "HandleChat")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	if !h.chatLimiter.allow(sessionID) {
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "chat rate limit exceeded",
			Code:  "RATE_LIMITED",
		})
		return
	}

	response, err := h.service.Chat(c.Request.Context(), req.Query, sessionID)
	if err != nil {
		logger.Error("chat turn failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to process message",
			Code:  "CHAT_FAILED",
		})
		return
	}

	logger.Info("chat turn served",
		slog.String("reasoning", response.ReasoningType),
		slog.Int64("latency_ms", response.LatencyMs),
	)
	c.JSON(http.StatusOK, response)
}

// HandlePoster analyzes an uploaded poster image.
//
// Request:
//
//	POST /v1/movies/poster
//	multipart form with an "image" file part
//
// Response:
//
//	200 OK: PosterResponse
//	400 Bad Request: Missing file
//	429 Too Many Requests: Session over its poster budget
//	503 Service Unavailable: Vision disabled
func (h *Handlers) HandlePoster(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	sessionID := getOrCreateSessionID(c)
	logger := h.logger.With("request_id", requestID, "session_id", sessionID, "handler", "HandlePoster")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "image file is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	if !h.posterLimiter.allow(sessionID) {
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "poster rate limit exceeded",
			Code:  "RATE_LIMITED",
		})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		logger.Error("failed to store upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to store upload",
			Code:  "UPLOAD_FAILED",
		})
		return
	}
	defer os.Remove(tmpPath)

	response, err := h.service.AnalyzePoster(c.Request.Context(), tmpPath, sessionID)
	if err != nil {
		logger.Error("poster analysis failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "poster analysis unavailable",
			Code:  "POSTER_FAILED",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// HandleQuizStart activates a quiz without going through chat intent
// detection.
func (h *Handlers) HandleQuizStart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req QuizStartRequest
	// Body is optional: an empty request prompts for a type.
	_ = c.ShouldBindJSON(&req)

	c.JSON(http.StatusOK, h.service.StartQuiz(sessionID, req.QuizType))
}

// HandleStats computes a catalog statistic.
//
// Query Parameters:
//
//	stat: statistic name (required): average_rating, count,
//	      genre_distribution, highest_rated, lowest_rated, top_rated
//	year, year_start, year_end, genre, director: optional filters
//	limit: result cap for top_rated
func (h *Handlers) HandleStats(c *gin.Context) {
	statType := c.Query("stat")
	if statType == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "stat parameter is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	filter := &stats.Filter{
		Genre:    c.Query("genre"),
		Director: c.Query("director"),
	}
	filter.Year, _ = strconv.Atoi(c.Query("year"))
	filter.YearStart, _ = strconv.Atoi(c.Query("year_start"))
	filter.YearEnd, _ = strconv.Atoi(c.Query("year_end"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.service.Stats(statType, filter, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "STATS_FAILED",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleClearMemory clears one session's memory, or every session's
// with {"all": true}.
func (h *Handlers) HandleClearMemory(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req ClearMemoryRequest
	_ = c.ShouldBindJSON(&req)

	if req.All {
		h.service.ClearAllMemory()
	} else {
		h.service.ClearMemory(sessionID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"movies": len(h.service.Movies()),
	})
}

// HandleReady reports readiness: the catalog must be loaded.
func (h *Handlers) HandleReady(c *gin.Context) {
	if len(h.service.Movies()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no catalog loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
