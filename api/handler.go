// Package api exposes the backtest runner over HTTP with gin.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/journal"
)

const HealthMessage = "Backtest Service is running"

// Backtester runs one backtest request.
type Backtester interface {
	Run(ctx context.Context, req backtest.Request) backtest.Result
}

// Handler serves the backtest endpoints.
type Handler struct {
	runner Backtester
	runs   journal.Reader
	logger *slog.Logger
}

// NewHandler creates a handler. runs may be nil, in which case the run
// history endpoints are not registered.
func NewHandler(runner Backtester, runs journal.Reader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{runner: runner, runs: runs, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/backtest")
	{
		api.POST("/analyze", h.Analyze)
		api.GET("/health", h.Health)
		if h.runs != nil {
			api.GET("/runs", h.ListRuns)
			api.GET("/runs/:id", h.GetRun)
		}
	}
}

// NewRouter returns a gin engine with recovery, request logging and the
// handler's routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	h.RegisterRoutes(router)
	return router
}

// Analyze runs a backtest. A body without symbols or dates is a 400;
// every other outcome, including a failed run, is a 200 carrying the
// result.
func (h *Handler) Analyze(c *gin.Context) {
	var req backtest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Symbols) == 0 || req.StartDate == "" || req.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "symbols, startDate and endDate are required"})
		return
	}

	res := h.runner.Run(c.Request.Context(), req)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}

// ListRuns returns recorded runs, newest first, without snapshots.
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid limit"})
		return
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list runs failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	out := make([]runView, 0, len(runs))
	for _, r := range runs {
		out = append(out, newRunView(r))
	}
	c.JSON(http.StatusOK, out)
}

// GetRun returns one recorded run with its history.
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.logger.Error("get run failed", "run_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newRunView(run))
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
