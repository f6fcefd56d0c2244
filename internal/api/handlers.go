// Package api exposes the scoring pipeline over HTTP with gin.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signalmine/painsignal/internal/aggregate"
	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/processor"
	"github.com/signalmine/painsignal/internal/scorer"
)

// EmbeddingHealthChecker reports embedding collaborator reachability.
// Implemented by embedding.Client; nil when the collaborator is disabled.
type EmbeddingHealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles HTTP requests for the pain-signal API.
type Handler struct {
	scorer     *scorer.Scorer
	pipeline   *processor.Pipeline
	lexical    *processor.Pipeline
	aggregator *aggregate.Aggregator
	embedding  EmbeddingHealthChecker
	batchLimit int
	service    string
	version    string
	logger     logger.Logger
}

// HandlerConfig bundles the handler's collaborators. Lexical is the
// pipeline without the semantic stage, used when classify is not requested.
type HandlerConfig struct {
	Scorer     *scorer.Scorer
	Pipeline   *processor.Pipeline
	Lexical    *processor.Pipeline
	Aggregator *aggregate.Aggregator
	Embedding  EmbeddingHealthChecker
	BatchLimit int
	Service    string
	Version    string
	Logger     logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		scorer:     cfg.Scorer,
		pipeline:   cfg.Pipeline,
		lexical:    cfg.Lexical,
		aggregator: cfg.Aggregator,
		embedding:  cfg.Embedding,
		batchLimit: cfg.BatchLimit,
		service:    cfg.Service,
		version:    cfg.Version,
		logger:     log,
	}
}

// ScoreSignal handles POST /api/v1/signals/score. Single fragments go
// through the lexical pipeline only; the semantic stage is batch-oriented.
func (h *Handler) ScoreSignal(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	signal := h.scorer.Score(req.Fragment)

	h.logger.Info("fragment scored",
		logger.String("signal_id", signal.ID),
		logger.Float64("score", signal.Score),
		logger.String("intensity", string(signal.Intensity)),
	)

	c.JSON(http.StatusOK, ScoreResponse{
		Signal:       signal,
		RulesVersion: h.scorer.RulesVersion(),
	})
}

// ScoreBatch handles POST /api/v1/signals/score/batch. The classify query
// parameter opts in to the semantic stage.
func (h *Handler) ScoreBatch(c *gin.Context) {
	var req BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch score request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Fragments) > h.batchLimit {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("batch size %d exceeds limit %d", len(req.Fragments), h.batchLimit),
		})
		return
	}

	pipeline := h.lexical
	if c.Query("classify") == "true" {
		pipeline = h.pipeline
	}

	signals := pipeline.Process(c.Request.Context(), req.Fragments)

	h.logger.Info("batch scored",
		logger.Int("fragments", len(req.Fragments)),
		logger.Int("signals", len(signals)),
	)

	c.JSON(http.StatusOK, BatchScoreResponse{
		Signals:      signals,
		Total:        len(req.Fragments),
		Filtered:     len(req.Fragments) - len(signals),
		RulesVersion: h.scorer.RulesVersion(),
	})
}

// Summarize handles POST /api/v1/summary. Pure in-process aggregation of
// previously scored signals.
func (h *Handler) Summarize(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid summary request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary := h.aggregator.Summarize(req.Signals)
	c.JSON(http.StatusOK, SummaryResponse{Summary: summary})
}

// Analyze handles POST /api/v1/analyze: the full pipeline, fragments in,
// signals plus summary out.
func (h *Handler) Analyze(c *gin.Context) {
	var req BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Fragments) > h.batchLimit {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("batch size %d exceeds limit %d", len(req.Fragments), h.batchLimit),
		})
		return
	}

	signals, summary := h.pipeline.Analyze(c.Request.Context(), req.Fragments)

	h.logger.Info("corpus analyzed",
		logger.Int("fragments", len(req.Fragments)),
		logger.Int("signals", len(signals)),
		logger.String("confidence", string(summary.Confidence)),
	)

	c.JSON(http.StatusOK, AnalyzeResponse{
		Signals:      signals,
		Summary:      summary,
		RulesVersion: h.scorer.RulesVersion(),
	})
}

// EmbeddingHealth handles GET /api/v1/embedding/health.
func (h *Handler) EmbeddingHealth(c *gin.Context) {
	if h.embedding == nil {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}
	if err := h.embedding.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unreachable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. The lexical pipeline has no external
// dependencies; the service is ready as soon as the rules compiled.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"rules_version": h.scorer.RulesVersion(),
	})
}
