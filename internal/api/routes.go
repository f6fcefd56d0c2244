package api

import (
	"github.com/gin-gonic/gin"

	"github.com/signalmine/painsignal/internal/telemetry"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, tp *telemetry.Provider) {
	// Health, readiness and metrics
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if tp != nil {
		router.GET("/metrics", gin.WrapH(tp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		signals := v1.Group("/signals")
		{
			signals.POST("/score", handler.ScoreSignal)      // POST /api/v1/signals/score
			signals.POST("/score/batch", handler.ScoreBatch) // POST /api/v1/signals/score/batch
		}

		v1.POST("/summary", handler.Summarize) // POST /api/v1/summary
		v1.POST("/analyze", handler.Analyze)   // POST /api/v1/analyze

		v1.GET("/embedding/health", handler.EmbeddingHealth) // GET /api/v1/embedding/health
	}
}
