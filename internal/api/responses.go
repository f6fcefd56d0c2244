package api

import (
	"github.com/signalmine/painsignal/internal/domain"
)

// ScoreRequest carries one fragment for scoring.
type ScoreRequest struct {
	Fragment *domain.RawFragment `json:"fragment" binding:"required"`
}

// ScoreResponse carries a single scored signal.
type ScoreResponse struct {
	Signal       *domain.PainSignal `json:"signal"`
	RulesVersion string             `json:"rules_version"`
}

// BatchScoreRequest carries a fragment batch. The upper bound is enforced
// in the handler against the configured batch limit.
type BatchScoreRequest struct {
	Fragments []*domain.RawFragment `json:"fragments" binding:"required,min=1"`
}

// BatchScoreResponse carries the scored batch. Filtered counts fragments
// dropped by the praise filter when the semantic stage ran.
type BatchScoreResponse struct {
	Signals      []*domain.PainSignal `json:"signals"`
	Total        int                  `json:"total"`
	Filtered     int                  `json:"filtered"`
	RulesVersion string               `json:"rules_version"`
}

// SummaryRequest carries previously scored signals for aggregation.
type SummaryRequest struct {
	Signals []*domain.PainSignal `json:"signals" binding:"required"`
}

// SummaryResponse carries the corpus summary.
type SummaryResponse struct {
	Summary *domain.Summary `json:"summary"`
}

// AnalyzeResponse carries the full pipeline output for one fragment batch.
type AnalyzeResponse struct {
	Signals      []*domain.PainSignal `json:"signals"`
	Summary      *domain.Summary      `json:"summary"`
	RulesVersion string               `json:"rules_version"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
