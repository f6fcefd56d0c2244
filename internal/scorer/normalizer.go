package scorer

import (
	"math"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/rules"
)

// finalizeScore converts the weighted raw score into the bounded 0-10
// intensity score. Order matters: caps are applied before bonuses so
// exploratory-only fragments cannot be rescued to high-pain status by a
// WTP bonus, and the negative-context penalty discounts the fully
// assembled score last.
func finalizeScore(weighted float64, b *domain.ScoreBreakdown, params rules.ScoringParams) float64 {
	score := math.Min(weighted, params.MaxScore)

	lowOnly := b.HighCount == 0 && b.MediumCount == 0 && b.LowCount > 0
	switch {
	case lowOnly && b.SolutionCount == 0:
		if score > params.LowOnlyCap {
			score = params.LowOnlyCap
		}
		score -= params.LowOnlyPenalty
	case lowOnly:
		if score > params.LowSolutionCap {
			score = params.LowSolutionCap
		}
	}

	if WTPConfidenceFor(b) == domain.WTPHigh && !b.HasExclusionMatch {
		score = math.Min(params.MaxScore, score+params.WTPHighBonus)
	}

	if b.HighCount > 0 && b.SolutionCount > 0 {
		score = math.Min(params.MaxScore, score+params.HighSolutionBonus)
	}

	if b.HasNegativeContext {
		score *= params.NegativeContextFactor
	}

	if score < 0 {
		score = 0
	}

	// One decimal place.
	return math.Round(score*10) / 10
}
