package scorer

import (
	"math"
	"time"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/rules"
)

// Recency bucket boundaries in days and their multipliers. Fragments
// without a timestamp use the neutral multiplier.
const (
	recencyFreshDays   = 30
	recencyRecentDays  = 90
	recencyNeutralDays = 180
	recencyAgingDays   = 365

	recencyFreshMultiplier   = 1.5
	recencyRecentMultiplier  = 1.25
	recencyNeutralMultiplier = 1.0
	recencyAgingMultiplier   = 0.75
	recencyStaleMultiplier   = 0.5
)

// engagementMultiplier rescales the raw score by log-scaled engagement.
// Deliberately capped low so viral posts cannot dominate the corpus.
func engagementMultiplier(engagement int, params rules.ScoringParams) float64 {
	if engagement <= 1 {
		return 1.0
	}
	m := 1.0 + math.Log10(float64(engagement))*params.EngagementLogFactor
	return math.Min(params.EngagementCap, m)
}

// recencyMultiplier rescales the raw score by fragment age. Boundaries are
// inclusive: a fragment aged exactly 30 days still gets the fresh
// multiplier.
func recencyMultiplier(fragment *domain.RawFragment, now time.Time) float64 {
	ageDays, known := fragment.AgeDays(now)
	if !known {
		return recencyNeutralMultiplier
	}
	switch {
	case ageDays <= recencyFreshDays:
		return recencyFreshMultiplier
	case ageDays <= recencyRecentDays:
		return recencyRecentMultiplier
	case ageDays <= recencyNeutralDays:
		return recencyNeutralMultiplier
	case ageDays <= recencyAgingDays:
		return recencyAgingMultiplier
	default:
		return recencyStaleMultiplier
	}
}

// rawScore sums tier counts weighted by their configured tier weights.
func rawScore(b *domain.ScoreBreakdown, params rules.ScoringParams) float64 {
	score := float64(b.HighCount)*params.HighWeight +
		float64(b.MediumCount)*params.MediumWeight +
		float64(b.LowCount)*params.LowWeight +
		float64(b.SolutionCount)*params.SolutionWeight +
		float64(b.WTPCount())*params.WTPWeight
	return score
}
