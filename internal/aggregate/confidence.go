package aggregate

import (
	"math"

	"github.com/signalmine/painsignal/internal/domain"
)

// Confidence model constants. Quality-weighted, not volume-only: a small
// corpus of high-intensity, purchase-intent signals outranks a large pile
// of exploratory chatter.
const (
	qualityWeightHigh   = 3.0
	qualityWeightMedium = 2.0
	qualityWeightLow    = 0.5
	qualityWeightWTP    = 4.0

	qualityScale     = 3.0
	volumeLogDivisor = 2.0

	// Penalty when the corpus is dominated by low-intensity signals.
	lowDominanceRatio   = 0.7
	lowDominanceMinHigh = 5
	lowDominancePenalty = 0.6

	// Bonus when high-intensity signals are prominent.
	highProminenceRatio = 0.3
	highProminenceCount = 20
	highProminenceBonus = 1.2

	confidenceHighMin   = 6.0
	confidenceMediumMin = 3.0
	confidenceLowMin    = 1.0
)

// computeConfidence rates the summary from its own fields. Deterministic;
// monotonic in the proportion of high-intensity signals at fixed volume.
func computeConfidence(s *domain.Summary) domain.Confidence {
	total := s.TotalSignals
	if total == 0 {
		return domain.ConfidenceVeryLow
	}

	qualityScore := float64(s.HighIntensityCount)*qualityWeightHigh +
		float64(s.MediumIntensityCount)*qualityWeightMedium +
		float64(s.LowIntensityCount)*qualityWeightLow +
		float64(s.WTPCount)*qualityWeightWTP

	qualityRatio := qualityScore / float64(total)
	volumeFactor := math.Min(1, math.Log10(math.Max(1, float64(total)))/volumeLogDivisor)
	score := qualityRatio * qualityScale * volumeFactor

	lowShare := float64(s.LowIntensityCount) / float64(total)
	if lowShare > lowDominanceRatio && s.HighIntensityCount < lowDominanceMinHigh {
		score *= lowDominancePenalty
	}

	highShare := float64(s.HighIntensityCount) / float64(total)
	if highShare > highProminenceRatio || s.HighIntensityCount > highProminenceCount {
		score *= highProminenceBonus
	}

	switch {
	case score >= confidenceHighMin:
		return domain.ConfidenceHigh
	case score >= confidenceMediumMin:
		return domain.ConfidenceMedium
	case score >= confidenceLowMin:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceVeryLow
	}
}
