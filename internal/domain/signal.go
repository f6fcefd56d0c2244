package domain

import "time"

// Intensity buckets a 0-10 pain score.
type Intensity string

// Intensity constants
const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Intensity thresholds.
const (
	intensityHighMin   = 7.0
	intensityMediumMin = 4.0
)

// IntensityForScore derives the intensity bucket from a clamped 0-10 score.
func IntensityForScore(score float64) Intensity {
	switch {
	case score >= intensityHighMin:
		return IntensityHigh
	case score >= intensityMediumMin:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// WTPConfidence labels how strongly a fragment expresses purchase intent.
type WTPConfidence string

// WTPConfidence constants
const (
	WTPNone   WTPConfidence = "none"
	WTPLow    WTPConfidence = "low"
	WTPMedium WTPConfidence = "medium"
	WTPHigh   WTPConfidence = "high"
)

// Emotion is the dominant emotion label detected in a fragment.
type Emotion string

// Emotion constants
const (
	EmotionFrustration    Emotion = "frustration"
	EmotionAnxiety        Emotion = "anxiety"
	EmotionDisappointment Emotion = "disappointment"
	EmotionConfusion      Emotion = "confusion"
	EmotionHope           Emotion = "hope"
	EmotionNeutral        Emotion = "neutral"
)

// Category is one of the five semantic complaint categories assigned by the
// embedding-based classifier.
type Category string

// Category constants
const (
	CategoryPricing     Category = "pricing"
	CategoryAds         Category = "ads"
	CategoryContent     Category = "content"
	CategoryPerformance Category = "performance"
	CategoryFeatures    Category = "features"
)

// ScoreBreakdown holds the intermediate lexical-match counts for one
// fragment. It is diagnostic output, never persisted.
type ScoreBreakdown struct {
	HighCount      int      `json:"high_count"`
	MediumCount    int      `json:"medium_count"`
	LowCount       int      `json:"low_count"`
	SolutionCount  int      `json:"solution_count"`
	WTPStrongCount int      `json:"wtp_strong_count"`
	WTPMediumCount int      `json:"wtp_medium_count"`
	WTPLowCount    int      `json:"wtp_low_count"`
	MatchedTags    []string `json:"matched_tags"`

	HasNegativeContext bool `json:"has_negative_context"`
	HasExclusionMatch  bool `json:"has_exclusion_match"`

	// StrongestSignal is the first high or medium keyword matched, kept
	// for diagnostics.
	StrongestSignal string `json:"strongest_signal,omitempty"`
}

// PainCount returns the total count of pain-tier matches.
func (b *ScoreBreakdown) PainCount() int {
	return b.HighCount + b.MediumCount + b.LowCount
}

// WTPCount returns the total count of willingness-to-pay matches.
func (b *ScoreBreakdown) WTPCount() int {
	return b.WTPStrongCount + b.WTPMediumCount + b.WTPLowCount
}

// PainSignal is the normalized per-fragment output of the scoring pipeline.
// Created once per fragment and never mutated; re-scoring produces a new
// value.
type PainSignal struct {
	ID               string        `json:"id"`
	Text             string        `json:"text"`
	Score            float64       `json:"score"` // 0.0-10.0 inclusive
	Intensity        Intensity     `json:"intensity"`
	Tags             []string      `json:"tags"`
	SolutionSeeking  bool          `json:"solution_seeking"`
	WillingnessToPay bool          `json:"willingness_to_pay"`
	WTPConfidence    WTPConfidence `json:"wtp_confidence"`
	Emotion          Emotion       `json:"emotion"`
	Tier             Tier          `json:"tier,omitempty"`

	// Semantic classification, present only when the embedding stage ran.
	Category           Category `json:"category,omitempty"`
	CategoryConfidence float64  `json:"category_confidence,omitempty"`

	// Source metadata carried through unchanged.
	Source        Source     `json:"source"`
	Community     string     `json:"community,omitempty"`
	URL           string     `json:"url,omitempty"`
	EngagementRaw int        `json:"engagement_raw"`
	CommentCount  int        `json:"comment_count"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	Rating        *int       `json:"rating,omitempty"`

	// RecencyMultiplier is the multiplier applied during weighting, kept
	// so aggregation can derive the corpus recency score without
	// recomputing ages.
	RecencyMultiplier float64 `json:"recency_multiplier"`

	ScoredAt time.Time `json:"scored_at"`
}
