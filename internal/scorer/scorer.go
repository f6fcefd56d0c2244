// Package scorer implements the per-fragment pain scoring pipeline:
// lexical tier matching, context filtering, temporal and engagement
// weighting, and score normalization.
package scorer

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/rules"
	"github.com/signalmine/painsignal/internal/telemetry"
)

// Scorer turns RawFragments into PainSignals. Pure CPU-bound computation
// with no I/O; safe for concurrent use across fragments.
type Scorer struct {
	table   *rules.Compiled
	lexical *LexicalScorer
	context *ContextFilter
	emotion *EmotionLabeler
	logger  logger.Logger

	// telemetry is optional; nil disables metric recording.
	telemetry *telemetry.Provider

	// now is injectable for deterministic age calculations in tests.
	now func() time.Time
}

// NewScorer creates a scorer over a compiled rules table.
func NewScorer(table *rules.Compiled, log logger.Logger) *Scorer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scorer{
		table:   table,
		lexical: NewLexicalScorer(table),
		context: NewContextFilter(table),
		emotion: NewEmotionLabeler(table),
		logger:  log,
		now:     time.Now,
	}
}

// WithClock overrides the scorer's time source. Intended for tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// WithTelemetry attaches a telemetry provider for context-filter metrics.
func (s *Scorer) WithTelemetry(tp *telemetry.Provider) *Scorer {
	s.telemetry = tp
	return s
}

// RulesVersion returns the version string of the loaded rules table.
func (s *Scorer) RulesVersion() string {
	return s.table.Version
}

// Breakdown runs the lexical scorer and context filter only, returning the
// intermediate counts. Exposed for diagnostics and tests.
func (s *Scorer) Breakdown(fragment *domain.RawFragment) domain.ScoreBreakdown {
	text := fragment.Text
	if fragment.Title != "" {
		text = fragment.Title + " " + text
	}

	hasExclusion := s.context.HasWTPExclusion(text)
	breakdown := s.lexical.Score(text, hasExclusion)
	breakdown.HasExclusionMatch = hasExclusion
	breakdown.HasNegativeContext = s.context.HasNegativeContext(text)
	return breakdown
}

// Score produces the PainSignal for one fragment. Malformed or empty text
// yields a zero score with empty tags rather than an error.
func (s *Scorer) Score(fragment *domain.RawFragment) *domain.PainSignal {
	now := s.now()
	breakdown := s.Breakdown(fragment)

	if s.telemetry != nil {
		s.telemetry.RecordContextFlags(breakdown.HasNegativeContext, breakdown.HasExclusionMatch)
	}

	raw := rawScore(&breakdown, s.table.Params)
	engagement := engagementMultiplier(fragment.EngagementRaw, s.table.Params)
	recency := recencyMultiplier(fragment, now)
	weighted := raw * engagement * recency

	score := finalizeScore(weighted, &breakdown, s.table.Params)

	text := fragment.Text
	if fragment.Title != "" {
		text = fragment.Title + " " + text
	}

	tags := append([]string(nil), breakdown.MatchedTags...)
	sort.Strings(tags)

	id := fragment.ID
	if id == "" {
		id = uuid.NewString()
	}

	signal := &domain.PainSignal{
		ID:                id,
		Text:              fragment.Text,
		Score:             score,
		Intensity:         domain.IntensityForScore(score),
		Tags:              tags,
		SolutionSeeking:   breakdown.SolutionCount > 0,
		WillingnessToPay:  breakdown.WTPCount() > 0 && !breakdown.HasExclusionMatch,
		WTPConfidence:     WTPConfidenceFor(&breakdown),
		Emotion:           s.emotion.Label(text),
		Tier:              fragment.Tier,
		Source:            fragment.Source,
		Community:         fragment.Community,
		URL:               fragment.URL,
		EngagementRaw:     fragment.EngagementRaw,
		CommentCount:      fragment.CommentCount,
		CreatedAt:         fragment.CreatedAt,
		Rating:            fragment.Rating,
		RecencyMultiplier: recency,
		ScoredAt:          now,
	}

	s.logger.Debug("fragment scored",
		logger.String("signal_id", signal.ID),
		logger.Float64("score", signal.Score),
		logger.String("intensity", string(signal.Intensity)),
		logger.String("strongest_signal", breakdown.StrongestSignal),
		logger.Bool("wtp", signal.WillingnessToPay),
		logger.Bool("negative_context", breakdown.HasNegativeContext),
	)

	return signal
}

// ScoreBatch scores fragments sequentially. Callers needing parallelism
// use the processor worker pool; the per-fragment path stays allocation
// light either way.
func (s *Scorer) ScoreBatch(fragments []*domain.RawFragment) []*domain.PainSignal {
	signals := make([]*domain.PainSignal, 0, len(fragments))
	for _, fragment := range fragments {
		signals = append(signals, s.Score(fragment))
	}
	return signals
}
