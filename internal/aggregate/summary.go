// Package aggregate combines per-fragment PainSignals into corpus-level
// statistics with a quality-weighted confidence rating.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/logger"
)

// Aggregation constants.
const (
	topCommunityLimit = 5

	bucketFreshDays   = 30
	bucketRecentDays  = 90
	bucketNeutralDays = 180

	// velocityMinBase is the minimum comparison-period volume below which
	// a percentage change is statistically meaningless.
	velocityMinBase = 5

	// Recency multipliers span [0.5, 1.5]; the corpus recency score maps
	// their mean linearly onto [0, 1].
	recencyMultiplierMin  = 0.5
	recencyMultiplierSpan = 1.0
)

// Aggregator computes Summary values. Pure in-process computation with no
// suspension points.
type Aggregator struct {
	logger logger.Logger

	// now is injectable for deterministic age bucketing in tests.
	now func() time.Time
}

// New creates an aggregator.
func New(log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{logger: log, now: time.Now}
}

// WithClock overrides the aggregator's time source. Intended for tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Summarize aggregates a set of signals. Order of the input is irrelevant.
// The confidence field is always computed here, never caller-supplied.
func (a *Aggregator) Summarize(signals []*domain.PainSignal) *domain.Summary {
	summary := &domain.Summary{TotalSignals: len(signals)}
	if len(signals) == 0 {
		summary.Velocity = velocity(summary.Temporal)
		summary.Confidence = domain.ConfidenceVeryLow
		return summary
	}

	now := a.now()
	communities := make(map[string]int)
	var scoreSum, recencySum float64

	for _, sig := range signals {
		scoreSum += sig.Score
		recencySum += sig.RecencyMultiplier

		switch sig.Intensity {
		case domain.IntensityHigh:
			summary.HighIntensityCount++
		case domain.IntensityMedium:
			summary.MediumIntensityCount++
		default:
			summary.LowIntensityCount++
		}

		if sig.SolutionSeeking {
			summary.SolutionSeekingCount++
		}
		if sig.WillingnessToPay {
			summary.WTPCount++
		}
		if sig.Community != "" {
			communities[sig.Community]++
		}

		a.bucketSignal(summary, sig, now)
	}

	summary.AverageScore = math.Round(scoreSum/float64(len(signals))*100) / 100
	summary.RecencyScore = recencyScore(recencySum / float64(len(signals)))
	summary.TopCommunities = topCommunities(communities, topCommunityLimit)
	summary.Velocity = velocity(summary.Temporal)
	summary.Confidence = computeConfidence(summary)

	a.logger.Debug("corpus summarized",
		logger.Int("total_signals", summary.TotalSignals),
		logger.Float64("average_score", summary.AverageScore),
		logger.String("confidence", string(summary.Confidence)),
	)

	return summary
}

// bucketSignal updates the temporal histogram and date range.
func (a *Aggregator) bucketSignal(summary *domain.Summary, sig *domain.PainSignal, now time.Time) {
	if sig.CreatedAt == nil || sig.CreatedAt.IsZero() {
		summary.Temporal.UnknownAge++
		return
	}

	created := *sig.CreatedAt
	ageDays := int(now.Sub(created).Hours() / 24)
	switch {
	case ageDays <= bucketFreshDays:
		summary.Temporal.Last30Days++
	case ageDays <= bucketRecentDays:
		summary.Temporal.Last90Days++
	case ageDays <= bucketNeutralDays:
		summary.Temporal.Last180Days++
	default:
		summary.Temporal.Older++
	}

	if summary.DateRange.Oldest == nil || created.Before(*summary.DateRange.Oldest) {
		summary.DateRange.Oldest = &created
	}
	if summary.DateRange.Newest == nil || created.After(*summary.DateRange.Newest) {
		summary.DateRange.Newest = &created
	}
}

// velocity compares the two most recent buckets against the 91-180 day
// comparison period.
func velocity(h domain.TemporalHistogram) domain.DiscussionVelocity {
	v := domain.DiscussionVelocity{
		RecentCount:   h.Last30Days + h.Last90Days,
		PreviousCount: h.Last180Days,
	}

	if v.PreviousCount < velocityMinBase {
		v.InsufficientData = true
		return v
	}

	change := float64(v.RecentCount-v.PreviousCount) / float64(v.PreviousCount) * 100
	change = math.Round(change*10) / 10
	v.PercentageChange = &change
	return v
}

// recencyScore maps the mean recency multiplier onto [0, 1].
func recencyScore(meanMultiplier float64) float64 {
	score := (meanMultiplier - recencyMultiplierMin) / recencyMultiplierSpan
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return math.Round(score*100) / 100
}

// topCommunities returns the n most frequent communities, count descending
// with name as the deterministic tie break.
func topCommunities(counts map[string]int, n int) []domain.CommunityCount {
	out := make([]domain.CommunityCount, 0, len(counts))
	for community, count := range counts {
		out = append(out, domain.CommunityCount{Community: community, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Community < out[j].Community
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
