package domain

import "time"

// Confidence rates how much trust the corpus-level summary deserves. It is
// always computed from the summary's own fields, never set by callers.
type Confidence string

// Confidence constants
const (
	ConfidenceVeryLow Confidence = "very_low"
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
)

// CommunityCount pairs a community identifier with its signal frequency.
type CommunityCount struct {
	Community string `json:"community"`
	Count     int    `json:"count"`
}

// TemporalHistogram buckets signals by age.
type TemporalHistogram struct {
	Last30Days  int `json:"last_30_days"`
	Last90Days  int `json:"last_90_days"`  // 31-90 days
	Last180Days int `json:"last_180_days"` // 91-180 days
	Older       int `json:"older"`
	UnknownAge  int `json:"unknown_age"`
}

// DiscussionVelocity compares recent signal volume against a preceding
// comparison period. PercentageChange is nil when the comparison base is
// too small to be statistically meaningful.
type DiscussionVelocity struct {
	RecentCount      int      `json:"recent_count"`   // last 90 days
	PreviousCount    int      `json:"previous_count"` // 91-180 days
	PercentageChange *float64 `json:"percentage_change,omitempty"`
	InsufficientData bool     `json:"insufficient_data"`
}

// DateRange holds the oldest and newest timestamps seen in a corpus.
type DateRange struct {
	Oldest *time.Time `json:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty"`
}

// Summary aggregates a set of PainSignals into corpus-level statistics.
type Summary struct {
	TotalSignals         int                `json:"total_signals"`
	AverageScore         float64            `json:"average_score"`
	HighIntensityCount   int                `json:"high_intensity_count"`
	MediumIntensityCount int                `json:"medium_intensity_count"`
	LowIntensityCount    int                `json:"low_intensity_count"`
	SolutionSeekingCount int                `json:"solution_seeking_count"`
	WTPCount             int                `json:"wtp_count"`
	TopCommunities       []CommunityCount   `json:"top_communities"`
	Temporal             TemporalHistogram  `json:"temporal"`
	DateRange            DateRange          `json:"date_range"`
	RecencyScore         float64            `json:"recency_score"` // 0-1
	Velocity             DiscussionVelocity `json:"velocity"`
	Confidence           Confidence         `json:"confidence"`
}
