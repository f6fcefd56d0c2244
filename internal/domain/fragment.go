package domain

import "time"

// Source identifies the platform type a fragment was retrieved from.
type Source string

// Source constants
const (
	SourceForumPost      Source = "forum_post"
	SourceForumComment   Source = "forum_comment"
	SourceAppReview      Source = "app_review"
	SourceBusinessReview Source = "business_review"
)

// Tier is the upstream-assigned relevance of a fragment to the analysis
// subject. It is carried through scoring unchanged, never computed here.
type Tier string

// Tier constants
const (
	TierCore    Tier = "CORE"
	TierRelated Tier = "RELATED"
	TierUnset   Tier = ""
)

// RawFragment is the input unit to the scoring pipeline: one short piece of
// user-generated text (review, forum post, comment) plus light numeric
// metadata. Immutable; owned by the caller for the duration of one call.
type RawFragment struct {
	ID            string     `json:"id,omitempty"`
	Text          string     `json:"text"`
	Title         string     `json:"title,omitempty"`
	Source        Source     `json:"source"`
	Community     string     `json:"community,omitempty"`
	URL           string     `json:"url,omitempty"`
	EngagementRaw int        `json:"engagement_raw"`
	CommentCount  int        `json:"comment_count"`
	CreatedAt     *time.Time `json:"created_at,omitempty"` // nil means unknown age
	Rating        *int       `json:"rating,omitempty"`     // 1-5, review sources only
	Tier          Tier       `json:"tier,omitempty"`
}

// IsReview reports whether the fragment comes from a review-type source.
func (f *RawFragment) IsReview() bool {
	return f.Source == SourceAppReview || f.Source == SourceBusinessReview
}

// AgeDays returns the fragment age in whole days at the given reference
// time, and whether the age is known at all.
func (f *RawFragment) AgeDays(now time.Time) (int, bool) {
	if f.CreatedAt == nil || f.CreatedAt.IsZero() {
		return 0, false
	}
	age := now.Sub(*f.CreatedAt)
	if age < 0 {
		return 0, true
	}
	return int(age.Hours() / 24), true
}
