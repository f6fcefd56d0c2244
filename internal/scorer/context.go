package scorer

import (
	"github.com/signalmine/painsignal/internal/rules"
)

// ContextFilter detects when matched keywords are used in a non-pain
// context. Two independent pattern families, each evaluated once per
// fragment:
//
//   - negative-context patterns: the pain belongs to a third party, a
//     hypothetical, a resolved past, or a competitor;
//   - willingness-to-pay exclusions: budget/refund/regret/ROI language that
//     uses purchase vocabulary without expressing purchase intent.
//
// Neither family removes already-counted pain keywords; negative context
// applies a downstream multiplicative penalty and an exclusion match gates
// WTP scanning entirely.
type ContextFilter struct {
	table *rules.Compiled
}

// NewContextFilter creates a filter over the compiled pattern sets.
func NewContextFilter(table *rules.Compiled) *ContextFilter {
	return &ContextFilter{table: table}
}

// HasNegativeContext reports whether any negative-context pattern matches.
func (f *ContextFilter) HasNegativeContext(text string) bool {
	for _, p := range f.table.NegativePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// HasWTPExclusion reports whether any willingness-to-pay exclusion pattern
// matches. A match means WTP keywords must not be scanned for this
// fragment.
func (f *ContextFilter) HasWTPExclusion(text string) bool {
	for _, p := range f.table.ExclusionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
