package scorer

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/rules"
)

// tierMatcher matches one keyword tier against normalized text. An
// Aho-Corasick automaton prefilters candidate keywords in a single pass;
// each candidate is then verified so single-word keywords only count at
// word boundaries while multi-word phrases match by containment.
type tierMatcher struct {
	keywords []string
	matcher  *ahocorasick.Matcher
}

func newTierMatcher(words []string) *tierMatcher {
	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		normalized := normalizeKeyword(w)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		keywords = append(keywords, normalized)
	}

	m := &tierMatcher{keywords: keywords}
	if len(keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return m
}

// matches returns the distinct keywords found in text, which must already
// be normalized.
func (m *tierMatcher) matches(text string) []string {
	if m.matcher == nil || text == "" {
		return nil
	}

	var found []string
	for _, hit := range m.matcher.Match([]byte(text)) {
		if hit >= len(m.keywords) {
			continue
		}
		kw := m.keywords[hit]
		if strings.ContainsRune(kw, ' ') {
			// Phrase: the automaton hit is already a containment match.
			found = append(found, kw)
		} else if containsWord(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// LexicalScorer produces the raw per-tier keyword counts for a fragment.
// Pure function of the text; safe for concurrent use.
type LexicalScorer struct {
	high     *tierMatcher
	medium   *tierMatcher
	low      *tierMatcher
	solution *tierMatcher

	wtpStrong *tierMatcher
	wtpMedium *tierMatcher // enterprise + financial + purchase sub-tiers
	wtpValue  *tierMatcher
}

// NewLexicalScorer builds the tier automatons from the rules table.
func NewLexicalScorer(table *rules.Compiled) *LexicalScorer {
	kw := table.Keywords

	wtpMedium := make([]string, 0, len(kw.WTPEnterprise)+len(kw.WTPFinancial)+len(kw.WTPPurchase))
	wtpMedium = append(wtpMedium, kw.WTPEnterprise...)
	wtpMedium = append(wtpMedium, kw.WTPFinancial...)
	wtpMedium = append(wtpMedium, kw.WTPPurchase...)

	return &LexicalScorer{
		high:      newTierMatcher(kw.High),
		medium:    newTierMatcher(kw.Medium),
		low:       newTierMatcher(kw.Low),
		solution:  newTierMatcher(kw.Solution),
		wtpStrong: newTierMatcher(kw.WTPStrong),
		wtpMedium: newTierMatcher(wtpMedium),
		wtpValue:  newTierMatcher(kw.WTPValue),
	}
}

// Score scans every tier independently over the normalized text and
// returns the raw breakdown. Context flags are left unset; the caller runs
// the context filter separately. skipWTP suppresses the willingness-to-pay
// tiers entirely (set when an exclusion pattern matched).
func (s *LexicalScorer) Score(text string, skipWTP bool) domain.ScoreBreakdown {
	normalized := normalizeText(text)

	breakdown := domain.ScoreBreakdown{}
	if strings.TrimSpace(normalized) == "" {
		return breakdown
	}

	tagSet := make(map[string]bool)
	collect := func(matches []string) int {
		for _, kw := range matches {
			tagSet[kw] = true
		}
		return len(matches)
	}

	highMatches := s.high.matches(normalized)
	mediumMatches := s.medium.matches(normalized)

	breakdown.HighCount = collect(highMatches)
	breakdown.MediumCount = collect(mediumMatches)
	breakdown.LowCount = collect(s.low.matches(normalized))
	breakdown.SolutionCount = collect(s.solution.matches(normalized))

	if !skipWTP {
		breakdown.WTPStrongCount = collect(s.wtpStrong.matches(normalized))
		breakdown.WTPMediumCount = collect(s.wtpMedium.matches(normalized))
		breakdown.WTPLowCount = collect(s.wtpValue.matches(normalized))
	}

	switch {
	case len(highMatches) > 0:
		breakdown.StrongestSignal = highMatches[0]
	case len(mediumMatches) > 0:
		breakdown.StrongestSignal = mediumMatches[0]
	}

	breakdown.MatchedTags = make([]string, 0, len(tagSet))
	for tag := range tagSet {
		breakdown.MatchedTags = append(breakdown.MatchedTags, tag)
	}

	return breakdown
}

// WTPConfidenceFor derives the willingness-to-pay confidence label from the
// sub-tier counts. Any strong-intent match wins outright.
func WTPConfidenceFor(b *domain.ScoreBreakdown) domain.WTPConfidence {
	switch {
	case b.HasExclusionMatch:
		return domain.WTPNone
	case b.WTPStrongCount > 0:
		return domain.WTPHigh
	case b.WTPMediumCount > 0:
		return domain.WTPMedium
	case b.WTPLowCount > 0:
		return domain.WTPLow
	default:
		return domain.WTPNone
	}
}
