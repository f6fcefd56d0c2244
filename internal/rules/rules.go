// Package rules holds the versioned static configuration for the scoring
// pipeline: keyword tiers, context patterns, the emotion lexicon, anchor
// texts, and tunable scoring parameters. Tables are loaded once at startup
// into an immutable structure so tiers can be tuned without touching
// scoring logic.
package rules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/signalmine/painsignal/internal/domain"
)

// KeywordTiers holds the weighted keyword lists, one per signal tier.
type KeywordTiers struct {
	High     []string `yaml:"high"`
	Medium   []string `yaml:"medium"`
	Low      []string `yaml:"low"`
	Solution []string `yaml:"solution"`

	// Willingness-to-pay sub-tiers. All carry the same aggregate weight;
	// the sub-tier only drives the confidence label.
	WTPStrong     []string `yaml:"wtp_strong"`
	WTPEnterprise []string `yaml:"wtp_enterprise"`
	WTPFinancial  []string `yaml:"wtp_financial"`
	WTPPurchase   []string `yaml:"wtp_purchase"`
	WTPValue      []string `yaml:"wtp_value"`
}

// AnchorTexts are the fixed descriptive blocks embedded once to form the
// reference vectors for semantic classification.
type AnchorTexts struct {
	Praise     string                     `yaml:"praise"`
	Complaint  string                     `yaml:"complaint"`
	Categories map[domain.Category]string `yaml:"categories"`
}

// ScoringParams are the tunable constants of the scoring pipeline. They are
// empirically calibrated defaults, not physical constants.
type ScoringParams struct {
	HighWeight     float64 `yaml:"high_weight"`
	MediumWeight   float64 `yaml:"medium_weight"`
	LowWeight      float64 `yaml:"low_weight"`
	SolutionWeight float64 `yaml:"solution_weight"`
	WTPWeight      float64 `yaml:"wtp_weight"`

	EngagementCap       float64 `yaml:"engagement_cap"`
	EngagementLogFactor float64 `yaml:"engagement_log_factor"`

	MaxScore              float64 `yaml:"max_score"`
	LowOnlyCap            float64 `yaml:"low_only_cap"`
	LowOnlyPenalty        float64 `yaml:"low_only_penalty"`
	LowSolutionCap        float64 `yaml:"low_solution_cap"`
	WTPHighBonus          float64 `yaml:"wtp_high_bonus"`
	HighSolutionBonus     float64 `yaml:"high_solution_bonus"`
	NegativeContextFactor float64 `yaml:"negative_context_factor"`

	PraiseMinSimilarity float64 `yaml:"praise_min_similarity"`
	PraiseMargin        float64 `yaml:"praise_margin"`
	PraiseMaxRating     int     `yaml:"praise_max_rating"`
}

// Table is one versioned revision of the full rules configuration.
type Table struct {
	Version         string              `yaml:"version"`
	Keywords        KeywordTiers        `yaml:"keywords"`
	NegativeContext []string            `yaml:"negative_context"`
	WTPExclusions   []string            `yaml:"wtp_exclusions"`
	Emotions        map[string][]string `yaml:"emotions"`
	Anchors         AnchorTexts         `yaml:"anchors"`
	Params          ScoringParams       `yaml:"params"`
}

// Compiled is a Table with its pattern families compiled. Treated as
// read-only after construction.
type Compiled struct {
	Table
	NegativePatterns  []*regexp.Regexp
	ExclusionPatterns []*regexp.Regexp
}

// Compile validates the table and compiles its regex pattern sets.
// All patterns are matched case-insensitively.
func (t *Table) Compile() (*Compiled, error) {
	c := &Compiled{Table: *t}

	for _, p := range t.NegativeContext {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile negative-context pattern %q: %w", p, err)
		}
		c.NegativePatterns = append(c.NegativePatterns, re)
	}

	for _, p := range t.WTPExclusions {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile wtp-exclusion pattern %q: %w", p, err)
		}
		c.ExclusionPatterns = append(c.ExclusionPatterns, re)
	}

	return c, nil
}

// Load reads a rules table from a YAML file, layered over the built-in
// defaults, and compiles it. An empty path returns the compiled defaults.
func Load(path string) (*Compiled, error) {
	table := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, table); err != nil {
			return nil, fmt.Errorf("parse rules file %s: %w", path, err)
		}
	}

	return table.Compile()
}

// MustCompileDefault compiles the built-in table, panicking on failure.
// The defaults are covered by tests, so a panic here is a programming error.
func MustCompileDefault() *Compiled {
	c, err := Default().Compile()
	if err != nil {
		panic(fmt.Sprintf("compile default rules: %v", err))
	}
	return c
}
