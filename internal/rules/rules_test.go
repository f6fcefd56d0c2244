package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalmine/painsignal/internal/domain"
)

func TestDefaultCompiles(t *testing.T) {
	table, err := Default().Compile()
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, table.Version)
	assert.NotEmpty(t, table.Keywords.High)
	assert.NotEmpty(t, table.Keywords.Medium)
	assert.NotEmpty(t, table.Keywords.Low)
	assert.NotEmpty(t, table.Keywords.Solution)
	assert.NotEmpty(t, table.Keywords.WTPStrong)
	assert.Len(t, table.NegativePatterns, len(table.NegativeContext))
	assert.Len(t, table.ExclusionPatterns, len(table.WTPExclusions))
}

func TestDefaultAnchorsComplete(t *testing.T) {
	table := Default()

	assert.NotEmpty(t, table.Anchors.Praise)
	assert.NotEmpty(t, table.Anchors.Complaint)
	for _, cat := range []domain.Category{
		domain.CategoryPricing,
		domain.CategoryAds,
		domain.CategoryContent,
		domain.CategoryPerformance,
		domain.CategoryFeatures,
	} {
		assert.NotEmpty(t, table.Anchors.Categories[cat], "anchor for %s", cat)
	}
}

func TestDefaultEmotionLexicon(t *testing.T) {
	table := Default()

	for _, label := range []domain.Emotion{
		domain.EmotionFrustration,
		domain.EmotionAnxiety,
		domain.EmotionDisappointment,
		domain.EmotionConfusion,
		domain.EmotionHope,
	} {
		assert.NotEmpty(t, table.Emotions[string(label)], "lexicon for %s", label)
	}
}

func TestDefaultParams(t *testing.T) {
	params := Default().Params

	assert.Equal(t, 3.0, params.HighWeight)
	assert.Equal(t, 2.0, params.MediumWeight)
	assert.Equal(t, 1.0, params.LowWeight)
	assert.Equal(t, 2.0, params.SolutionWeight)
	assert.Equal(t, 4.0, params.WTPWeight)
	assert.Equal(t, 10.0, params.MaxScore)
	assert.Equal(t, 0.6, params.NegativeContextFactor)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	content := []byte(`
version: "test.1"
keywords:
  high:
    - catastrophic
params:
  high_weight: 5
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test.1", table.Version)
	assert.Equal(t, []string{"catastrophic"}, table.Keywords.High)
	assert.Equal(t, 5.0, table.Params.HighWeight)
	// Untouched sections keep the built-in values.
	assert.Equal(t, Default().Keywords.Medium, table.Keywords.Medium)
	assert.Equal(t, 2.0, table.Params.MediumWeight)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, table.Version)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestCompileRejectsBadPattern(t *testing.T) {
	table := Default()
	table.NegativeContext = append(table.NegativeContext, `(`)

	_, err := table.Compile()
	assert.Error(t, err)
}
