package calendarimport

import (
	"testing"

	"github.com/fieldbeat/fieldbeat/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	scoring := DefaultScoringConfig()

	tests := []struct {
		name              string
		quality           MatchQuality
		hasInspectionType bool
		expected          int
	}{
		{"exact builder with type", MatchExact, true, 95},
		{"fuzzy builder with type", MatchFuzzy, true, 75},
		{"no builder with type", MatchNone, true, 45},
		{"exact builder without type", MatchExact, false, 50},
		{"fuzzy builder without type", MatchFuzzy, false, 30},
		{"nothing recognized", MatchNone, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoring.Score(tt.quality, tt.hasInspectionType))
		})
	}

	t.Run("adding the inspection type signal never lowers the score", func(t *testing.T) {
		for _, quality := range []MatchQuality{MatchExact, MatchFuzzy, MatchNone} {
			without := scoring.Score(quality, false)
			with := scoring.Score(quality, true)
			assert.GreaterOrEqual(t, with, without, "quality %s", quality)
		}
	})

	t.Run("a better builder match never lowers the score", func(t *testing.T) {
		for _, hasType := range []bool{false, true} {
			assert.GreaterOrEqual(t, scoring.Score(MatchFuzzy, hasType), scoring.Score(MatchNone, hasType))
			assert.GreaterOrEqual(t, scoring.Score(MatchExact, hasType), scoring.Score(MatchFuzzy, hasType))
		}
	})

	t.Run("score is clamped to 100", func(t *testing.T) {
		oversized := ScoringConfig{ExactBuilderWeight: 90, InspectionTypeWeight: 90, AutoCreateThreshold: 80, ReviewThreshold: 60}
		assert.Equal(t, 100, oversized.Score(MatchExact, true))
	})
}

func TestTier(t *testing.T) {
	scoring := DefaultScoringConfig()

	tests := []struct {
		score    int
		expected Tier
	}{
		{100, TierHigh},
		{95, TierHigh},
		{80, TierHigh},
		{79, TierMedium},
		{75, TierMedium},
		{60, TierMedium},
		{59, TierLow},
		{45, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, scoring.Tier(tt.score), "score %d", tt.score)
	}
}

func TestScoringConfigFrom(t *testing.T) {
	t.Run("zero config falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultScoringConfig(), ScoringConfigFrom(config.Import{}))
	})

	t.Run("configured values override defaults", func(t *testing.T) {
		sc := ScoringConfigFrom(config.Import{
			ExactBuilderWeight:  60,
			AutoCreateThreshold: 90,
		})
		assert.Equal(t, 60, sc.ExactBuilderWeight)
		assert.Equal(t, 90, sc.AutoCreateThreshold)
		assert.Equal(t, 30, sc.FuzzyBuilderWeight)
		assert.Equal(t, 60, sc.ReviewThreshold)
	})
}
