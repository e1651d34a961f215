package calendarimport

import "github.com/fieldbeat/fieldbeat/internal/config"

// Tier is the confidence band that decides the import policy for an event.
type Tier string

const (
	// TierHigh auto-creates a job with no review entry.
	TierHigh Tier = "high"
	// TierMedium auto-creates a job and flags it for review.
	TierMedium Tier = "medium"
	// TierLow only queues the event for review.
	TierLow Tier = "low"
)

// ScoringConfig holds the signal weights and tier thresholds. Keeping them in
// one structure means they can be tuned through configuration without touching
// the matching logic.
type ScoringConfig struct {
	ExactBuilderWeight   int
	FuzzyBuilderWeight   int
	InspectionTypeWeight int
	AutoCreateThreshold  int
	ReviewThreshold      int
}

// DefaultScoringConfig returns the production weights: exact builder 50,
// fuzzy builder 30, recognized inspection type 45; tiers at 80 and 60.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ExactBuilderWeight:   50,
		FuzzyBuilderWeight:   30,
		InspectionTypeWeight: 45,
		AutoCreateThreshold:  80,
		ReviewThreshold:      60,
	}
}

// ScoringConfigFrom builds a ScoringConfig from the application configuration,
// falling back to defaults for unset values.
func ScoringConfigFrom(cfg config.Import) ScoringConfig {
	sc := DefaultScoringConfig()
	if cfg.ExactBuilderWeight > 0 {
		sc.ExactBuilderWeight = cfg.ExactBuilderWeight
	}
	if cfg.FuzzyBuilderWeight > 0 {
		sc.FuzzyBuilderWeight = cfg.FuzzyBuilderWeight
	}
	if cfg.InspectionTypeWeight > 0 {
		sc.InspectionTypeWeight = cfg.InspectionTypeWeight
	}
	if cfg.AutoCreateThreshold > 0 {
		sc.AutoCreateThreshold = cfg.AutoCreateThreshold
	}
	if cfg.ReviewThreshold > 0 {
		sc.ReviewThreshold = cfg.ReviewThreshold
	}
	return sc
}

// Score combines the matcher signals into a confidence score. It is a pure
// function: the same signals always yield the same score, and adding a signal
// never lowers it. The result is clamped to [0, 100].
func (c ScoringConfig) Score(quality MatchQuality, hasInspectionType bool) int {
	score := 0
	switch quality {
	case MatchExact:
		score += c.ExactBuilderWeight
	case MatchFuzzy:
		score += c.FuzzyBuilderWeight
	}
	if hasInspectionType {
		score += c.InspectionTypeWeight
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Tier maps a score to its confidence band.
func (c ScoringConfig) Tier(score int) Tier {
	switch {
	case score >= c.AutoCreateThreshold:
		return TierHigh
	case score >= c.ReviewThreshold:
		return TierMedium
	default:
		return TierLow
	}
}
