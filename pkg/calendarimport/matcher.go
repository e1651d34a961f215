package calendarimport

import (
	"strings"

	"github.com/fieldbeat/fieldbeat/pkg/builder"
)

// MatchQuality describes how a builder token was resolved.
type MatchQuality string

const (
	MatchExact MatchQuality = "exact"
	MatchFuzzy MatchQuality = "fuzzy"
	MatchNone  MatchQuality = "none"
)

// maxFuzzyDistance is the edit distance still accepted as a fuzzy match.
const maxFuzzyDistance = 1

// BuilderMatch is the matcher's verdict for one token.
type BuilderMatch struct {
	BuilderId string
	Quality   MatchQuality
}

// MatchBuilder resolves a candidate token against the registered builder
// abbreviations. Token and abbreviations are compared uppercase. An exact
// match wins outright; otherwise the closest abbreviation within
// maxFuzzyDistance edits is accepted, unless abbreviations of two different
// builders tie at the same distance, in which case no builder is attributed
// rather than guessing.
func MatchBuilder(token string, abbreviations []builder.Abbreviation) BuilderMatch {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" {
		return BuilderMatch{Quality: MatchNone}
	}

	for _, abbr := range abbreviations {
		if strings.ToUpper(abbr.Abbreviation) == normalized {
			return BuilderMatch{BuilderId: abbr.BuilderId, Quality: MatchExact}
		}
	}

	bestDistance := maxFuzzyDistance + 1
	bestBuilderId := ""
	ambiguous := false
	for _, abbr := range abbreviations {
		distance := levenshtein(normalized, strings.ToUpper(abbr.Abbreviation))
		if distance > maxFuzzyDistance {
			continue
		}
		switch {
		case distance < bestDistance:
			bestDistance = distance
			bestBuilderId = abbr.BuilderId
			ambiguous = false
		case distance == bestDistance && abbr.BuilderId != bestBuilderId:
			ambiguous = true
		}
	}

	if bestBuilderId == "" || ambiguous {
		return BuilderMatch{Quality: MatchNone}
	}
	return BuilderMatch{BuilderId: bestBuilderId, Quality: MatchFuzzy}
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming form.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
