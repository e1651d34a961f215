package calendarimport

import "strings"

// InspectionTypes is the closed set of inspection types the import recognizes.
var InspectionTypes = []string{
	"Full Test",
	"Pre-Drywall",
	"Rough-In",
	"Final",
	"SV2",
}

// inspectionKeywords maps a lowercase keyword to its canonical inspection
// type. Longer keywords are listed in typeKeywordOrder first so "full test"
// wins over the bare "test".
var inspectionKeywords = map[string]string{
	"full test":   "Full Test",
	"test":        "Full Test",
	"pre-drywall": "Pre-Drywall",
	"pre drywall": "Pre-Drywall",
	"predrywall":  "Pre-Drywall",
	"rough-in":    "Rough-In",
	"rough in":    "Rough-In",
	"final":       "Final",
	"sv2":         "SV2",
}

var typeKeywordOrder = []string{
	"full test",
	"pre-drywall",
	"pre drywall",
	"predrywall",
	"rough-in",
	"rough in",
	"final",
	"test",
	"sv2",
}

// ResolveInspectionType finds a known inspection-type keyword in the text by
// case-insensitive containment. It returns the canonical type name and the
// keyword as it appears in the keyword table, or empty strings when nothing in
// the closed set matches. Unrecognized text is not an error, it just
// contributes nothing to the confidence score.
func ResolveInspectionType(text string) (typeName string, matchedKeyword string) {
	lower := strings.ToLower(text)
	for _, keyword := range typeKeywordOrder {
		if strings.Contains(lower, keyword) {
			return inspectionKeywords[keyword], keyword
		}
	}
	return "", ""
}
