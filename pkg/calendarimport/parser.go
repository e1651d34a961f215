package calendarimport

import "strings"

// ParsedEvent is the transient classification of one calendar event. It lives
// only while the event is processed; a serialized form ends up in the review
// queue row's raw event snapshot when one is created.
type ParsedEvent struct {
	BuilderToken        string       `json:"builderToken"`
	InspectionTypeToken string       `json:"inspectionTypeToken,omitempty"`
	Remainder           string       `json:"remainder,omitempty"`
	BuilderId           string       `json:"builderId,omitempty"`
	BuilderMatch        MatchQuality `json:"builderMatch"`
	InspectionType      string       `json:"inspectionType,omitempty"`
	Confidence          int          `json:"confidence"`
}

// ParseSummary extracts the candidate builder token, the inspection type, and
// the free-text remainder from an event summary.
//
// The first whitespace-separated field is taken verbatim as the builder
// candidate; the matcher's edit-distance tolerance absorbs stray punctuation
// like a trailing dot, so the token is deliberately not cleaned up here. The
// rest of the summary is searched for an inspection-type keyword; what is left
// after removing the matched keyword becomes the remainder (typically the site
// address).
func ParseSummary(summary string) ParsedEvent {
	fields := strings.Fields(summary)
	if len(fields) == 0 {
		return ParsedEvent{}
	}

	builderToken := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(summary), builderToken))

	typeName, matched := ResolveInspectionType(rest)
	remainder := rest
	if matched != "" {
		idx := strings.Index(strings.ToLower(rest), strings.ToLower(matched))
		if idx >= 0 {
			remainder = rest[:idx] + rest[idx+len(matched):]
		}
	}
	remainder = strings.Trim(remainder, " \t-–.,:")

	return ParsedEvent{
		BuilderToken:        builderToken,
		InspectionTypeToken: matched,
		InspectionType:      typeName,
		Remainder:           remainder,
	}
}
