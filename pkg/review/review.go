package review

import "time"

// UnmatchedEvent is a calendar event waiting for human review, either because
// the import could not classify it confidently (pending) or because a job was
// auto-created from a fuzzy classification that should be double-checked
// (flagged).
type UnmatchedEvent struct {
	Id              string
	CalendarId      string
	GoogleEventId   string
	Title           string
	Location        string
	StartTime       time.Time
	EndTime         time.Time
	ConfidenceScore int
	Status          Status
	RawEventJson    string
	CreatedAt       time.Time
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusFlagged   Status = "flagged"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)
