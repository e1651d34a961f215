package calendarimport

import (
	"fmt"
	"time"
)

// CalendarEvent is one event fetched from an external calendar. Start and End
// keep the provider's raw representation: timed events carry DateTime
// (RFC 3339), whole-day events carry Date (YYYY-MM-DD).
type CalendarEvent struct {
	Id          string        `json:"id"`
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
}

type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

const wholeDayLayout = "2006-01-02"

// Resolve parses the raw representation into a time. The second return value
// reports whether this is a whole-day value.
func (d EventDateTime) Resolve() (time.Time, bool, error) {
	if d.DateTime != "" {
		t, err := time.Parse(time.RFC3339, d.DateTime)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid dateTime %q: %w", d.DateTime, err)
		}
		return t, false, nil
	}
	if d.Date != "" {
		t, err := time.Parse(wholeDayLayout, d.Date)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid date %q: %w", d.Date, err)
		}
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("event time has neither dateTime nor date")
}
