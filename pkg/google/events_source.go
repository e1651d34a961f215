package google

import (
	"context"
	"time"

	"github.com/fieldbeat/fieldbeat/pkg/calendarimport"
)

// EventsSource adapts the Google calendar service to the import engine's
// EventSource interface.
type EventsSource struct {
	google Service
}

func NewEventsSource(google Service) *EventsSource {
	return &EventsSource{google: google}
}

func (s *EventsSource) FetchEvents(ctx context.Context, calendarId string, from, to time.Time) ([]calendarimport.CalendarEvent, error) {
	cal, err := s.google.GetCalendar(ctx, calendarId)
	if err != nil {
		return nil, err
	}
	return cal.GetEvents(ctx, from, to)
}
