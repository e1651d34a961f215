package google

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldbeat/fieldbeat/pkg/calendarimport"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

// Calendar wraps one Google calendar of the authenticated user.
type Calendar struct {
	service    *gcal.Service
	calendarId string
}

func newGoogleCalendar(service *gcal.Service, calendarId string) *Calendar {
	return &Calendar{service: service, calendarId: calendarId}
}

// GetEvents retrieves events overlapping the window, expanded to single
// events and ordered by start time. The raw date/dateTime fields are kept
// as-is so the import engine can distinguish whole-day events.
func (c *Calendar) GetEvents(_ context.Context, from, to time.Time) ([]calendarimport.CalendarEvent, error) {
	googleEvents, err := c.service.Events.List(c.calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	events := make([]calendarimport.CalendarEvent, 0, len(googleEvents.Items))
	for _, item := range googleEvents.Items {
		events = append(events, googleEventToEvent(item))
	}
	return events, nil
}

func googleEventToEvent(item *gcal.Event) calendarimport.CalendarEvent {
	event := calendarimport.CalendarEvent{
		Id:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}
	if item.Start != nil {
		event.Start = calendarimport.EventDateTime{
			DateTime: item.Start.DateTime,
			Date:     item.Start.Date,
		}
	}
	if item.End != nil {
		event.End = calendarimport.EventDateTime{
			DateTime: item.End.DateTime,
			Date:     item.End.Date,
		}
	}
	return event
}
