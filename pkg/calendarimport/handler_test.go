package calendarimport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldbeat/fieldbeat/pkg/user"
	"github.com/stretchr/testify/assert"
)

type fakeImportService struct {
	importEvents func(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error)
	importSource func(ctx context.Context, calendarId string, from, to time.Time) (ImportResult, error)
	getLogs      func(ctx context.Context, calendarId string, limit int) ([]ImportLog, error)
}

func (f *fakeImportService) ImportEvents(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error) {
	return f.importEvents(ctx, calendarId, events)
}

func (f *fakeImportService) ImportFromSource(ctx context.Context, calendarId string, from, to time.Time) (ImportResult, error) {
	return f.importSource(ctx, calendarId, from, to)
}

func (f *fakeImportService) GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error) {
	return f.getLogs(ctx, calendarId, limit)
}

func requestWithUser(r *http.Request) *http.Request {
	ctx := user.WithUser(r.Context(), user.User{
		Id:       "u-1",
		Settings: user.Settings{GoogleCalendar: user.GoogleCalendarSettings{CalendarId: "cal-settings"}},
	})
	return r.WithContext(ctx)
}

func TestHandler_ImportBatch(t *testing.T) {
	t.Run("imports the posted events", func(t *testing.T) {
		// given
		var gotCalendarId string
		var gotEvents []CalendarEvent
		handler := NewHandler(&fakeImportService{
			importEvents: func(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error) {
				gotCalendarId = calendarId
				gotEvents = events
				return ImportResult{JobsCreated: 1, EventsProcessed: 1, Errors: []string{}, ImportLogId: "log-1"}, nil
			},
		})
		body := `{"calendarId":"cal-1","events":[{"id":"evt-1","summary":"INTTEST Test - 123 Main St","start":{"dateTime":"2026-03-05T09:30:00Z"}}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/calendar/import/events", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		// when
		handler.ImportBatch(rec, requestWithUser(req))

		// then
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cal-1", gotCalendarId)
		assert.Len(t, gotEvents, 1)
		assert.Equal(t, "evt-1", gotEvents[0].Id)
		assert.Equal(t, "2026-03-05T09:30:00Z", gotEvents[0].Start.DateTime)

		var response ImportResultDTO
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.JobsCreated)
		assert.Equal(t, "log-1", response.ImportLogId)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler := NewHandler(&fakeImportService{})
		req := httptest.NewRequest(http.MethodPost, "/api/calendar/import/events", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()

		handler.ImportBatch(rec, requestWithUser(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps invocation errors to bad request", func(t *testing.T) {
		handler := NewHandler(&fakeImportService{
			importEvents: func(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error) {
				return ImportResult{}, ErrMissingEventId
			},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/calendar/import/events", bytes.NewBufferString(`{"calendarId":"cal-1","events":[{"summary":"no id"}]}`))
		rec := httptest.NewRecorder()

		handler.ImportBatch(rec, requestWithUser(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ImportFromGoogle(t *testing.T) {
	t.Run("falls back to the calendar from user settings", func(t *testing.T) {
		// given
		var gotCalendarId string
		var gotFrom time.Time
		handler := NewHandler(&fakeImportService{
			importSource: func(ctx context.Context, calendarId string, from, to time.Time) (ImportResult, error) {
				gotCalendarId = calendarId
				gotFrom = from
				return ImportResult{Errors: []string{}}, nil
			},
		})
		req := httptest.NewRequest(http.MethodPost,
			"/api/calendar/import?from=2026-03-01T00:00:00Z&to=2026-03-08T00:00:00Z", nil)
		rec := httptest.NewRecorder()

		// when
		handler.ImportFromGoogle(rec, requestWithUser(req))

		// then
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cal-settings", gotCalendarId)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), gotFrom)
	})

	t.Run("rejects a malformed window", func(t *testing.T) {
		handler := NewHandler(&fakeImportService{})
		req := httptest.NewRequest(http.MethodPost, "/api/calendar/import?from=yesterday&to=tomorrow", nil)
		rec := httptest.NewRecorder()

		handler.ImportFromGoogle(rec, requestWithUser(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetImportLogs(t *testing.T) {
	t.Run("returns logs for the calendar", func(t *testing.T) {
		// given
		handler := NewHandler(&fakeImportService{
			getLogs: func(ctx context.Context, calendarId string, limit int) ([]ImportLog, error) {
				assert.Equal(t, "cal-1", calendarId)
				return []ImportLog{{
					Id:              "log-1",
					CalendarId:      calendarId,
					EventsProcessed: 2,
					JobsCreated:     1,
					CreatedAt:       time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
				}}, nil
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/api/calendar/import/log?calendarId=cal-1", nil)
		rec := httptest.NewRecorder()

		// when
		handler.GetImportLogs(rec, requestWithUser(req))

		// then
		assert.Equal(t, http.StatusOK, rec.Code)
		var response []ImportLogDTO
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Len(t, response, 1)
		assert.Equal(t, "log-1", response[0].Id)
		assert.Equal(t, "2026-03-01T12:00:00Z", response[0].CreatedAt)
	})

	t.Run("requires a calendar id", func(t *testing.T) {
		handler := NewHandler(&fakeImportService{})
		req := httptest.NewRequest(http.MethodGet, "/api/calendar/import/log", nil)
		rec := httptest.NewRecorder()

		handler.GetImportLogs(rec, requestWithUser(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
