package calendarimport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/rest"
	"github.com/fieldbeat/fieldbeat/pkg/user"
	log "github.com/sirupsen/logrus"
)

type ImportResultDTO struct {
	JobsCreated     int      `json:"jobsCreated"`
	EventsQueued    int      `json:"eventsQueued"`
	EventsProcessed int      `json:"eventsProcessed"`
	Errors          []string `json:"errors"`
	ImportLogId     string   `json:"importLogId"`
}

type ImportLogDTO struct {
	Id              string   `json:"id"`
	CalendarId      string   `json:"calendarId"`
	EventsProcessed int      `json:"eventsProcessed"`
	JobsCreated     int      `json:"jobsCreated"`
	EventsQueued    int      `json:"eventsQueued"`
	Errors          []string `json:"errors,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ImportFromGoogle fetches events from the user's Google calendar for the
// given window and runs them through the import pipeline. The calendarId query
// parameter defaults to the calendar configured in the user's settings.
func (h *Handler) ImportFromGoogle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Starting calendar import from Google")

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeBadRequest(w, "Invalid 'from' date", "Dates must be in RFC3339 format")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeBadRequest(w, "Invalid 'to' date", "Dates must be in RFC3339 format")
		return
	}

	calendarId := r.URL.Query().Get("calendarId")
	if calendarId == "" {
		currentUser, err := user.CurrentUser(r.Context())
		if err != nil {
			http.Error(w, "no user in request", http.StatusUnauthorized)
			return
		}
		calendarId = currentUser.Settings.GoogleCalendar.CalendarId
	}

	result, err := h.service.ImportFromSource(r.Context(), calendarId, from, to)
	if err != nil {
		if errors.Is(err, ErrMissingCalendarId) {
			writeBadRequest(w, "Missing calendar id", "Pass calendarId or configure a calendar in user settings")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ImportBatch runs the import pipeline over a batch of events supplied in the
// request body, for callers that already hold the events.
func (h *Handler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request struct {
		CalendarId string          `json:"calendarId"`
		Events     []CalendarEvent `json:"events"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	result, err := h.service.ImportEvents(r.Context(), request.CalendarId, request.Events)
	if err != nil {
		if errors.Is(err, ErrMissingCalendarId) || errors.Is(err, ErrMissingEventId) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetImportLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	calendarId := r.URL.Query().Get("calendarId")
	if calendarId == "" {
		writeBadRequest(w, "Missing calendar id", "")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.service.GetLogs(r.Context(), calendarId, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ImportLogDTO, 0, len(logs))
	for _, importLog := range logs {
		dtos = append(dtos, logToDTO(importLog))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func resultToDTO(result ImportResult) ImportResultDTO {
	return ImportResultDTO{
		JobsCreated:     result.JobsCreated,
		EventsQueued:    result.EventsQueued,
		EventsProcessed: result.EventsProcessed,
		Errors:          result.Errors,
		ImportLogId:     result.ImportLogId,
	}
}

func logToDTO(importLog ImportLog) ImportLogDTO {
	return ImportLogDTO{
		Id:              importLog.Id,
		CalendarId:      importLog.CalendarId,
		EventsProcessed: importLog.EventsProcessed,
		JobsCreated:     importLog.JobsCreated,
		EventsQueued:    importLog.EventsQueued,
		Errors:          importLog.Errors,
		CreatedAt:       importLog.CreatedAt.Format(time.RFC3339),
	}
}
