package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type UnmatchedEventDTO struct {
	Id              string `json:"id"`
	CalendarId      string `json:"calendarId"`
	GoogleEventId   string `json:"googleEventId"`
	Title           string `json:"title"`
	Location        string `json:"location,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	ConfidenceScore int    `json:"confidenceScore"`
	Status          string `json:"status"`
	RawEventJson    string `json:"rawEventJson,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetQueue lists review queue entries. The status query parameter defaults to
// pending, the state reviewers work through.
func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := Status(r.URL.Query().Get("status"))
	if status == "" {
		status = StatusPending
	}

	events, err := h.service.GetEventsByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]UnmatchedEventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, eventToDTO(event))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]
	if err := h.service.Resolve(r.Context(), eventId); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DismissEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]
	if err := h.service.Dismiss(r.Context(), eventId); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func eventToDTO(event UnmatchedEvent) UnmatchedEventDTO {
	return UnmatchedEventDTO{
		Id:              event.Id,
		CalendarId:      event.CalendarId,
		GoogleEventId:   event.GoogleEventId,
		Title:           event.Title,
		Location:        event.Location,
		StartTime:       event.StartTime.Format(time.RFC3339),
		EndTime:         event.EndTime.Format(time.RFC3339),
		ConfidenceScore: event.ConfidenceScore,
		Status:          string(event.Status),
		RawEventJson:    event.RawEventJson,
	}
}
