package job

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/rest"
	"github.com/gorilla/mux"
)

type JobDTO struct {
	Id             string `json:"id"`
	GoogleEventId  string `json:"googleEventId,omitempty"`
	BuilderId      string `json:"builderId,omitempty"`
	InspectionType string `json:"inspectionType,omitempty"`
	Address        string `json:"address"`
	Status         string `json:"status"`
	ScheduledDate  string `json:"scheduledDate"`
	AllDay         bool   `json:"allDay"`
	CreatedBy      string `json:"createdBy"`
	Notes          string `json:"notes,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

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

	jobs, err := h.service.GetJobs(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]JobDTO, 0, len(jobs))
	for _, job := range jobs {
		dtos = append(dtos, jobToDTO(job))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	jobId := mux.Vars(r)["jobId"]
	found, err := h.service.GetJob(r.Context(), jobId)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(jobToDTO(found)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}
	status := Status(request.Status)
	if status != StatusScheduled && status != StatusCompleted && status != StatusCancelled {
		writeBadRequest(w, "Invalid status", "Status must be scheduled, completed or cancelled")
		return
	}

	jobId := mux.Vars(r)["jobId"]
	if err := h.service.UpdateStatus(r.Context(), jobId, status); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func jobToDTO(job Job) JobDTO {
	return JobDTO{
		Id:             job.Id,
		GoogleEventId:  job.GoogleEventId,
		BuilderId:      job.BuilderId,
		InspectionType: job.InspectionType,
		Address:        job.Address,
		Status:         string(job.Status),
		ScheduledDate:  job.ScheduledDate.Format(time.RFC3339),
		AllDay:         job.AllDay,
		CreatedBy:      job.CreatedBy,
		Notes:          job.Notes,
	}
}
