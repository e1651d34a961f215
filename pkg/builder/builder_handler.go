package builder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldbeat/fieldbeat/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type BuilderDTO struct {
	Id            string            `json:"id"`
	Name          string            `json:"name"`
	ContactEmail  string            `json:"contactEmail,omitempty"`
	ContactPhone  string            `json:"contactPhone,omitempty"`
	Abbreviations []AbbreviationDTO `json:"abbreviations"`
}

type AbbreviationDTO struct {
	Id           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	IsPrimary    bool   `json:"isPrimary"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateBuilder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new builder")

	var dto BuilderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "Invalid request body format")
		return
	}

	created, err := h.service.CreateBuilder(r.Context(), dtoToBuilder(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(builderToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetBuilder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	builderId := mux.Vars(r)["builderId"]
	found, err := h.service.GetBuilder(r.Context(), builderId)
	if err != nil {
		if errors.Is(err, ErrBuilderNotFound) {
			http.Error(w, "builder not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(builderToDTO(found)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ListBuilders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	builders, err := h.service.GetAllBuilders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]BuilderDTO, 0, len(builders))
	for _, b := range builders {
		dtos = append(dtos, builderToDTO(b))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateBuilder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto BuilderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "Invalid request body format")
		return
	}
	dto.Id = mux.Vars(r)["builderId"]

	updated, err := h.service.UpdateBuilder(r.Context(), dtoToBuilder(dto))
	if err != nil {
		if errors.Is(err, ErrBuilderNotFound) {
			http.Error(w, "builder not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(builderToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteBuilder(w http.ResponseWriter, r *http.Request) {
	builderId := mux.Vars(r)["builderId"]
	if err := h.service.DeleteBuilder(r.Context(), builderId); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddAbbreviation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AbbreviationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "Invalid request body format")
		return
	}

	abbreviation := Abbreviation{
		BuilderId:    mux.Vars(r)["builderId"],
		Abbreviation: dto.Abbreviation,
		IsPrimary:    dto.IsPrimary,
	}
	stored, err := h.service.AddAbbreviation(r.Context(), abbreviation)
	if err != nil {
		if errors.Is(err, ErrBuilderNotFound) {
			http.Error(w, "builder not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(abbreviationToDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteAbbreviation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.DeleteAbbreviation(r.Context(), vars["builderId"], vars["abbreviationId"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func builderToDTO(b Builder) BuilderDTO {
	abbreviations := make([]AbbreviationDTO, 0, len(b.Abbreviations))
	for _, abbr := range b.Abbreviations {
		abbreviations = append(abbreviations, abbreviationToDTO(abbr))
	}
	return BuilderDTO{
		Id:            b.Id,
		Name:          b.Name,
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		Abbreviations: abbreviations,
	}
}

func abbreviationToDTO(a Abbreviation) AbbreviationDTO {
	return AbbreviationDTO{
		Id:           a.Id,
		Abbreviation: a.Abbreviation,
		IsPrimary:    a.IsPrimary,
	}
}

func dtoToBuilder(dto BuilderDTO) Builder {
	abbreviations := make([]Abbreviation, 0, len(dto.Abbreviations))
	for _, abbr := range dto.Abbreviations {
		abbreviations = append(abbreviations, Abbreviation{
			Id:           abbr.Id,
			Abbreviation: abbr.Abbreviation,
			IsPrimary:    abbr.IsPrimary,
		})
	}
	return Builder{
		Id:            dto.Id,
		Name:          dto.Name,
		ContactEmail:  dto.ContactEmail,
		ContactPhone:  dto.ContactPhone,
		Abbreviations: abbreviations,
	}
}
