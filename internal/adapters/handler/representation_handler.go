package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/metrics"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/middleware"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

type RepresentationHandler struct {
	representationService ports.RepresentationService
}

func NewRepresentationHandler(representationService ports.RepresentationService) *RepresentationHandler {
	return &RepresentationHandler{representationService: representationService}
}

type CreateRepresentationRequest struct {
	RepresentingID string    `json:"representing_id"`
	RepresentedID  string    `json:"represented_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

type CreateRepresentationResponse struct {
	ID string `json:"id"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type ConfirmedHoursResponse struct {
	PersonID       string  `json:"person_id"`
	ConfirmedHours float64 `json:"confirmed_hours"`
}

// Create handles POST /representations.
func (h *RepresentationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRepresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	actor := middleware.Actor(r.Context())

	id, err := h.representationService.Create(r.Context(), req.RepresentingID, req.RepresentedID, req.StartDate, req.EndDate, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.RepresentationTransitions.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, CreateRepresentationResponse{ID: id})
}

// SetStatus handles POST /representations/{id}/status.
func (h *RepresentationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	actor := middleware.Actor(r.Context())
	status := domain.RepresentationStatus(req.Status)

	if err := h.representationService.SetStatus(r.Context(), requestID, status, actor); err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.RepresentationTransitions.WithLabelValues(req.Status).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// ConfirmedHours handles GET /members/{id}/confirmed-hours.
func (h *RepresentationHandler) ConfirmedHours(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("id")

	hours, err := h.representationService.ConfirmedHours(r.Context(), personID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ConfirmedHoursResponse{PersonID: personID, ConfirmedHours: hours})
}

// Overdue handles GET /representations/overdue for reviewers.
func (h *RepresentationHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	requests, err := h.representationService.OverduePending(r.Context(), 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.RepresentationRequest{}
	}

	writeJSON(w, http.StatusOK, requests)
}
