package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/metrics"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/middleware"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type ReviewRequest struct {
	Decision      string `json:"decision"`
	Justification string `json:"justification,omitempty"`
}

type ReviewResponse struct {
	Message string `json:"message"`
}

// Review handles POST /members/{id}/review.
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	actor := middleware.Actor(r.Context())
	decision := domain.Decision(req.Decision)

	err := h.reviewService.Review(r.Context(), memberID, decision, req.Justification, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.ReviewDecisions.WithLabelValues(string(decision)).Inc()

	writeJSON(w, http.StatusOK, ReviewResponse{Message: "Review applied"})
}

// PendingChanges handles GET /members/{id}/changes and returns the diff rows
// between the member's current state and its pending overlay.
func (h *ReviewHandler) PendingChanges(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")

	changes, err := h.reviewService.PendingChanges(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if changes == nil {
		changes = []domain.FieldChange{}
	}

	writeJSON(w, http.StatusOK, changes)
}

// writeDomainError maps the core error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidState):
		http.Error(w, "already decided - refresh and try again", http.StatusConflict)
	case errors.Is(err, domain.ErrVersionConflict):
		http.Error(w, "modified concurrently - retry", http.StatusConflict)
	default:
		log.Printf("handler: internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
