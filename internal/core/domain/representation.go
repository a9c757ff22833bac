package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type RepresentationStatus string

const (
	RepresentationPending   RepresentationStatus = "pending"
	RepresentationConfirmed RepresentationStatus = "confirmed"
	RepresentationDeclined  RepresentationStatus = "declined"
)

// Notification template keys for the representation workflow.
const (
	TplRepresentationLogged    = "representation.logged"
	TplRepresentationConfirmed = "representation.confirmed"
	TplRepresentationDeclined  = "representation.declined"
	TplRepresentationLate      = "representation.late_submission"
	TplRepresentationOverdue   = "representation.overdue"
)

// RepresentationRequest is a bilateral coverage log: the representing person
// covered duties for the represented person over [StartDate, EndDate]. It is
// created pending and transitioned exactly once to confirmed or declined.
type RepresentationRequest struct {
	ID             string               `json:"id"`
	RepresentingID string               `json:"representing_id"` // covered for someone
	RepresentedID  string               `json:"represented_id"`  // was covered
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	DurationHours  float64              `json:"duration_hours"` // derived at creation, stored
	Status         RepresentationStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	ConfirmedAt    *time.Time           `json:"confirmed_at,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Terminal reports whether the request has left pending. Terminal states are
// immutable.
func (r RepresentationRequest) Terminal() bool {
	return r.Status != RepresentationPending
}

// NewRepresentationRequest validates the inputs and builds a pending request.
// DurationHours is (end - start) in hours rounded to two decimals, computed
// once here and never recomputed.
func NewRepresentationRequest(representingID, representedID string, start, end, now time.Time) (RepresentationRequest, error) {
	if representingID == "" || representedID == "" {
		return RepresentationRequest{}, fmt.Errorf("%w: both persons are required", ErrValidation)
	}
	if representingID == representedID {
		return RepresentationRequest{}, fmt.Errorf("%w: cannot represent oneself", ErrValidation)
	}
	if !end.After(start) {
		return RepresentationRequest{}, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	hours := math.Round(end.Sub(start).Hours()*100) / 100

	return RepresentationRequest{
		ID:             uuid.NewString(),
		RepresentingID: representingID,
		RepresentedID:  representedID,
		StartDate:      start,
		EndDate:        end,
		DurationHours:  hours,
		Status:         RepresentationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
