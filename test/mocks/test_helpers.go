package mocks

import (
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
)

// StrPtr is a convenience for building overlays in tests.
func StrPtr(s string) *string { return &s }

// PendingMember builds a member awaiting first review.
func PendingMember(id string) domain.Member {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return domain.Member{
		ID:          id,
		Email:       id + "@example.at",
		Status:      domain.MemberPending,
		FirstName:   "Mia",
		LastName:    "Muster",
		City:        "Wien",
		NotifyInApp: true,
		NotifyEmail: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ActiveMemberWithOverlay builds an active member carrying a pending
// data-change overlay.
func ActiveMemberWithOverlay(id string, overlay domain.MemberOverlay) domain.Member {
	m := PendingMember(id)
	m.Status = domain.MemberActive
	m.DentistID = "ZA-2025-000042"
	m.PendingOverlay = &overlay
	return m
}

// PendingRepresentation builds a pending request starting at the given time.
func PendingRepresentation(id, representingID, representedID string, start time.Time, hours float64) domain.RepresentationRequest {
	return domain.RepresentationRequest{
		ID:             id,
		RepresentingID: representingID,
		RepresentedID:  representedID,
		StartDate:      start,
		EndDate:        start.Add(time.Duration(hours * float64(time.Hour))),
		DurationHours:  hours,
		Status:         domain.RepresentationPending,
		CreatedAt:      start,
		UpdatedAt:      start,
	}
}
