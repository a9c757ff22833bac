package ports

import (
	"context"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
)

// ReviewService decides the outcome of a member's pending unit (a new
// registration or a data-change overlay) and applies it atomically.
type ReviewService interface {
	Review(ctx context.Context, memberID string, decision domain.Decision, justification, actor string) error
	PendingChanges(ctx context.Context, memberID string) ([]domain.FieldChange, error)
}

// RepresentationService manages the lifecycle of representation requests and
// the derived confirmed-hours aggregate.
type RepresentationService interface {
	Create(ctx context.Context, representingID, representedID string, start, end time.Time, actor string) (string, error)
	SetStatus(ctx context.Context, requestID string, status domain.RepresentationStatus, actor string) error
	ConfirmedHours(ctx context.Context, personID string) (float64, error)

	// OverduePending lists pending requests whose start date lies more than
	// olderThan in the past, oldest first. Zero means the configured default.
	OverduePending(ctx context.Context, olderThan time.Duration) ([]domain.RepresentationRequest, error)
}
