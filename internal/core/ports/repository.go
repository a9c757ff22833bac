package ports

import (
	"context"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
)

// MemberRepository is the member half of the record store.
//
// Update is a compare-and-swap: the write only applies if the stored
// updated_at still equals expectedUpdatedAt; otherwise it fails with
// domain.ErrVersionConflict. Two reviewers racing on the same pending member
// therefore resolve to exactly one success.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	Update(ctx context.Context, m domain.Member, expectedUpdatedAt time.Time) error
}

// RepresentationRepository is the representation half of the record store.
//
// UpdateStatus is a conditional single-row update (status must still equal
// from); it fails with domain.ErrInvalidState when the request was already
// decided and domain.ErrNotFound when it does not exist.
type RepresentationRepository interface {
	Create(ctx context.Context, r domain.RepresentationRequest) error
	FindByID(ctx context.Context, id string) (*domain.RepresentationRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.RepresentationStatus, confirmedAt *time.Time) error

	// SumConfirmedHours aggregates duration_hours over confirmed requests
	// where the person was represented. Recomputed on demand, never cached.
	SumConfirmedHours(ctx context.Context, personID string) (float64, error)

	// FindPendingStartedBefore returns pending requests with a start date at
	// or before cutoff, oldest first.
	FindPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.RepresentationRequest, error)
}

// AuditLog appends immutable who-did-what-to-whom records.
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
}

// IDGenerator issues chamber-unique dentist identifiers, assigned once on the
// first registration approval.
type IDGenerator interface {
	Next(ctx context.Context) (string, error)
}
