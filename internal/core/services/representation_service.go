package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// DefaultStaleDays is how far in the past a pending request's start date may
// lie before it counts as overdue. Also the threshold for the late-submission
// alert at creation time.
const DefaultStaleDays = 5

// RepresentationService manages creation, confirmation/decline and overdue
// detection of representation requests. Like the review engine it holds no
// state between invocations; terminal transitions are enforced by a
// conditional update at the store.
type RepresentationService struct {
	requests   ports.RepresentationRepository
	members    ports.MemberRepository
	notifier   ports.Notifier
	audit      ports.AuditLog
	staleAfter time.Duration
	now        func() time.Time
}

var _ ports.RepresentationService = (*RepresentationService)(nil)

func NewRepresentationService(
	requests ports.RepresentationRepository,
	members ports.MemberRepository,
	notifier ports.Notifier,
	audit ports.AuditLog,
	staleDays int,
) *RepresentationService {
	if staleDays <= 0 {
		staleDays = DefaultStaleDays
	}
	return &RepresentationService{
		requests:   requests,
		members:    members,
		notifier:   notifier,
		audit:      audit,
		staleAfter: time.Duration(staleDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// Create logs a new representation: representingID covered duties for
// representedID over [start, end]. The represented person is notified; if the
// start date is already past the staleness threshold, reviewers get a
// late-submission alert on top.
func (s *RepresentationService) Create(ctx context.Context, representingID, representedID string, start, end time.Time, actor string) (string, error) {
	now := s.now()

	req, err := domain.NewRepresentationRequest(representingID, representedID, start, end, now)
	if err != nil {
		return "", err
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return "", fmt.Errorf("representation: create: %w", err)
	}

	if err := s.audit.Append(ctx, domain.AuditEntry{
		Actor:      actor,
		EntityKind: "representation",
		EntityID:   req.ID,
		Operation:  "representation.create",
		Details:    fmt.Sprintf("%s represented %s for %.2f hours", representingID, representedID, req.DurationHours),
	}); err != nil {
		log.Printf("representation: audit append failed for %s: %v", req.ID, err)
	}

	subs := map[string]string{
		"representing": representingID,
		"represented":  representedID,
		"hours":        fmt.Sprintf("%.2f", req.DurationHours),
		"start":        start.Format(time.RFC3339),
		"end":          end.Format(time.RFC3339),
	}
	if err := s.notifier.Notify(ctx, representedID, domain.TplRepresentationLogged, subs, s.channelsFor(ctx, representedID)); err != nil {
		log.Printf("representation: notification %s to %s failed: %v", domain.TplRepresentationLogged, representedID, err)
	}

	// A submission that is already overdue on arrival gets its own reviewer
	// alert, distinct from the periodic overdue sweep.
	if start.Before(now.Add(-s.staleAfter)) {
		if err := s.notifier.NotifyReviewers(ctx, domain.TplRepresentationLate, subs); err != nil {
			log.Printf("representation: late-submission alert for %s failed: %v", req.ID, err)
		}
	}

	return req.ID, nil
}

// SetStatus moves a pending request to confirmed or declined, exactly once.
// The transition is identical whether the represented person or a reviewer
// invokes it; the caller matters only for audit attribution.
func (s *RepresentationService) SetStatus(ctx context.Context, requestID string, status domain.RepresentationStatus, actor string) error {
	if status != domain.RepresentationConfirmed && status != domain.RepresentationDeclined {
		return fmt.Errorf("%w: status must be confirmed or declined, got %q", domain.ErrValidation, status)
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("representation: load %s: %w", requestID, err)
	}
	if req.Terminal() {
		return fmt.Errorf("%w: request %s already %s", domain.ErrInvalidState, requestID, req.Status)
	}

	var confirmedAt *time.Time
	if status == domain.RepresentationConfirmed {
		t := s.now()
		confirmedAt = &t
	}

	// Conditional on status still being pending; a concurrent decision makes
	// this fail with ErrInvalidState instead of double-applying.
	if err := s.requests.UpdateStatus(ctx, requestID, domain.RepresentationPending, status, confirmedAt); err != nil {
		return fmt.Errorf("representation: transition %s: %w", requestID, err)
	}

	if err := s.audit.Append(ctx, domain.AuditEntry{
		Actor:      actor,
		EntityKind: "representation",
		EntityID:   requestID,
		Operation:  "representation." + string(status),
	}); err != nil {
		log.Printf("representation: audit append failed for %s: %v", requestID, err)
	}

	template := domain.TplRepresentationConfirmed
	if status == domain.RepresentationDeclined {
		template = domain.TplRepresentationDeclined
	}
	subs := map[string]string{
		"represented": req.RepresentedID,
		"hours":       fmt.Sprintf("%.2f", req.DurationHours),
	}
	if err := s.notifier.Notify(ctx, req.RepresentingID, template, subs, s.channelsFor(ctx, req.RepresentingID)); err != nil {
		log.Printf("representation: notification %s to %s failed: %v", template, req.RepresentingID, err)
	}

	return nil
}

// ConfirmedHours sums the stored durations of all confirmed requests where
// the person was represented. A pure store aggregation: no counter to drift.
func (s *RepresentationService) ConfirmedHours(ctx context.Context, personID string) (float64, error) {
	if personID == "" {
		return 0, fmt.Errorf("%w: person id is required", domain.ErrValidation)
	}
	hours, err := s.requests.SumConfirmedHours(ctx, personID)
	if err != nil {
		return 0, fmt.Errorf("representation: sum confirmed hours for %s: %w", personID, err)
	}
	return hours, nil
}

// OverduePending lists pending requests whose start date lies more than
// olderThan in the past, oldest first. Overdue is derived, never stored.
func (s *RepresentationService) OverduePending(ctx context.Context, olderThan time.Duration) ([]domain.RepresentationRequest, error) {
	if olderThan <= 0 {
		olderThan = s.staleAfter
	}
	cutoff := s.now().Add(-olderThan)
	requests, err := s.requests.FindPendingStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("representation: overdue scan: %w", err)
	}
	return requests, nil
}

// channelsFor reads the recipient's notification preferences. When the lookup
// fails we fall back to both channels so a store hiccup cannot silently drop
// a message.
func (s *RepresentationService) channelsFor(ctx context.Context, personID string) domain.NotificationChannels {
	m, err := s.members.FindByID(ctx, personID)
	if err != nil {
		log.Printf("representation: preference lookup for %s failed: %v", personID, err)
		return domain.NotificationChannels{InApp: true, Email: true}
	}
	return domain.NotificationChannels{InApp: m.NotifyInApp, Email: m.NotifyEmail}
}
