package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// ReviewService is the member review engine. Each call is stateless: read the
// member, decide, write back with a compare-and-swap, then dispatch the
// post-commit events. Audit and notification are fire-and-log; the committed
// state transition is the authoritative outcome.
type ReviewService struct {
	members  ports.MemberRepository
	notifier ports.Notifier
	audit    ports.AuditLog
	idgen    ports.IDGenerator
	now      func() time.Time
}

var _ ports.ReviewService = (*ReviewService)(nil)

func NewReviewService(
	members ports.MemberRepository,
	notifier ports.Notifier,
	audit ports.AuditLog,
	idgen ports.IDGenerator,
) *ReviewService {
	return &ReviewService{
		members:  members,
		notifier: notifier,
		audit:    audit,
		idgen:    idgen,
		now:      time.Now,
	}
}

// Review applies a decision to the member's pending unit. Re-invoking on an
// already-terminal member fails with domain.ErrInvalidState rather than
// silently repeating side effects; a lost write race surfaces as
// domain.ErrVersionConflict, which the caller may retry.
func (s *ReviewService) Review(ctx context.Context, memberID string, decision domain.Decision, justification, actor string) error {
	m, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("review: load member %s: %w", memberID, err)
	}

	if err := domain.ValidateDecision(decision, justification); err != nil {
		return err
	}
	if !m.IsNewRegistration() && !m.HasPendingChange() {
		return fmt.Errorf("%w: member %s has nothing to review", domain.ErrInvalidState, memberID)
	}

	// The dentist id is consumed only on a first registration approval, so
	// only then is a sequence value spent.
	var dentistID string
	if m.IsNewRegistration() && decision == domain.DecisionApprove && m.DentistID == "" {
		dentistID, err = s.idgen.Next(ctx)
		if err != nil {
			return fmt.Errorf("review: generate dentist id: %w", err)
		}
	}

	updated, events, err := domain.ApplyReview(*m, decision, justification, dentistID, actor, s.now())
	if err != nil {
		return err
	}

	// CAS against the state we read. Exactly one of two racing reviewers
	// commits; the other gets a version conflict and no side effects.
	if err := s.members.Update(ctx, updated, m.UpdatedAt); err != nil {
		return fmt.Errorf("review: persist member %s: %w", memberID, err)
	}

	s.dispatch(ctx, events)
	return nil
}

// PendingChanges returns the diff rows between a member's current state and
// its pending overlay. An absent overlay yields an empty result.
func (s *ReviewService) PendingChanges(ctx context.Context, memberID string) ([]domain.FieldChange, error) {
	m, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("pending changes: load member %s: %w", memberID, err)
	}
	return domain.Diff(*m), nil
}

// dispatch attempts every post-commit event and logs failures. It returns
// after all events have been attempted; none of them can fail the operation.
func (s *ReviewService) dispatch(ctx context.Context, events []domain.PostCommitEvent) {
	for _, ev := range events {
		switch e := ev.(type) {
		case domain.AuditEntry:
			if err := s.audit.Append(ctx, e); err != nil {
				log.Printf("review: audit append failed for %s %s: %v", e.EntityKind, e.EntityID, err)
			}
		case domain.NotifyMember:
			if err := s.notifier.Notify(ctx, e.PersonID, e.TemplateKey, e.Substitutions, e.Channels); err != nil {
				log.Printf("review: notification %s to %s failed: %v", e.TemplateKey, e.PersonID, err)
			}
		}
	}
}
