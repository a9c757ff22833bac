package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/services"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/test/mocks"
)

func newReviewFixture() (*services.ReviewService, *mocks.MockMemberRepository, *mocks.MockNotifier, *mocks.MockAuditLog, *mocks.MockIDGenerator) {
	members := mocks.NewMockMemberRepository()
	notifier := mocks.NewMockNotifier()
	audit := mocks.NewMockAuditLog()
	idgen := mocks.NewMockIDGenerator()
	svc := services.NewReviewService(members, notifier, audit, idgen)
	return svc, members, notifier, audit, idgen
}

func TestReview_ApproveRegistration(t *testing.T) {
	svc, members, notifier, audit, idgen := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	stored, _ := members.Get("m-1")
	if stored.Status != domain.MemberActive {
		t.Errorf("status = %s, want active", stored.Status)
	}
	if stored.DentistID != "ZA-2026-000001" {
		t.Errorf("dentist id = %q, want first sequence value", stored.DentistID)
	}
	if idgen.Count() != 1 {
		t.Errorf("id generator called %d times, want 1", idgen.Count())
	}

	if len(audit.Entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.Entries))
	}
	if audit.Entries[0].Operation != "review.registration.approve" {
		t.Errorf("audit operation = %q", audit.Entries[0].Operation)
	}

	if len(notifier.Sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.Sent))
	}
	sent := notifier.Sent[0]
	if sent.PersonID != "m-1" || sent.TemplateKey != domain.TplRegistrationApproved {
		t.Errorf("unexpected notification: %+v", sent)
	}
	if !sent.Channels.InApp || !sent.Channels.Email {
		t.Errorf("channels should follow member preferences, got %+v", sent.Channels)
	}
}

func TestReview_SecondReviewFailsWithoutSideEffects(t *testing.T) {
	svc, members, notifier, audit, idgen := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))

	if err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1"); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-2")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second review, got %v", err)
	}

	if len(audit.Entries) != 1 {
		t.Errorf("audit entries = %d, want 1 (no entry for the rejected retry)", len(audit.Entries))
	}
	if len(notifier.Sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.Sent))
	}
	if idgen.Count() != 1 {
		t.Errorf("id generator called %d times, want 1", idgen.Count())
	}
}

func TestReview_DenyRequiresJustification(t *testing.T) {
	svc, members, _, audit, _ := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))

	err := svc.Review(context.Background(), "m-1", domain.DecisionDeny, "", "staff-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if len(members.UpdateCalls) != 0 {
		t.Errorf("validation failure must not reach the store, got %d update calls", len(members.UpdateCalls))
	}
	if len(audit.Entries) != 0 {
		t.Errorf("validation failure must not be audited, got %d entries", len(audit.Entries))
	}

	stored, _ := members.Get("m-1")
	if stored.Status != domain.MemberPending {
		t.Errorf("member must stay pending, got %s", stored.Status)
	}
}

func TestReview_MemberNotFound(t *testing.T) {
	svc, _, _, _, _ := newReviewFixture()

	err := svc.Review(context.Background(), "missing", domain.DecisionApprove, "", "staff-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReview_VersionConflictHasNoSideEffects(t *testing.T) {
	svc, members, notifier, audit, _ := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))
	members.UpdateError = domain.ErrVersionConflict

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1")
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	if len(audit.Entries) != 0 {
		t.Errorf("conflicting review must not be audited, got %d entries", len(audit.Entries))
	}
	if len(notifier.Sent) != 0 {
		t.Errorf("conflicting review must not notify, got %d notifications", len(notifier.Sent))
	}
}

func TestReview_NotifierFailureDoesNotFailTheReview(t *testing.T) {
	svc, members, notifier, audit, _ := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))
	notifier.NotifyError = errors.New("redis down")

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1")
	if err != nil {
		t.Fatalf("review must succeed despite notifier failure, got %v", err)
	}

	stored, _ := members.Get("m-1")
	if stored.Status != domain.MemberActive {
		t.Errorf("status = %s, want active", stored.Status)
	}
	if len(audit.Entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(audit.Entries))
	}
}

func TestReview_AuditFailureDoesNotFailTheReview(t *testing.T) {
	svc, members, notifier, audit, _ := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))
	audit.AppendError = errors.New("postgres down")

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1")
	if err != nil {
		t.Fatalf("review must succeed despite audit failure, got %v", err)
	}
	if len(notifier.Sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.Sent))
	}
}

func TestReview_DataChangeApprove(t *testing.T) {
	svc, members, notifier, audit, idgen := newReviewFixture()
	members.SeedMember(mocks.ActiveMemberWithOverlay("m-1", domain.MemberOverlay{
		City: mocks.StrPtr("Graz"),
	}))

	err := svc.Review(context.Background(), "m-1", domain.DecisionApprove, "", "staff-1")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	stored, _ := members.Get("m-1")
	if stored.City != "Graz" {
		t.Errorf("city = %q, want merged value", stored.City)
	}
	if stored.PendingOverlay != nil {
		t.Errorf("overlay must be cleared")
	}
	if stored.DentistID != "ZA-2025-000042" {
		t.Errorf("dentist id must be untouched, got %q", stored.DentistID)
	}
	if idgen.Count() != 0 {
		t.Errorf("no sequence value may be spent on a data change, got %d", idgen.Count())
	}

	if len(audit.Entries) != 1 || audit.Entries[0].Operation != "review.data-change.approve" {
		t.Errorf("unexpected audit entries: %+v", audit.Entries)
	}
	if len(notifier.Sent) != 1 || notifier.Sent[0].TemplateKey != domain.TplChangeApproved {
		t.Errorf("unexpected notifications: %+v", notifier.Sent)
	}
}

func TestPendingChanges(t *testing.T) {
	svc, members, _, _, _ := newReviewFixture()
	members.SeedMember(mocks.ActiveMemberWithOverlay("m-1", domain.MemberOverlay{
		City:  mocks.StrPtr("Graz"),
		Phone: mocks.StrPtr("+43 1 5550100"),
	}))

	rows, err := svc.PendingChanges(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("PendingChanges failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestPendingChanges_NoOverlay(t *testing.T) {
	svc, members, _, _, _ := newReviewFixture()
	members.SeedMember(mocks.PendingMember("m-1"))

	rows, err := svc.PendingChanges(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("PendingChanges failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
