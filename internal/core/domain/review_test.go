package domain

import (
	"errors"
	"testing"
	"time"
)

var reviewNow = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

func pendingMember() Member {
	m := baseMember()
	m.Status = MemberPending
	m.NotifyInApp = true
	return m
}

func eventsByType(t *testing.T, events []PostCommitEvent) (AuditEntry, NotifyMember) {
	t.Helper()
	var (
		audit    AuditEntry
		notify   NotifyMember
		gotAudit bool
		gotNotif bool
	)
	for _, ev := range events {
		switch e := ev.(type) {
		case AuditEntry:
			audit, gotAudit = e, true
		case NotifyMember:
			notify, gotNotif = e, true
		}
	}
	if !gotAudit || !gotNotif {
		t.Fatalf("expected one audit and one notification event, got %#v", events)
	}
	return audit, notify
}

func TestApplyReview_RegistrationApprove(t *testing.T) {
	m := pendingMember()
	m.RejectionReason = "previous attempt"

	updated, events, err := ApplyReview(m, DecisionApprove, "", "ZA-2026-000001", "staff-1", reviewNow)
	if err != nil {
		t.Fatalf("ApplyReview returned error: %v", err)
	}

	if updated.Status != MemberActive {
		t.Errorf("status = %s, want active", updated.Status)
	}
	if updated.DentistID != "ZA-2026-000001" {
		t.Errorf("dentist id = %q, want assigned", updated.DentistID)
	}
	if updated.RejectionReason != "" {
		t.Errorf("rejection reason should be cleared, got %q", updated.RejectionReason)
	}
	if !updated.UpdatedAt.Equal(reviewNow) {
		t.Errorf("updatedAt not bumped")
	}

	audit, notify := eventsByType(t, events)
	if audit.Operation != "review.registration.approve" {
		t.Errorf("audit operation = %q", audit.Operation)
	}
	if audit.Actor != "staff-1" {
		t.Errorf("audit actor = %q", audit.Actor)
	}
	if notify.TemplateKey != TplRegistrationApproved {
		t.Errorf("notification template = %q", notify.TemplateKey)
	}
	if !notify.Channels.InApp || notify.Channels.Email {
		t.Errorf("channels should mirror preferences, got %+v", notify.Channels)
	}
}

func TestApplyReview_RegistrationApprove_KeepsExistingDentistID(t *testing.T) {
	m := pendingMember()
	m.DentistID = "ZA-2020-000007"

	updated, _, err := ApplyReview(m, DecisionApprove, "", "ZA-2026-000099", "staff-1", reviewNow)
	if err != nil {
		t.Fatalf("ApplyReview returned error: %v", err)
	}
	if updated.DentistID != "ZA-2020-000007" {
		t.Errorf("dentist id must never be reassigned, got %q", updated.DentistID)
	}
}

func TestApplyReview_RegistrationDenyAndReject(t *testing.T) {
	tests := []struct {
		name       string
		decision   Decision
		wantStatus MemberStatus
	}{
		{"deny_sets_inactive", DecisionDeny, MemberInactive},
		{"reject_sets_rejected", DecisionReject, MemberRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, events, err := ApplyReview(pendingMember(), tt.decision, "incomplete documents", "", "staff-1", reviewNow)
			if err != nil {
				t.Fatalf("ApplyReview returned error: %v", err)
			}
			if updated.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", updated.Status, tt.wantStatus)
			}
			if updated.RejectionReason != "incomplete documents" {
				t.Errorf("rejection reason = %q", updated.RejectionReason)
			}
			_, notify := eventsByType(t, events)
			if notify.TemplateKey != TplRegistrationRejected {
				t.Errorf("notification template = %q", notify.TemplateKey)
			}
		})
	}
}

func TestApplyReview_DataChangeApprove_MergesOverlay(t *testing.T) {
	m := baseMember()
	m.PendingOverlay = &MemberOverlay{
		City:            strPtr("Linz"),
		Specializations: []string{"implantology"},
	}

	updated, events, err := ApplyReview(m, DecisionApprove, "", "", "staff-1", reviewNow)
	if err != nil {
		t.Fatalf("ApplyReview returned error: %v", err)
	}

	if updated.City != "Linz" {
		t.Errorf("city = %q, want merged value", updated.City)
	}
	if len(updated.Specializations) != 1 || updated.Specializations[0] != "implantology" {
		t.Errorf("specializations = %v, want overlay value", updated.Specializations)
	}
	if updated.FirstName != m.FirstName {
		t.Errorf("fields absent from the overlay must be untouched")
	}
	if updated.PendingOverlay != nil {
		t.Errorf("overlay must be cleared after merge")
	}
	if updated.Status != MemberActive {
		t.Errorf("status = %s, want active", updated.Status)
	}

	audit, notify := eventsByType(t, events)
	if audit.Operation != "review.data-change.approve" {
		t.Errorf("audit operation = %q", audit.Operation)
	}
	if len(audit.Fields) != 2 {
		t.Errorf("audit fields = %v, want the two changed fields", audit.Fields)
	}
	if notify.TemplateKey != TplChangeApproved {
		t.Errorf("notification template = %q", notify.TemplateKey)
	}
}

func TestApplyReview_DataChangeReject_DiscardsOverlay(t *testing.T) {
	m := baseMember()
	m.PendingOverlay = &MemberOverlay{City: strPtr("Linz")}

	updated, events, err := ApplyReview(m, DecisionReject, "missing proof", "", "staff-1", reviewNow)
	if err != nil {
		t.Fatalf("ApplyReview returned error: %v", err)
	}

	if updated.City != "Wien" {
		t.Errorf("city must stay unchanged on reject, got %q", updated.City)
	}
	if updated.PendingOverlay != nil {
		t.Errorf("overlay must be discarded")
	}
	if updated.RejectionReason != "missing proof" {
		t.Errorf("rejection reason = %q", updated.RejectionReason)
	}
	if updated.Status != MemberActive {
		t.Errorf("rejecting an overlay must not deactivate the member, status = %s", updated.Status)
	}

	_, notify := eventsByType(t, events)
	if notify.TemplateKey != TplChangeRejected {
		t.Errorf("notification template = %q", notify.TemplateKey)
	}
}

func TestApplyReview_NothingPending(t *testing.T) {
	m := baseMember() // active, no overlay

	_, _, err := ApplyReview(m, DecisionApprove, "", "", "staff-1", reviewNow)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestApplyReview_MissingJustification(t *testing.T) {
	for _, d := range []Decision{DecisionDeny, DecisionReject} {
		_, _, err := ApplyReview(pendingMember(), d, "   ", "", "staff-1", reviewNow)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("decision %s without justification: expected ErrValidation, got %v", d, err)
		}
	}
}

func TestApplyReview_UnknownDecision(t *testing.T) {
	_, _, err := ApplyReview(pendingMember(), Decision("escalate"), "because", "", "staff-1", reviewNow)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMember_PendingExclusivity(t *testing.T) {
	// A pending member never carries an overlay, so the two classifications
	// cannot be true at once.
	m := pendingMember()
	if m.HasPendingChange() {
		t.Fatalf("pending member must not classify as data change")
	}

	m = baseMember()
	m.PendingOverlay = &MemberOverlay{City: strPtr("Linz")}
	if m.IsNewRegistration() {
		t.Fatalf("active member must not classify as new registration")
	}
	if !m.HasPendingChange() {
		t.Fatalf("active member with overlay must classify as data change")
	}
}
