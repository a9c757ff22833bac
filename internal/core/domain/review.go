package domain

import (
	"fmt"
	"strings"
	"time"
)

// Decision is the reviewer's verdict on a pending unit. It is a transient
// command, never persisted.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
	DecisionReject  Decision = "reject"
)

// Notification template keys for the four review outcomes.
const (
	TplRegistrationApproved = "member.registration.approved"
	TplRegistrationRejected = "member.registration.rejected"
	TplChangeApproved       = "member.change.approved"
	TplChangeRejected       = "member.change.rejected"
)

// NotificationChannels selects the delivery channels for one notification.
// Either, both, or neither may be enabled.
type NotificationChannels struct {
	InApp bool
	Email bool
}

// PostCommitEvent is a side effect owed after the state write commits.
// The transition function returns these instead of dispatching inline, so the
// decision logic stays pure and the dispatch stays best-effort.
type PostCommitEvent interface{ postCommit() }

// NotifyMember asks the dispatcher to deliver one templated message to a
// person, honoring their channel preferences.
type NotifyMember struct {
	PersonID      string
	TemplateKey   string
	Substitutions map[string]string
	Channels      NotificationChannels
}

// AuditEntry records who did what to whom.
type AuditEntry struct {
	Actor      string
	EntityKind string
	EntityID   string
	Operation  string
	Fields     []string
	Details    string
}

func (NotifyMember) postCommit() {}
func (AuditEntry) postCommit()   {}

// ValidateDecision checks the decision command itself: deny and reject always
// require a justification.
func ValidateDecision(d Decision, justification string) error {
	switch d {
	case DecisionApprove:
		return nil
	case DecisionDeny, DecisionReject:
		if strings.TrimSpace(justification) == "" {
			return fmt.Errorf("%w: justification required for %s", ErrValidation, d)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown decision %q", ErrValidation, d)
	}
}

// ApplyReview computes the outcome of reviewing a member's pending unit.
// It classifies the unit (new registration vs. data change), applies the
// decision, and returns the updated member together with the post-commit
// events (one audit entry, one notification) the caller must dispatch after
// the store write commits.
//
// dentistID is consumed only on the registration-approve branch, and only if
// the member has none yet; callers pre-generate it in that case.
func ApplyReview(m Member, d Decision, justification, dentistID, actor string, now time.Time) (Member, []PostCommitEvent, error) {
	if err := ValidateDecision(d, justification); err != nil {
		return Member{}, nil, err
	}

	isRegistration := m.IsNewRegistration()
	isDataChange := m.HasPendingChange()
	if !isRegistration && !isDataChange {
		return Member{}, nil, fmt.Errorf("%w: member %s has nothing to review", ErrInvalidState, m.ID)
	}

	var (
		branch   string
		template string
		fields   []string
	)

	switch {
	case isRegistration && d == DecisionApprove:
		m.Status = MemberActive
		if m.DentistID == "" {
			m.DentistID = dentistID
		}
		m.RejectionReason = ""
		branch, template = "registration", TplRegistrationApproved

	case isRegistration && d == DecisionDeny:
		m.Status = MemberInactive
		m.RejectionReason = justification
		branch, template = "registration", TplRegistrationRejected

	case isRegistration && d == DecisionReject:
		m.Status = MemberRejected
		m.RejectionReason = justification
		branch, template = "registration", TplRegistrationRejected

	case isDataChange && d == DecisionApprove:
		fields = ChangedFields(m)
		m = m.merged()
		branch, template = "data-change", TplChangeApproved

	default: // data change, deny or reject
		fields = ChangedFields(m)
		m.PendingOverlay = nil
		m.RejectionReason = justification
		branch, template = "data-change", TplChangeRejected
	}

	m.UpdatedAt = now

	events := []PostCommitEvent{
		AuditEntry{
			Actor:      actor,
			EntityKind: "member",
			EntityID:   m.ID,
			Operation:  fmt.Sprintf("review.%s.%s", branch, d),
			Fields:     fields,
			Details:    reviewDetails(m, justification),
		},
		NotifyMember{
			PersonID:    m.ID,
			TemplateKey: template,
			Substitutions: map[string]string{
				"name":     m.FullName(),
				"decision": string(d),
				"reason":   justification,
			},
			Channels: NotificationChannels{InApp: m.NotifyInApp, Email: m.NotifyEmail},
		},
	}

	return m, events, nil
}

func reviewDetails(m Member, justification string) string {
	if justification == "" {
		return m.FullName()
	}
	return m.FullName() + ": " + justification
}
