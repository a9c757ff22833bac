package domain

import "time"

type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberRejected MemberStatus = "rejected"
)

// Member is a chamber member record. A brand-new registration is the whole
// record in status pending; once active, a proposed profile change lives in
// PendingOverlay until a reviewer decides on it.
type Member struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	DentistID string       `json:"dentist_id,omitempty"` // assigned once, on first approval
	Status    MemberStatus `json:"status"`

	Title           string   `json:"title,omitempty"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	City            string   `json:"city,omitempty"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Specializations []string `json:"specializations,omitempty"`

	// Notification preferences, independently toggled.
	NotifyInApp bool `json:"notify_in_app"`
	NotifyEmail bool `json:"notify_email"`

	PendingOverlay  *MemberOverlay `json:"pending_overlay,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberOverlay is a proposed change set: the member's field set with every
// field optional. Only non-nil fields are part of the submission.
type MemberOverlay struct {
	Email           *string  `json:"email,omitempty"`
	Title           *string  `json:"title,omitempty"`
	FirstName       *string  `json:"first_name,omitempty"`
	LastName        *string  `json:"last_name,omitempty"`
	City            *string  `json:"city,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
}

// IsNewRegistration reports whether the whole record is awaiting its first
// review. A pending member never carries an overlay.
func (m Member) IsNewRegistration() bool {
	return m.Status == MemberPending
}

// HasPendingChange reports whether an approved member has a data-change
// overlay awaiting review. Derived, never stored.
func (m Member) HasPendingChange() bool {
	return m.Status == MemberActive && m.PendingOverlay != nil
}

// FullName is used for audit narration and notification substitutions.
func (m Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}

// merged returns a copy of the member with every present overlay field
// overwriting the current value. Overlay wins per field; the overlay itself
// is cleared on the returned copy.
func (m Member) merged() Member {
	o := m.PendingOverlay
	if o == nil {
		return m
	}
	if o.Email != nil {
		m.Email = *o.Email
	}
	if o.Title != nil {
		m.Title = *o.Title
	}
	if o.FirstName != nil {
		m.FirstName = *o.FirstName
	}
	if o.LastName != nil {
		m.LastName = *o.LastName
	}
	if o.City != nil {
		m.City = *o.City
	}
	if o.Address != nil {
		m.Address = *o.Address
	}
	if o.Phone != nil {
		m.Phone = *o.Phone
	}
	if o.Specializations != nil {
		m.Specializations = o.Specializations
	}
	m.PendingOverlay = nil
	return m
}
