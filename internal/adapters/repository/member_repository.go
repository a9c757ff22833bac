package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

const memberColumns = `id, email, dentist_id, status, title, first_name, last_name,
	city, address, phone, specializations, notify_in_app, notify_email,
	pending_overlay, rejection_reason, created_at, updated_at`

// MemberRepository persists members in PostgreSQL. The pending overlay is a
// JSONB column (NULL when no change is awaiting review) and Update is a
// compare-and-swap on updated_at.
type MemberRepository struct {
	db *sql.DB
}

var _ ports.MemberRepository = (*MemberRepository)(nil)

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = $1", id)
	return scanMember(row)
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE email = $1", email)
	return scanMember(row)
}

// Update writes the full member state, but only if updated_at has not moved
// since the caller read it. Zero rows with an existing id means somebody else
// won the race.
func (r *MemberRepository) Update(ctx context.Context, m domain.Member, expectedUpdatedAt time.Time) error {
	overlay, err := marshalOverlay(m.PendingOverlay)
	if err != nil {
		return fmt.Errorf("marshal overlay: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE members SET
			email = $3, dentist_id = $4, status = $5, title = $6,
			first_name = $7, last_name = $8, city = $9, address = $10,
			phone = $11, specializations = $12, notify_in_app = $13,
			notify_email = $14, pending_overlay = $15, rejection_reason = $16,
			updated_at = $17
		WHERE id = $1 AND updated_at = $2`,
		m.ID, expectedUpdatedAt,
		m.Email, nullString(m.DentistID), string(m.Status), nullString(m.Title),
		m.FirstName, m.LastName, nullString(m.City), nullString(m.Address),
		nullString(m.Phone), pq.Array(m.Specializations), m.NotifyInApp,
		m.NotifyEmail, overlay, nullString(m.RejectionReason),
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// Disambiguate a lost race from a missing row.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)", m.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("member %s: %w", m.ID, domain.ErrVersionConflict)
	}
	return fmt.Errorf("member %s: %w", m.ID, domain.ErrNotFound)
}

func scanMember(row *sql.Row) (*domain.Member, error) {
	var (
		m                      domain.Member
		dentistID, title, city sql.NullString
		address, phone, reason sql.NullString
		overlay                []byte
	)
	err := row.Scan(
		&m.ID, &m.Email, &dentistID, &m.Status, &title, &m.FirstName,
		&m.LastName, &city, &address, &phone, pq.Array(&m.Specializations),
		&m.NotifyInApp, &m.NotifyEmail, &overlay, &reason,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	m.DentistID = dentistID.String
	m.Title = title.String
	m.City = city.String
	m.Address = address.String
	m.Phone = phone.String
	m.RejectionReason = reason.String

	if len(overlay) > 0 {
		var o domain.MemberOverlay
		if err := json.Unmarshal(overlay, &o); err != nil {
			return nil, fmt.Errorf("unmarshal overlay for member %s: %w", m.ID, err)
		}
		m.PendingOverlay = &o
	}
	return &m, nil
}

func marshalOverlay(o *domain.MemberOverlay) (any, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
