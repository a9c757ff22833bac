package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

const representationColumns = `id, representing_id, represented_id, start_date,
	end_date, duration_hours, status, created_at, confirmed_at, updated_at`

// RepresentationRepository persists representation requests in PostgreSQL.
// Status transitions go through a conditional UPDATE so a request can leave
// pending exactly once, regardless of concurrent callers.
type RepresentationRepository struct {
	db *sql.DB
}

var _ ports.RepresentationRepository = (*RepresentationRepository)(nil)

func NewRepresentationRepository(db *sql.DB) *RepresentationRepository {
	return &RepresentationRepository{db: db}
}

func (r *RepresentationRepository) Create(ctx context.Context, req domain.RepresentationRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO representation_requests
			(id, representing_id, represented_id, start_date, end_date,
			 duration_hours, status, created_at, confirmed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.RepresentingID, req.RepresentedID, req.StartDate,
		req.EndDate, req.DurationHours, string(req.Status), req.CreatedAt,
		req.ConfirmedAt, req.UpdatedAt,
	)
	return err
}

func (r *RepresentationRepository) FindByID(ctx context.Context, id string) (*domain.RepresentationRequest, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+representationColumns+" FROM representation_requests WHERE id = $1", id)

	var req domain.RepresentationRequest
	err := row.Scan(
		&req.ID, &req.RepresentingID, &req.RepresentedID, &req.StartDate,
		&req.EndDate, &req.DurationHours, &req.Status, &req.CreatedAt,
		&req.ConfirmedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("representation request: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus transitions the request from one status to another in a single
// conditional statement. Zero affected rows with an existing id means the
// request already left pending.
func (r *RepresentationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RepresentationStatus, confirmedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE representation_requests
		SET status = $3, confirmed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to), confirmedAt,
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

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM representation_requests WHERE id = $1)", id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("representation request %s: %w", id, domain.ErrInvalidState)
	}
	return fmt.Errorf("representation request %s: %w", id, domain.ErrNotFound)
}

func (r *RepresentationRepository) SumConfirmedHours(ctx context.Context, personID string) (float64, error) {
	var hours float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_hours), 0)
		FROM representation_requests
		WHERE represented_id = $1 AND status = $2`,
		personID, string(domain.RepresentationConfirmed),
	).Scan(&hours)
	return hours, err
}

func (r *RepresentationRepository) FindPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.RepresentationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+representationColumns+` FROM representation_requests
		WHERE status = $1 AND start_date <= $2
		ORDER BY start_date ASC`,
		string(domain.RepresentationPending), cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RepresentationRequest
	for rows.Next() {
		var req domain.RepresentationRequest
		if err := rows.Scan(
			&req.ID, &req.RepresentingID, &req.RepresentedID, &req.StartDate,
			&req.EndDate, &req.DurationHours, &req.Status, &req.CreatedAt,
			&req.ConfirmedAt, &req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
