package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// AuditLog appends immutable entries to the audit_log table. There is no
// update or delete path on purpose.
type AuditLog struct {
	db *sql.DB
}

var _ ports.AuditLog = (*AuditLog)(nil)

func NewAuditLog(db *sql.DB) *AuditLog {
	return &AuditLog{db: db}
}

func (a *AuditLog) Append(ctx context.Context, entry domain.AuditEntry) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO audit_log
			(id, actor, entity_kind, entity_id, operation, fields, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), entry.Actor, entry.EntityKind, entry.EntityID,
		entry.Operation, pq.Array(entry.Fields), entry.Details, time.Now().UTC(),
	)
	return err
}
