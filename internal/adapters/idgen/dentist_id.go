// Package idgen issues chamber-unique dentist identifiers from a PostgreSQL
// sequence, so uniqueness holds across every instance of the service.
package idgen

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// DentistIDGenerator formats ids as ZA-<year>-<sequence>, e.g. ZA-2026-000417.
type DentistIDGenerator struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.IDGenerator = (*DentistIDGenerator)(nil)

func NewDentistIDGenerator(db *sql.DB) *DentistIDGenerator {
	return &DentistIDGenerator{db: db, now: time.Now}
}

func (g *DentistIDGenerator) Next(ctx context.Context) (string, error) {
	var n int64
	if err := g.db.QueryRowContext(ctx, "SELECT nextval('dentist_id_seq')").Scan(&n); err != nil {
		return "", fmt.Errorf("dentist id sequence: %w", err)
	}
	return fmt.Sprintf("ZA-%d-%06d", g.now().Year(), n), nil
}
