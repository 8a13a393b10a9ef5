package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"muster/internal/verification/models"
	id "muster/pkg/domain"
)

// PostgresVerificationStore reads verification events from PostgreSQL.
type PostgresVerificationStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *PostgresVerificationStore {
	return &PostgresVerificationStore{db: db}
}

// ByRollCalls returns all events of the given roll calls, ordered by
// timestamp then id.
func (s *PostgresVerificationStore) ByRollCalls(ctx context.Context, ids []id.RollCallID) ([]models.Verification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, rcID := range ids {
		raw[i] = uuid.UUID(rcID)
	}

	query := `
		SELECT verification_id, roll_call_id, inmate_id, location_id,
		       status, confidence, verified_at, manual_override, override_reason
		FROM verifications
		WHERE roll_call_id = ANY($1)
		ORDER BY verified_at, verification_id
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []models.Verification
	for rows.Next() {
		var (
			v      models.Verification
			vID    uuid.UUID
			rcID   uuid.UUID
			inmID  uuid.UUID
			locID  uuid.UUID
			reason sql.NullString
		)
		if err := rows.Scan(&vID, &rcID, &inmID, &locID, &v.Status, &v.Confidence, &v.Timestamp, &v.ManualOverride, &reason); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		v.ID = id.VerificationID(vID)
		v.RollCallID = id.RollCallID(rcID)
		v.InmateID = id.InmateID(inmID)
		v.LocationID = id.LocationID(locID)
		if reason.Valid {
			v.OverrideReason = reason.String
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verifications: %w", err)
	}
	return out, nil
}
