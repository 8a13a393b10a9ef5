package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"muster/internal/rollcall/models"
	id "muster/pkg/domain"
)

// PostgresRollCallStore reads roll calls and their routes from
// PostgreSQL. Route stops live in roll_call_stops with the expected
// inmates as a uuid array column.
type PostgresRollCallStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed roll call store.
func NewPostgres(db *sql.DB) *PostgresRollCallStore {
	return &PostgresRollCallStore{db: db}
}

// ByIDs loads the known roll calls among ids with routes attached,
// ordered by id. Unknown ids are skipped.
func (s *PostgresRollCallStore) ByIDs(ctx context.Context, ids []id.RollCallID) ([]models.RollCall, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, len(ids))
	for i, rcID := range ids {
		raw[i] = uuid.UUID(rcID)
	}

	rollCalls, err := s.loadRollCalls(ctx, raw)
	if err != nil {
		return nil, err
	}
	if len(rollCalls) == 0 {
		return nil, nil
	}
	if err := s.attachRoutes(ctx, raw, rollCalls); err != nil {
		return nil, err
	}

	out := make([]models.RollCall, 0, len(rollCalls))
	for _, rc := range rollCalls {
		out = append(out, *rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *PostgresRollCallStore) loadRollCalls(ctx context.Context, ids []uuid.UUID) (map[id.RollCallID]*models.RollCall, error) {
	query := `
		SELECT roll_call_id, status, scheduled_at, started_at, completed_at
		FROM roll_calls
		WHERE roll_call_id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list roll calls: %w", err)
	}
	defer rows.Close()

	rollCalls := make(map[id.RollCallID]*models.RollCall)
	for rows.Next() {
		var (
			rc        models.RollCall
			rcID      uuid.UUID
			started   sql.NullTime
			completed sql.NullTime
		)
		if err := rows.Scan(&rcID, &rc.Status, &rc.ScheduledAt, &started, &completed); err != nil {
			return nil, fmt.Errorf("scan roll call: %w", err)
		}
		rc.ID = id.RollCallID(rcID)
		if started.Valid {
			t := started.Time
			rc.StartedAt = &t
		}
		if completed.Valid {
			t := completed.Time
			rc.CompletedAt = &t
		}
		rollCalls[rc.ID] = &rc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roll calls: %w", err)
	}
	return rollCalls, nil
}

func (s *PostgresRollCallStore) attachRoutes(ctx context.Context, ids []uuid.UUID, rollCalls map[id.RollCallID]*models.RollCall) error {
	query := `
		SELECT roll_call_id, location_id, stop_order, expected_inmates, status
		FROM roll_call_stops
		WHERE roll_call_id = ANY($1)
		ORDER BY roll_call_id, stop_order
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list roll call stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rcID     uuid.UUID
			locID    uuid.UUID
			stop     models.RouteStop
			expected []uuid.UUID
		)
		if err := rows.Scan(&rcID, &locID, &stop.Order, pq.Array(&expected), &stop.Status); err != nil {
			return fmt.Errorf("scan roll call stop: %w", err)
		}
		rc, ok := rollCalls[id.RollCallID(rcID)]
		if !ok {
			continue
		}
		stop.LocationID = id.LocationID(locID)
		stop.Expected = make([]id.InmateID, len(expected))
		for i, u := range expected {
			stop.Expected[i] = id.InmateID(u)
		}
		rc.Route = append(rc.Route, stop)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate roll call stops: %w", err)
	}
	return nil
}
