package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"muster/internal/roster/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// PostgresInmateStore reads the inmate roster from PostgreSQL.
type PostgresInmateStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed inmate store.
func NewPostgres(db *sql.DB) *PostgresInmateStore {
	return &PostgresInmateStore{db: db}
}

// ActiveInmates lists inmates not marked inactive.
func (s *PostgresInmateStore) ActiveInmates(ctx context.Context) ([]models.Inmate, error) {
	query := `
		SELECT inmate_id, name, home_cell_id, active
		FROM inmates
		WHERE active
		ORDER BY inmate_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active inmates: %w", err)
	}
	defer rows.Close()

	var inmates []models.Inmate
	for rows.Next() {
		var (
			inm      models.Inmate
			inmateID uuid.UUID
			homeCell uuid.NullUUID
		)
		if err := rows.Scan(&inmateID, &inm.Name, &homeCell, &inm.Active); err != nil {
			return nil, fmt.Errorf("scan inmate: %w", err)
		}
		inm.ID = id.InmateID(inmateID)
		if homeCell.Valid {
			cell := id.LocationID(homeCell.UUID)
			inm.HomeCellID = &cell
		}
		inmates = append(inmates, inm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inmates: %w", err)
	}
	return inmates, nil
}

// HomeCellOf returns the static home cell assignment.
func (s *PostgresInmateStore) HomeCellOf(ctx context.Context, inmateID id.InmateID) (*id.LocationID, error) {
	var homeCell uuid.NullUUID
	err := s.db.QueryRowContext(ctx,
		`SELECT home_cell_id FROM inmates WHERE inmate_id = $1`,
		uuid.UUID(inmateID),
	).Scan(&homeCell)
	if err == sql.ErrNoRows {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "inmate %s not found", inmateID)
	}
	if err != nil {
		return nil, fmt.Errorf("get home cell: %w", err)
	}
	if !homeCell.Valid {
		return nil, nil
	}
	cell := id.LocationID(homeCell.UUID)
	return &cell, nil
}

// Exists reports whether the inmate id is known.
func (s *PostgresInmateStore) Exists(ctx context.Context, inmateID id.InmateID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM inmates WHERE inmate_id = $1)`,
		uuid.UUID(inmateID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check inmate exists: %w", err)
	}
	return exists, nil
}
