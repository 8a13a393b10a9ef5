package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"muster/internal/hierarchy/models"
	id "muster/pkg/domain"
)

// PostgresLocationStore reads the location tree from PostgreSQL.
type PostgresLocationStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed location store.
func NewPostgres(db *sql.DB) *PostgresLocationStore {
	return &PostgresLocationStore{db: db}
}

// All returns every location ordered by name for stable snapshots.
func (s *PostgresLocationStore) All(ctx context.Context) ([]models.Location, error) {
	query := `
		SELECT location_id, name, location_type, parent_id, capacity, building
		FROM locations
		ORDER BY name, location_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var (
			loc      models.Location
			locID    uuid.UUID
			locType  string
			parentID uuid.NullUUID
		)
		if err := rows.Scan(&locID, &loc.Name, &locType, &parentID, &loc.Capacity, &loc.Building); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.ID = id.LocationID(locID)
		loc.Type = models.LocationType(locType)
		if parentID.Valid {
			parent := id.LocationID(parentID.UUID)
			loc.ParentID = &parent
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}
