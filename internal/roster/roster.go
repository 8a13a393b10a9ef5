// Package roster exposes read access to the inmate population.
package roster

import (
	"context"

	"muster/internal/roster/models"
	id "muster/pkg/domain"
)

// Store is the read interface the occupancy resolvers and schedule
// write path depend on.
type Store interface {
	// ActiveInmates lists every inmate not marked inactive.
	ActiveInmates(ctx context.Context) ([]models.Inmate, error)

	// HomeCellOf returns the static home cell, nil when unassigned,
	// CodeNotFound when the inmate does not exist.
	HomeCellOf(ctx context.Context, inmateID id.InmateID) (*id.LocationID, error)

	// Exists reports whether the inmate id is known.
	Exists(ctx context.Context, inmateID id.InmateID) (bool, error)
}
