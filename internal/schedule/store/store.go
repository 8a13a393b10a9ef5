// Package store holds the schedule entry store implementations.
package store

import (
	"context"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
)

// Store is the read/write interface over persisted schedule entries.
type Store interface {
	ByInmate(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error)
	ByLocation(ctx context.Context, locationID id.LocationID, day *models.Weekday) ([]models.Entry, error)
	Get(ctx context.Context, entryID id.ScheduleEntryID) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, entryID id.ScheduleEntryID) error
}
