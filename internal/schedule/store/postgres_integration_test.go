//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
	"muster/pkg/testutil/containers"
)

func setupEntryStore(t *testing.T) (*PostgresEntryStore, id.InmateID, id.LocationID) {
	t.Helper()
	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)

	require.NoError(t, pg.TruncateTables(ctx, "schedule_entries", "inmates", "locations"))
	t.Cleanup(func() {
		_ = pg.TruncateTables(context.Background(), "schedule_entries", "inmates", "locations")
	})

	inmateID := id.NewInmateID()
	locationID := id.NewLocationID()
	_, err := pg.DB.ExecContext(ctx,
		`INSERT INTO locations (location_id, name, location_type) VALUES ($1, 'A-101', 'cell')`,
		uuid.UUID(locationID))
	require.NoError(t, err)
	_, err = pg.DB.ExecContext(ctx,
		`INSERT INTO inmates (inmate_id, name, home_cell_id) VALUES ($1, 'Alice Price', $2)`,
		uuid.UUID(inmateID), uuid.UUID(locationID))
	require.NoError(t, err)

	return NewPostgres(pg.DB), inmateID, locationID
}

func TestPostgresEntryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, inmateID, locationID := setupEntryStore(t)

	date := models.DateOf(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	entry := models.Entry{
		ID:            id.NewScheduleEntryID(),
		InmateID:      inmateID,
		LocationID:    locationID,
		Day:           models.Monday,
		Start:         models.ClockTime(19 * 60),
		End:           models.ClockTime(7 * 60),
		Activity:      models.ActivityCellTime,
		Recurring:     false,
		EffectiveDate: &date,
		Source:        "manual",
	}
	require.NoError(t, s.Create(ctx, &entry))

	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, *got)
}

func TestPostgresEntryStore_ByInmateOrdering(t *testing.T) {
	ctx := context.Background()
	s, inmateID, locationID := setupEntryStore(t)

	windows := []struct {
		day   models.Weekday
		start int
	}{
		{models.Tuesday, 8 * 60},
		{models.Monday, 14 * 60},
		{models.Monday, 8 * 60},
	}
	for _, w := range windows {
		entry := models.Entry{
			ID:         id.NewScheduleEntryID(),
			InmateID:   inmateID,
			LocationID: locationID,
			Day:        w.day,
			Start:      models.ClockTime(w.start),
			End:        models.ClockTime(w.start + 60),
			Activity:   models.ActivityWork,
			Recurring:  true,
			Source:     "manual",
		}
		require.NoError(t, s.Create(ctx, &entry))
	}

	entries, err := s.ByInmate(ctx, inmateID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.Monday, entries[0].Day)
	assert.Equal(t, models.ClockTime(8*60), entries[0].Start)
	assert.Equal(t, models.ClockTime(14*60), entries[1].Start)
	assert.Equal(t, models.Tuesday, entries[2].Day)

	other, err := s.ByInmate(ctx, id.NewInmateID())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPostgresEntryStore_ByLocationDayFilter(t *testing.T) {
	ctx := context.Background()
	s, inmateID, locationID := setupEntryStore(t)

	for _, day := range []models.Weekday{models.Monday, models.Wednesday} {
		entry := models.Entry{
			ID:         id.NewScheduleEntryID(),
			InmateID:   inmateID,
			LocationID: locationID,
			Day:        day,
			Start:      models.ClockTime(9 * 60),
			End:        models.ClockTime(11 * 60),
			Activity:   models.ActivityEducation,
			Recurring:  true,
			Source:     "manual",
		}
		require.NoError(t, s.Create(ctx, &entry))
	}

	all, err := s.ByLocation(ctx, locationID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day := models.Wednesday
	filtered, err := s.ByLocation(ctx, locationID, &day)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.Wednesday, filtered[0].Day)
}

func TestPostgresEntryStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s, inmateID, locationID := setupEntryStore(t)

	entry := models.Entry{
		ID:         id.NewScheduleEntryID(),
		InmateID:   inmateID,
		LocationID: locationID,
		Day:        models.Friday,
		Start:      models.ClockTime(10 * 60),
		End:        models.ClockTime(12 * 60),
		Activity:   models.ActivityWork,
		Recurring:  true,
		Source:     "manual",
	}
	require.NoError(t, s.Create(ctx, &entry))

	entry.Start = models.ClockTime(11 * 60)
	entry.Activity = models.ActivityEducation
	require.NoError(t, s.Update(ctx, &entry))

	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClockTime(11*60), got.Start)
	assert.Equal(t, models.ActivityEducation, got.Activity)

	require.NoError(t, s.Delete(ctx, entry.ID))

	_, err = s.Get(ctx, entry.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.True(t, dErrors.HasCode(s.Delete(ctx, entry.ID), dErrors.CodeNotFound))

	missing := models.Entry{ID: id.NewScheduleEntryID(), InmateID: inmateID, LocationID: locationID,
		Day: models.Monday, Start: 0, End: 60, Activity: models.ActivityWork, Recurring: true}
	assert.True(t, dErrors.HasCode(s.Update(ctx, &missing), dErrors.CodeNotFound))
}
