package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muster/internal/platform/metrics"
	"muster/internal/schedule/conflict"
	"muster/internal/schedule/models"
	"muster/internal/schedule/store"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

type fakeRoster struct {
	known map[id.InmateID]bool
}

func (f *fakeRoster) Exists(_ context.Context, inmateID id.InmateID) (bool, error) {
	return f.known[inmateID], nil
}

type fakeLocations struct {
	known map[id.LocationID]bool
}

func (f *fakeLocations) Contains(_ context.Context, locationID id.LocationID) (bool, error) {
	return f.known[locationID], nil
}

type fixture struct {
	svc     *Service
	entries *store.InMemoryEntryStore
	inmate  id.InmateID
	cell    id.LocationID
	yard    id.LocationID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	entries := store.NewMemory()
	inmate := id.NewInmateID()
	cell := id.NewLocationID()
	yard := id.NewLocationID()

	svc := New(
		entries,
		conflict.New(entries),
		&fakeRoster{known: map[id.InmateID]bool{inmate: true}},
		&fakeLocations{known: map[id.LocationID]bool{cell: true, yard: true}},
		metrics.NewForTest(),
		slog.Default(),
	)
	return &fixture{svc: svc, entries: entries, inmate: inmate, cell: cell, yard: yard}
}

func (f *fixture) entry(day models.Weekday, start, end string, recurring bool, effective *models.Date) models.Entry {
	return models.Entry{
		InmateID:      f.inmate,
		LocationID:    f.cell,
		Day:           day,
		Start:         models.MustClock(start),
		End:           models.MustClock(end),
		Activity:      models.ActivityWork,
		Recurring:     recurring,
		EffectiveDate: effective,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid entry is persisted with a fresh id", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Monday, "08:00", "09:00", true, nil)
		require.NoError(t, f.svc.Create(ctx, &entry))
		assert.False(t, entry.ID.IsNil())

		stored, err := f.entries.Get(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.LocationID, stored.LocationID)
	})

	t.Run("unknown inmate is fatal", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Monday, "08:00", "09:00", true, nil)
		entry.InmateID = id.NewInmateID()
		err := f.svc.Create(ctx, &entry)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("unknown location is fatal", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Monday, "08:00", "09:00", true, nil)
		entry.LocationID = id.NewLocationID()
		err := f.svc.Create(ctx, &entry)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("invalid shape is rejected before any store access", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Weekday(9), "08:00", "09:00", true, nil)
		err := f.svc.Create(ctx, &entry)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestCreate_ConflictGate(t *testing.T) {
	ctx := context.Background()

	t.Run("recurring overlap is rejected with the blocking entries", func(t *testing.T) {
		f := newFixture(t)
		first := f.entry(models.Monday, "08:00", "12:00", true, nil)
		require.NoError(t, f.svc.Create(ctx, &first))

		second := f.entry(models.Monday, "10:00", "14:00", true, nil)
		second.LocationID = f.yard
		err := f.svc.Create(ctx, &second)
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

		var ce *ConflictError
		require.True(t, errors.As(err, &ce))
		require.Len(t, ce.Conflicts, 1)
		assert.Equal(t, first.ID, ce.Conflicts[0].ID)
	})

	t.Run("overnight tail conflicts across the day boundary", func(t *testing.T) {
		f := newFixture(t)
		night := f.entry(models.Monday, "19:00", "07:00", true, nil)
		require.NoError(t, f.svc.Create(ctx, &night))

		tuesdayMorning := f.entry(models.Tuesday, "06:00", "08:00", true, nil)
		err := f.svc.Create(ctx, &tuesdayMorning)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("one-off may shadow a recurring entry", func(t *testing.T) {
		f := newFixture(t)
		weekly := f.entry(models.Monday, "08:00", "12:00", true, nil)
		require.NoError(t, f.svc.Create(ctx, &weekly))

		date := models.Date{Year: 2026, Month: 8, Day: 31}
		visit := f.entry(models.Monday, "09:00", "10:00", false, &date)
		visit.LocationID = f.yard
		assert.NoError(t, f.svc.Create(ctx, &visit))
	})

	t.Run("one-offs on the same date conflict", func(t *testing.T) {
		f := newFixture(t)
		date := models.Date{Year: 2026, Month: 8, Day: 31}
		first := f.entry(models.Monday, "09:00", "11:00", false, &date)
		require.NoError(t, f.svc.Create(ctx, &first))

		second := f.entry(models.Monday, "10:00", "12:00", false, &date)
		err := f.svc.Create(ctx, &second)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("one-offs a week apart share a weekday but not a date", func(t *testing.T) {
		f := newFixture(t)
		thisWeek := models.Date{Year: 2026, Month: 8, Day: 31}
		nextWeek := thisWeek.AddDays(7)

		first := f.entry(models.Monday, "09:00", "11:00", false, &thisWeek)
		require.NoError(t, f.svc.Create(ctx, &first))

		second := f.entry(models.Monday, "10:00", "12:00", false, &nextWeek)
		assert.NoError(t, f.svc.Create(ctx, &second))
	})

	t.Run("overnight one-off tail conflicts with the next date", func(t *testing.T) {
		f := newFixture(t)
		monday := models.Date{Year: 2026, Month: 8, Day: 31}
		tuesday := monday.AddDays(1)

		stay := f.entry(models.Monday, "21:00", "06:00", false, &monday)
		require.NoError(t, f.svc.Create(ctx, &stay))

		early := f.entry(models.Tuesday, "05:00", "07:00", false, &tuesday)
		err := f.svc.Create(ctx, &early)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("entry does not conflict with itself", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Monday, "08:00", "09:00", true, nil)
		require.NoError(t, f.svc.Create(ctx, &entry))

		entry.End = models.MustClock("10:00")
		require.NoError(t, f.svc.Update(ctx, &entry))

		stored, err := f.entries.Get(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MustClock("10:00"), stored.End)
	})

	t.Run("unknown entry id", func(t *testing.T) {
		f := newFixture(t)
		entry := f.entry(models.Monday, "08:00", "09:00", true, nil)
		entry.ID = id.NewScheduleEntryID()
		err := f.svc.Update(ctx, &entry)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestApplySyncBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	good := f.entry(models.Monday, "08:00", "09:00", true, nil)
	clash := f.entry(models.Monday, "08:30", "10:00", true, nil)
	unknownInmate := f.entry(models.Tuesday, "08:00", "09:00", true, nil)
	unknownInmate.InmateID = id.NewInmateID()
	alsoGood := f.entry(models.Wednesday, "14:00", "15:00", true, nil)

	result, err := f.svc.ApplySyncBatch(ctx, "nightly-import", []models.Entry{good, clash, unknownInmate, alsoGood})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 2, result.Skipped)

	entries, err := f.svc.List(ctx, f.inmate)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "nightly-import", entries[0].Source)
}
