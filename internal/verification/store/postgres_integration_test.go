//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muster/internal/verification/models"
	id "muster/pkg/domain"
	"muster/pkg/testutil/containers"
)

type verificationFixture struct {
	store      *PostgresVerificationStore
	pg         *containers.PostgresContainer
	rollCallID id.RollCallID
	inmateID   id.InmateID
	locationID id.LocationID
}

func setupVerificationStore(t *testing.T) verificationFixture {
	t.Helper()
	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)

	tables := []string{"verifications", "roll_call_stops", "roll_calls", "inmates", "locations"}
	require.NoError(t, pg.TruncateTables(ctx, tables...))
	t.Cleanup(func() {
		_ = pg.TruncateTables(context.Background(), tables...)
	})

	f := verificationFixture{
		store:      NewPostgres(pg.DB),
		pg:         pg,
		rollCallID: id.NewRollCallID(),
		inmateID:   id.NewInmateID(),
		locationID: id.NewLocationID(),
	}
	_, err := pg.DB.ExecContext(ctx,
		`INSERT INTO locations (location_id, name, location_type) VALUES ($1, 'A-101', 'cell')`,
		uuid.UUID(f.locationID))
	require.NoError(t, err)
	_, err = pg.DB.ExecContext(ctx,
		`INSERT INTO inmates (inmate_id, name) VALUES ($1, 'Bob Stone')`,
		uuid.UUID(f.inmateID))
	require.NoError(t, err)
	_, err = pg.DB.ExecContext(ctx,
		`INSERT INTO roll_calls (roll_call_id, status, scheduled_at) VALUES ($1, 'completed', $2)`,
		uuid.UUID(f.rollCallID), time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return f
}

func (f verificationFixture) insert(t *testing.T, v models.Verification) {
	t.Helper()
	var reason any
	if v.OverrideReason != "" {
		reason = v.OverrideReason
	}
	_, err := f.pg.DB.ExecContext(context.Background(),
		`INSERT INTO verifications (verification_id, roll_call_id, inmate_id, location_id,
		    status, confidence, verified_at, manual_override, override_reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(v.ID), uuid.UUID(v.RollCallID), uuid.UUID(v.InmateID), uuid.UUID(v.LocationID),
		string(v.Status), v.Confidence, v.Timestamp, v.ManualOverride, reason)
	require.NoError(t, err)
}

func TestPostgresVerificationStore_ByRollCalls(t *testing.T) {
	ctx := context.Background()
	f := setupVerificationStore(t)

	base := time.Date(2026, 8, 31, 7, 10, 0, 0, time.UTC)
	later := models.Verification{
		ID:             id.NewVerificationID(),
		RollCallID:     f.rollCallID,
		InmateID:       f.inmateID,
		LocationID:     f.locationID,
		Status:         models.StatusManual,
		Confidence:     1,
		Timestamp:      base.Add(3 * time.Minute),
		ManualOverride: true,
		OverrideReason: "officer confirmed in person",
	}
	earlier := models.Verification{
		ID:         id.NewVerificationID(),
		RollCallID: f.rollCallID,
		InmateID:   f.inmateID,
		LocationID: f.locationID,
		Status:     models.StatusNotFound,
		Confidence: 0.2,
		Timestamp:  base,
	}
	f.insert(t, later)
	f.insert(t, earlier)

	got, err := f.store.ByRollCalls(ctx, []id.RollCallID{f.rollCallID})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.StatusNotFound, got[0].Status)
	assert.Equal(t, "", got[0].OverrideReason)
	assert.Equal(t, models.StatusManual, got[1].Status)
	assert.True(t, got[1].ManualOverride)
	assert.Equal(t, "officer confirmed in person", got[1].OverrideReason)
	assert.True(t, got[1].Timestamp.Equal(later.Timestamp))
}

func TestPostgresVerificationStore_ScopedToRequestedRollCalls(t *testing.T) {
	ctx := context.Background()
	f := setupVerificationStore(t)

	otherRollCall := id.NewRollCallID()
	_, err := f.pg.DB.ExecContext(ctx,
		`INSERT INTO roll_calls (roll_call_id, status, scheduled_at) VALUES ($1, 'completed', $2)`,
		uuid.UUID(otherRollCall), time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f.insert(t, models.Verification{
		ID: id.NewVerificationID(), RollCallID: f.rollCallID, InmateID: f.inmateID,
		LocationID: f.locationID, Status: models.StatusVerified, Confidence: 0.97,
		Timestamp: time.Date(2026, 8, 31, 7, 12, 0, 0, time.UTC),
	})
	f.insert(t, models.Verification{
		ID: id.NewVerificationID(), RollCallID: otherRollCall, InmateID: f.inmateID,
		LocationID: f.locationID, Status: models.StatusVerified, Confidence: 0.91,
		Timestamp: time.Date(2026, 8, 31, 19, 12, 0, 0, time.UTC),
	})

	got, err := f.store.ByRollCalls(ctx, []id.RollCallID{f.rollCallID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.rollCallID, got[0].RollCallID)

	none, err := f.store.ByRollCalls(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
