package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "muster/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseInmateID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseLocationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseRollCallID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseScheduleEntryID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ScheduleEntryID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety. The
// commented assignments would fail to compile if types were
// interchangeable.
func TestTypeDistinction(t *testing.T) {
	inmateID := InmateID(uuid.New())
	locationID := LocationID(uuid.New())

	// var _ InmateID = locationID   // compile error
	// var _ LocationID = inmateID   // compile error

	assert.NotEqual(t, uuid.UUID(inmateID), uuid.UUID(locationID))
}

func FuzzParseInmateID(f *testing.F) {
	f.Add("")
	f.Add("not-a-uuid")
	f.Add(uuid.Nil.String())
	f.Add(uuid.New().String())

	f.Fuzz(func(t *testing.T, raw string) {
		id, err := ParseInmateID(raw)
		if err == nil && id.IsNil() {
			t.Fatalf("parse accepted %q but produced the nil id", raw)
		}
	})
}
