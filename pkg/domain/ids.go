// Package domain holds the typed identifiers shared across features.
// Distinct types keep an InmateID from ever being passed where a
// LocationID is expected; the compiler enforces what reviews would miss.
package domain

import (
	"github.com/google/uuid"

	dErrors "muster/pkg/domain-errors"
)

type (
	// InmateID identifies a resident of the facility.
	InmateID uuid.UUID

	// LocationID identifies a node in the facility location tree.
	LocationID uuid.UUID

	// ScheduleEntryID identifies a recurring or one-off schedule entry.
	ScheduleEntryID uuid.UUID

	// RollCallID identifies a rollcall event.
	RollCallID uuid.UUID

	// VerificationID identifies a single verification record.
	VerificationID uuid.UUID
)

func (id InmateID) String() string        { return uuid.UUID(id).String() }
func (id LocationID) String() string      { return uuid.UUID(id).String() }
func (id ScheduleEntryID) String() string { return uuid.UUID(id).String() }
func (id RollCallID) String() string      { return uuid.UUID(id).String() }
func (id VerificationID) String() string  { return uuid.UUID(id).String() }

func (id InmateID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id LocationID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ScheduleEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RollCallID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText make the ids JSON- and map-key-friendly as
// canonical UUID strings.
func (id InmateID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id LocationID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id ScheduleEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RollCallID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id VerificationID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *InmateID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = InmateID(parsed)
	return nil
}

func (id *LocationID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = LocationID(parsed)
	return nil
}

func (id *ScheduleEntryID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ScheduleEntryID(parsed)
	return nil
}

func (id *RollCallID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = RollCallID(parsed)
	return nil
}

func (id *VerificationID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = VerificationID(parsed)
	return nil
}

func NewInmateID() InmateID               { return InmateID(uuid.New()) }
func NewLocationID() LocationID           { return LocationID(uuid.New()) }
func NewScheduleEntryID() ScheduleEntryID { return ScheduleEntryID(uuid.New()) }
func NewRollCallID() RollCallID           { return RollCallID(uuid.New()) }
func NewVerificationID() VerificationID   { return VerificationID(uuid.New()) }

// parseUUID enforces the shared invariant: ids must be valid, non-empty,
// non-nil UUIDs. Rejection happens at trust boundaries so everything
// past parsing can assume well-formed ids.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return parsed, nil
}

func ParseInmateID(raw string) (InmateID, error) {
	u, err := parseUUID(raw, "inmate_id")
	return InmateID(u), err
}

func ParseLocationID(raw string) (LocationID, error) {
	u, err := parseUUID(raw, "location_id")
	return LocationID(u), err
}

func ParseScheduleEntryID(raw string) (ScheduleEntryID, error) {
	u, err := parseUUID(raw, "entry_id")
	return ScheduleEntryID(u), err
}

func ParseRollCallID(raw string) (RollCallID, error) {
	u, err := parseUUID(raw, "roll_call_id")
	return RollCallID(u), err
}

func ParseVerificationID(raw string) (VerificationID, error) {
	u, err := parseUUID(raw, "verification_id")
	return VerificationID(u), err
}
