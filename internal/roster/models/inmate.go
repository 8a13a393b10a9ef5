package models

import (
	id "muster/pkg/domain"
)

// Inmate is a resident of the facility. HomeCellID is the static cell
// assignment used by the home-cell occupancy mode and as the fallback
// when no schedule entry covers an instant; nil means unassigned.
type Inmate struct {
	ID         id.InmateID
	Name       string
	HomeCellID *id.LocationID
	Active     bool
}
