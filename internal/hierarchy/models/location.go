package models

import (
	id "muster/pkg/domain"
)

// LocationType classifies a node in the facility tree from the facility
// root down to the most granular occupiable unit.
type LocationType string

const (
	TypeFacility LocationType = "facility"
	TypeWing     LocationType = "wing"
	TypeLanding  LocationType = "landing"
	TypeCell     LocationType = "cell"
	TypeRoom     LocationType = "room"
	TypeYard     LocationType = "yard"
	TypeWorkshop LocationType = "workshop"
	TypeMedical  LocationType = "medical"
)

// Location is one node of the facility tree. ParentID nil marks a root
// (a facility). The hierarchy is read-only from the engine's
// perspective.
type Location struct {
	ID       id.LocationID
	Name     string
	Type     LocationType
	ParentID *id.LocationID
	Capacity int
	Building string
}

// IsRoot reports whether the node has no parent reference.
func (l Location) IsRoot() bool { return l.ParentID == nil }
