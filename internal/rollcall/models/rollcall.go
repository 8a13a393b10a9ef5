// Package models defines roll calls and their planned routes.
package models

import (
	"time"

	id "muster/pkg/domain"
)

// Status is the lifecycle state of a roll call.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StopStatus tracks progress through one stop on the route.
type StopStatus string

const (
	StopPending   StopStatus = "pending"
	StopCurrent   StopStatus = "current"
	StopCompleted StopStatus = "completed"
	StopSkipped   StopStatus = "skipped"
)

// RouteStop is one location visit on a roll call route, with the
// inmates expected to be present there.
type RouteStop struct {
	LocationID id.LocationID
	Order      int
	Expected   []id.InmateID
	Status     StopStatus
}

// RollCall is a verification sweep across a planned route.
type RollCall struct {
	ID          id.RollCallID
	Status      Status
	ScheduledAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Route       []RouteStop
}

// StopFor returns the route stop at the given location, if any.
func (r RollCall) StopFor(locationID id.LocationID) (RouteStop, bool) {
	for _, stop := range r.Route {
		if stop.LocationID == locationID {
			return stop, true
		}
	}
	return RouteStop{}, false
}

// Active reports whether the roll call still counts toward coverage.
// Cancelled sweeps never cover anything.
func (r RollCall) Active() bool {
	return r.Status != StatusCancelled
}
