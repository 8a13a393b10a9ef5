// Package models defines individual verification events captured during
// roll call sweeps.
package models

import (
	"time"

	id "muster/pkg/domain"
)

// Status is the outcome of verifying one inmate at one location.
type Status string

const (
	StatusVerified      Status = "verified"
	StatusNotFound      Status = "not_found"
	StatusWrongLocation Status = "wrong_location"
	StatusManual        Status = "manual"
	StatusPending       Status = "pending"
)

// Positive reports whether the status counts as a successful
// verification. Manual confirmations count regardless of how the
// override was justified.
func (s Status) Positive() bool {
	return s == StatusVerified || s == StatusManual
}

// Verification is one observation of an inmate during a roll call.
type Verification struct {
	ID             id.VerificationID
	RollCallID     id.RollCallID
	InmateID       id.InmateID
	LocationID     id.LocationID
	Status         Status
	Confidence     float64
	Timestamp      time.Time
	ManualOverride bool
	OverrideReason string
}
