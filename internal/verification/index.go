// Package verification indexes roll call observations for fast
// per-location, per-inmate status lookup during tree builds.
package verification

import (
	"context"
	"time"

	rcmodels "muster/internal/rollcall/models"
	"muster/internal/verification/models"
	id "muster/pkg/domain"
)

// Store loads verification events for a set of roll calls.
type Store interface {
	ByRollCalls(ctx context.Context, ids []id.RollCallID) ([]models.Verification, error)
}

// Result is the effective verification outcome for one inmate at one
// location across the selected roll calls.
type Result struct {
	Status         models.Status
	Confidence     float64
	Timestamp      time.Time
	ManualOverride bool
}

// Coverage describes how the selected roll calls relate to a location.
// Covered means some active route stops there; Settled means at least
// one completed roll call finished its stop at the location, so absence
// of a verification is a real miss rather than a sweep still underway.
type Coverage struct {
	Covered     bool
	Settled     bool
	ScheduledAt *time.Time
	ActualAt    *time.Time
}

type pairKey struct {
	location id.LocationID
	inmate   id.InmateID
}

// Index holds the effective verification per (location, inmate) pair
// and per-location coverage for one selected set of roll calls. Build
// once per tree build; reads are lock-free.
type Index struct {
	results  map[pairKey]Result
	coverage map[id.LocationID]Coverage
}

// NewIndex folds roll calls and their verifications into an index.
// When a pair was verified more than once, the latest timestamp wins;
// equal timestamps fall back to verification id order so rebuilds stay
// deterministic.
func NewIndex(rollCalls []rcmodels.RollCall, verifications []models.Verification) *Index {
	idx := &Index{
		results:  make(map[pairKey]Result, len(verifications)),
		coverage: make(map[id.LocationID]Coverage),
	}

	latest := make(map[pairKey]models.Verification, len(verifications))
	for _, v := range verifications {
		key := pairKey{location: v.LocationID, inmate: v.InmateID}
		prev, seen := latest[key]
		if !seen || v.Timestamp.After(prev.Timestamp) ||
			(v.Timestamp.Equal(prev.Timestamp) && v.ID.String() > prev.ID.String()) {
			latest[key] = v
		}
	}
	for key, v := range latest {
		idx.results[key] = Result{
			Status:         v.Status,
			Confidence:     v.Confidence,
			Timestamp:      v.Timestamp,
			ManualOverride: v.ManualOverride,
		}
	}

	for _, rc := range rollCalls {
		if !rc.Active() {
			continue
		}
		for _, stop := range rc.Route {
			cov := idx.coverage[stop.LocationID]
			cov.Covered = true
			if cov.ScheduledAt == nil || rc.ScheduledAt.Before(*cov.ScheduledAt) {
				t := rc.ScheduledAt
				cov.ScheduledAt = &t
			}
			if rc.Status == rcmodels.StatusCompleted && stop.Status == rcmodels.StopCompleted {
				cov.Settled = true
				if rc.CompletedAt != nil && (cov.ActualAt == nil || rc.CompletedAt.After(*cov.ActualAt)) {
					t := *rc.CompletedAt
					cov.ActualAt = &t
				}
			}
			idx.coverage[stop.LocationID] = cov
		}
	}
	return idx
}

// StatusOf returns the effective verification for the pair, or nil when
// no roll call observed the inmate at the location.
func (idx *Index) StatusOf(locationID id.LocationID, inmateID id.InmateID) *Result {
	r, ok := idx.results[pairKey{location: locationID, inmate: inmateID}]
	if !ok {
		return nil
	}
	return &r
}

// CoverageOf returns the roll call coverage for the location. The zero
// Coverage means no selected roll call stops there.
func (idx *Index) CoverageOf(locationID id.LocationID) Coverage {
	return idx.coverage[locationID]
}
