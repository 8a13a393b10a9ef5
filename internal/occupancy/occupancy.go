// Package occupancy answers "who is where" at an instant, under a
// selectable placement strategy.
package occupancy

import (
	"context"
	"sort"
	"time"

	rostermodels "muster/internal/roster/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// Mode selects the placement strategy for a tree build.
type Mode string

const (
	// ModeScheduled places each inmate at their resolved schedule
	// location; inmates with no active entry are omitted.
	ModeScheduled Mode = "scheduled"
	// ModeHomeCell places each inmate at their static home cell.
	ModeHomeCell Mode = "home_cell"
)

// ParseMode validates a wire mode string. Empty defaults to scheduled.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "":
		return ModeScheduled, nil
	case ModeScheduled, ModeHomeCell:
		return Mode(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown occupancy mode %q", raw)
	}
}

// Placement maps each location to the inmates placed there, sorted by
// inmate id.
type Placement map[id.LocationID][]id.InmateID

// Strategy computes the placement of every active inmate at an instant.
type Strategy interface {
	Resolve(ctx context.Context, ts time.Time) (Placement, error)
}

// Roster is the inmate listing the strategies iterate.
type Roster interface {
	ActiveInmates(ctx context.Context) ([]rostermodels.Inmate, error)
}

// LocationSet reports which location ids currently exist.
type LocationSet interface {
	ValidIDs(ctx context.Context) (map[id.LocationID]bool, error)
}

// Selector returns the strategy for a mode.
type Selector struct {
	scheduled Strategy
	homeCell  Strategy
}

func NewSelector(scheduled, homeCell Strategy) *Selector {
	return &Selector{scheduled: scheduled, homeCell: homeCell}
}

// ForMode picks the strategy implementing the mode.
func (s *Selector) ForMode(mode Mode) (Strategy, error) {
	switch mode {
	case ModeScheduled:
		return s.scheduled, nil
	case ModeHomeCell:
		return s.homeCell, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown occupancy mode %q", mode)
	}
}

func sortPlacement(p Placement) {
	for _, inmates := range p {
		sort.Slice(inmates, func(i, j int) bool { return inmates[i].String() < inmates[j].String() })
	}
}
