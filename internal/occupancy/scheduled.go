package occupancy

import (
	"context"
	"log/slog"
	"time"

	id "muster/pkg/domain"
)

// ScheduleResolver resolves one inmate's location from their schedule.
type ScheduleResolver interface {
	Resolve(ctx context.Context, inmateID id.InmateID, ts time.Time) (*id.LocationID, error)
}

// ScheduledStrategy places inmates by their active schedule entries.
// Inmates whose schedule has no covering window at ts do not appear in
// the placement at all; the tree shows where people are supposed to
// be, not a guess.
type ScheduledStrategy struct {
	roster    Roster
	resolver  ScheduleResolver
	locations LocationSet
	logger    *slog.Logger
}

func NewScheduled(roster Roster, resolver ScheduleResolver, locations LocationSet, logger *slog.Logger) *ScheduledStrategy {
	return &ScheduledStrategy{roster: roster, resolver: resolver, locations: locations, logger: logger}
}

func (s *ScheduledStrategy) Resolve(ctx context.Context, ts time.Time) (Placement, error) {
	inmates, err := s.roster.ActiveInmates(ctx)
	if err != nil {
		return nil, err
	}
	valid, err := s.locations.ValidIDs(ctx)
	if err != nil {
		return nil, err
	}

	placement := make(Placement)
	for _, inm := range inmates {
		loc, err := s.resolver.Resolve(ctx, inm.ID, ts)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			continue
		}
		if !valid[*loc] {
			s.logger.WarnContext(ctx, "schedule points at unknown location, dropping inmate from placement",
				"inmate_id", inm.ID.String(),
				"location_id", loc.String(),
			)
			continue
		}
		placement[*loc] = append(placement[*loc], inm.ID)
	}
	sortPlacement(placement)
	return placement, nil
}
