package occupancy

import (
	"context"
	"log/slog"
	"time"
)

// HomeCellStrategy places every inmate at their static home cell,
// ignoring schedules. Used as the fallback view when schedule data is
// missing or suspect. Inmates without a home cell assignment are
// omitted.
type HomeCellStrategy struct {
	roster    Roster
	locations LocationSet
	logger    *slog.Logger
}

func NewHomeCell(roster Roster, locations LocationSet, logger *slog.Logger) *HomeCellStrategy {
	return &HomeCellStrategy{roster: roster, locations: locations, logger: logger}
}

func (s *HomeCellStrategy) Resolve(ctx context.Context, _ time.Time) (Placement, error) {
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
		if inm.HomeCellID == nil {
			s.logger.WarnContext(ctx, "inmate has no home cell, dropping from placement",
				"inmate_id", inm.ID.String(),
			)
			continue
		}
		if !valid[*inm.HomeCellID] {
			s.logger.WarnContext(ctx, "home cell is not a known location, dropping inmate from placement",
				"inmate_id", inm.ID.String(),
				"location_id", inm.HomeCellID.String(),
			)
			continue
		}
		placement[*inm.HomeCellID] = append(placement[*inm.HomeCellID], inm.ID)
	}
	sortPlacement(placement)
	return placement, nil
}
