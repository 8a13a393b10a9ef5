// Package conflict implements the write-path guard that keeps one
// inmate's schedule free of overlapping windows.
package conflict

import (
	"context"
	"sort"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// EntrySource is the slice of the schedule store the detector needs.
type EntrySource interface {
	ByInmate(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error)
}

// Detector finds schedule entries whose normalized minute intervals
// overlap a candidate window.
type Detector struct {
	entries EntrySource
}

// New creates a detector over the given entry source.
func New(entries EntrySource) *Detector {
	return &Detector{entries: entries}
}

// FindConflicts returns every entry of the inmate whose normalized
// spans overlap the candidate window on `day`, excluding excludeID (for
// updates). The candidate and every stored entry are normalized to
// half-open minute spans first; an overnight window conflicts through
// both its head and its midnight tail. Results are sorted by start
// time so callers can present them directly.
func (d *Detector) FindConflicts(
	ctx context.Context,
	inmateID id.InmateID,
	day models.Weekday,
	start, end models.ClockTime,
	excludeID *id.ScheduleEntryID,
) ([]models.Entry, error) {
	if !day.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "day_of_week %d out of range [0,6]", int(day))
	}

	existing, err := d.entries.ByInmate(ctx, inmateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load schedule entries")
	}

	candidate := models.NormalizeSpans(day, start, end)

	var conflicts []models.Entry
	for _, entry := range existing {
		if excludeID != nil && entry.ID == *excludeID {
			continue
		}
		if overlapsAny(candidate, entry.Spans()) {
			conflicts = append(conflicts, entry)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Start != conflicts[j].Start {
			return conflicts[i].Start < conflicts[j].Start
		}
		return conflicts[i].ID.String() < conflicts[j].ID.String()
	})
	return conflicts, nil
}

func overlapsAny(a, b []models.Span) bool {
	for _, sa := range a {
		for _, sb := range b {
			if sa.Overlaps(sb) {
				return true
			}
		}
	}
	return false
}
