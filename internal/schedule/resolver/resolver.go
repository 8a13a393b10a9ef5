// Package resolver answers "where is this inmate expected to be right
// now" from the schedule entries.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// EntrySource is the slice of the schedule store the resolver needs.
type EntrySource interface {
	ByInmate(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error)
}

// Resolver resolves an inmate's expected location at a timestamp.
type Resolver struct {
	entries EntrySource
	logger  *slog.Logger
}

// New creates a resolver over the given entry source.
func New(entries EntrySource, logger *slog.Logger) *Resolver {
	return &Resolver{entries: entries, logger: logger}
}

// Resolve returns the location the inmate is scheduled at for the given
// instant, or nil when no entry covers it. One-off entries on the exact
// calendar date take precedence over recurring entries covering the
// same instant. Overnight entries from the previous day are considered
// through their midnight tail.
func (r *Resolver) Resolve(ctx context.Context, inmateID id.InmateID, ts time.Time) (*id.LocationID, error) {
	if inmateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "inmate_id is required")
	}

	entries, err := r.entries.ByInmate(ctx, inmateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load schedule entries")
	}

	day := models.WeekdayOf(ts)
	minute := models.ClockOf(ts)
	date := models.DateOf(ts)
	prevDate := date.AddDays(-1)

	var oneOffs, recurring []models.Entry
	for _, entry := range entries {
		if entry.Recurring {
			if entry.Covers(day, minute) {
				recurring = append(recurring, entry)
			}
			continue
		}
		if entry.EffectiveDate == nil {
			continue
		}
		if oneOffCovers(entry, day, minute, date, prevDate) {
			oneOffs = append(oneOffs, entry)
		}
	}

	// One-off entries for the exact date override recurring ones
	// occupying the same instant.
	if len(oneOffs) > 0 {
		// More than one matching one-off is input the conflict
		// detector should have rejected; tie-break rather than fail.
		selected := r.pickMostSpecific(ctx, inmateID, ts, oneOffs)
		return &selected.LocationID, nil
	}
	if len(recurring) > 0 {
		selected := r.pickMostSpecific(ctx, inmateID, ts, recurring)
		return &selected.LocationID, nil
	}
	return nil, nil
}

// oneOffCovers checks a one-off entry against the instant: its head
// applies on the effective date itself, its overnight tail on the
// following calendar date.
func oneOffCovers(entry models.Entry, day models.Weekday, minute models.ClockTime, date, prevDate models.Date) bool {
	for _, span := range entry.Spans() {
		if !span.Contains(day, minute) {
			continue
		}
		if span.Day == entry.Day {
			if *entry.EffectiveDate == date {
				return true
			}
		} else if *entry.EffectiveDate == prevDate {
			return true
		}
	}
	return false
}

// pickMostSpecific applies the documented tie-break when the no-overlap
// invariant has been violated upstream: the entry with the latest start
// time wins, and the inconsistency is logged.
func (r *Resolver) pickMostSpecific(ctx context.Context, inmateID id.InmateID, ts time.Time, matches []models.Entry) models.Entry {
	if len(matches) == 1 {
		return matches[0]
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start > matches[j].Start
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID.String())
	}
	r.logger.WarnContext(ctx, "overlapping schedule entries at resolve time",
		"inmate_id", inmateID.String(),
		"timestamp", ts.Format(time.RFC3339),
		"entry_ids", ids,
		"selected", matches[0].ID.String(),
	)
	return matches[0]
}
