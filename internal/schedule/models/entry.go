// Package models defines schedule entries and the minute-of-day
// arithmetic the conflict detector and resolver share.
package models

import (
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// ActivityType labels what the inmate is scheduled to do.
type ActivityType string

const (
	ActivityCellTime  ActivityType = "cell_time"
	ActivityWork      ActivityType = "work"
	ActivityEducation ActivityType = "education"
	ActivityExercise  ActivityType = "exercise"
	ActivityMedical   ActivityType = "medical"
	ActivityVisit     ActivityType = "visit"
	ActivityReligion  ActivityType = "religion"
	ActivityOther     ActivityType = "other"
)

// Entry is one recurring or one-off time-windowed assignment. End <=
// Start denotes an overnight span continuing past midnight into the
// next weekday; that is modeled by Spans, never by comparing the raw
// times.
type Entry struct {
	ID            id.ScheduleEntryID
	InmateID      id.InmateID
	LocationID    id.LocationID
	Day           Weekday
	Start         ClockTime
	End           ClockTime
	Activity      ActivityType
	Recurring     bool
	EffectiveDate *Date
	Source        string
}

// Overnight reports whether the entry continues past midnight.
func (e Entry) Overnight() bool { return e.End <= e.Start }

// Validate enforces the structural invariants of an entry.
func (e Entry) Validate() error {
	if e.InmateID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "inmate_id is required")
	}
	if e.LocationID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "location_id is required")
	}
	if !e.Day.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "day_of_week %d out of range [0,6]", int(e.Day))
	}
	if !e.Recurring && e.EffectiveDate == nil {
		return dErrors.New(dErrors.CodeValidation, "one-off entries require an effective_date")
	}
	if !e.Recurring && e.EffectiveDate != nil && e.EffectiveDate.Weekday() != e.Day {
		return dErrors.Newf(dErrors.CodeValidation,
			"effective_date %s falls on %s, not %s", e.EffectiveDate, e.EffectiveDate.Weekday(), e.Day)
	}
	if e.Activity == "" {
		return dErrors.New(dErrors.CodeValidation, "activity_type is required")
	}
	return nil
}

// Span is a half-open interval [Start, End) of minutes on a weekday.
type Span struct {
	Day   Weekday
	Start ClockTime
	End   ClockTime
}

// Overlaps applies the half-open overlap test on same-day spans.
func (s Span) Overlaps(other Span) bool {
	return s.Day == other.Day && s.Start < other.End && s.End > other.Start
}

// Contains reports whether the minute on the given day falls inside the
// span.
func (s Span) Contains(day Weekday, minute ClockTime) bool {
	return s.Day == day && s.Start <= minute && minute < s.End
}

// NormalizeSpans turns a raw window into absolute same-day spans. An
// overnight window (end <= start) splits into its head on `day` and its
// tail [00:00, end) on the following weekday.
func NormalizeSpans(day Weekday, start, end ClockTime) []Span {
	if end > start {
		return []Span{{Day: day, Start: start, End: end}}
	}
	spans := []Span{{Day: day, Start: start, End: minutesPerDay}}
	if end > 0 {
		spans = append(spans, Span{Day: day.Next(), Start: 0, End: end})
	}
	return spans
}

// Spans returns the entry's normalized intervals.
func (e Entry) Spans() []Span {
	return NormalizeSpans(e.Day, e.Start, e.End)
}

// Covers reports whether the entry's normalized intervals contain the
// given weekday minute.
func (e Entry) Covers(day Weekday, minute ClockTime) bool {
	for _, span := range e.Spans() {
		if span.Contains(day, minute) {
			return true
		}
	}
	return false
}
