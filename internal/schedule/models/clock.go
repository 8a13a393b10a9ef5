package models

import (
	"fmt"
	"time"

	dErrors "muster/pkg/domain-errors"
)

// minutesPerDay is the exclusive upper bound of a ClockTime.
const minutesPerDay = 24 * 60

// ClockTime is a time of day in minutes since midnight. All interval
// arithmetic happens on these integers; "HH:MM" strings are parsed once
// at the boundary and never compared lexically.
type ClockTime int

// ParseClock parses a 24h "HH:MM" string.
func ParseClock(raw string) (ClockTime, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil || len(raw) != 5 {
		return 0, dErrors.Newf(dErrors.CodeValidation, "invalid time of day %q, want HH:MM", raw)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustClock is ParseClock for literals in tests and seeds; it panics on
// malformed input.
func MustClock(raw string) ClockTime {
	ct, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return ct
}

// ClockOf extracts the minute-of-day from a timestamp.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weekday indexes days 0=Monday through 6=Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts from time.Time's Sunday-based weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Prev returns the preceding weekday, wrapping Monday to Sunday.
func (d Weekday) Prev() Weekday { return (d + 6) % 7 }

// Next returns the following weekday, wrapping Sunday to Monday.
func (d Weekday) Next() Weekday { return (d + 1) % 7 }

// Valid reports whether the value is within [Monday, Sunday].
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return names[d]
}

// Date is a calendar date without a time zone, used for one-off entry
// effective dates.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses an ISO "2006-01-02" date.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return Date{}, dErrors.Newf(dErrors.CodeValidation, "invalid date %q, want YYYY-MM-DD", raw)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday returns the Monday-based weekday of the date.
func (d Date) Weekday() Weekday {
	return WeekdayOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
