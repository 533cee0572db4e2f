// Package calendar pins "what day is it" to a single location so that streaks
// and run IDs agree no matter where the clock reading came from.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the canonical string form of a Day.
const Layout = "2006-01-02"

// Day is a civil date with no time-of-day or zone attached.
// The zero Day means "never".
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the civil date of t as observed in loc.
// A nil loc is treated as UTC.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD string. The empty string yields the zero Day.
func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// String returns d in YYYY-MM-DD form, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.midnight().Format(Layout)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.midnight().AddDate(0, 0, n), time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.midnight().Before(other.midnight())
}

// DaysBetween returns to - from in whole calendar days.
// Computed on UTC midnights so DST transitions never produce fractional days.
func DaysBetween(from, to Day) int {
	return int(to.midnight().Sub(from.midnight()).Hours() / 24)
}

// Noon returns 12:00 on d in loc. A nil loc is treated as UTC.
func (d Day) Noon(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

func (d Day) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalText encodes the day as YYYY-MM-DD; the zero Day encodes as "".
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the YYYY-MM-DD form.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
