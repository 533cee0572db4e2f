package calendar

import (
	"testing"
	"time"
)

func TestDayOf_UsesLocation(t *testing.T) {
	// 2026-03-01 02:30 UTC is still Feb 28 in New York.
	ts := time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	if got := DayOf(ts, time.UTC).String(); got != "2026-03-01" {
		t.Errorf("DayOf(UTC) = %s, want 2026-03-01", got)
	}
	if got := DayOf(ts, ny).String(); got != "2026-02-28" {
		t.Errorf("DayOf(New York) = %s, want 2026-02-28", got)
	}
}

func TestDayOf_NilLocationIsUTC(t *testing.T) {
	ts := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	if got := DayOf(ts, nil); got != (Day{2026, time.October, 19}) {
		t.Errorf("DayOf(nil) = %v", got)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-10-19")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d != (Day{2026, time.October, 19}) {
		t.Errorf("ParseDay = %v", d)
	}

	zero, err := ParseDay("")
	if err != nil || !zero.IsZero() {
		t.Errorf("ParseDay(\"\") = %v, %v; want zero day", zero, err)
	}

	if _, err := ParseDay("19/10/2026"); err == nil {
		t.Error("expected error for malformed day")
	}
}

func TestDaysBetween(t *testing.T) {
	base := Day{2026, time.October, 19}
	tests := []struct {
		name string
		to   Day
		want int
	}{
		{"same day", base, 0},
		{"next day", base.AddDays(1), 1},
		{"three days", base.AddDays(3), 3},
		{"backwards", base.AddDays(-2), -2},
		{"across month", Day{2026, time.November, 1}, 13},
		{"across DST change", Day{2026, time.November, 2}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(base, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d", base, tt.to, got, tt.want)
			}
		})
	}
}

func TestZeroDayString(t *testing.T) {
	if s := (Day{}).String(); s != "" {
		t.Errorf("zero Day String() = %q, want empty", s)
	}
}

func TestDayTextRoundTrip(t *testing.T) {
	d := Day{Year: 2026, Month: time.February, Day: 28}
	b, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "2026-02-28" {
		t.Fatalf("MarshalText = %q", b)
	}
	var got Day
	if err := got.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != d {
		t.Errorf("round trip = %v, want %v", got, d)
	}
	if err := got.UnmarshalText([]byte("28/02/2026")); err == nil {
		t.Error("expected error for malformed day")
	}
}

func TestNoonStaysOnDay(t *testing.T) {
	d := Day{Year: 2026, Month: time.March, Day: 29}
	for _, name := range []string{"UTC", "Pacific/Kiritimati", "America/Los_Angeles"} {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Skipf("tzdata unavailable: %v", err)
		}
		if got := DayOf(d.Noon(loc), loc); got != d {
			t.Errorf("%s: DayOf(Noon) = %v, want %v", name, got, d)
		}
	}
}
