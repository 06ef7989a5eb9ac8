package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// LoadLocation falls back to UTC when the zone database has no entry for name.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		fmt.Printf("[WARN] unknown time zone %q, using UTC\n", name)
		return time.UTC
	}
	return loc
}

// DayBounds returns [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MustParseDate parses a UTC day and panics on a malformed value.
func MustParseDate(dateStr string) time.Time {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		DateLayout,
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, time.UTC); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}
