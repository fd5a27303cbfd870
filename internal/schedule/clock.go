// Package schedule implements the appointment availability engine: the
// candidate slot grid, conflict resolution against bookings and admin
// blackout windows, day/month availability views and next-slot lookup.
package schedule

import (
	"fmt"
	"time"
)

// Minutes is a minute-of-day clock value (0 = midnight, 540 = 09:00).
type Minutes int

// ParseClock parses a 24-hour "HH:MM" string into minute-of-day.
func ParseClock(s string) (Minutes, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("schedule: invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("schedule: invalid clock value %q", s)
	}
	return Minutes(h*60 + m), nil
}

// String renders the minute-of-day as "HH:MM".
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

const dateLayout = "2006-01-02"

// FormatDate renders a calendar day as "YYYY-MM-DD" from the time's own
// calendar fields. The time is never shifted to UTC first; doing so moves
// evening timestamps across the date line in timezones ahead of UTC.
func FormatDate(t time.Time) string {
	y, mo, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(mo), d)
}

// ParseDate parses a "YYYY-MM-DD" day into midnight local time.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: invalid date %q: %w", s, err)
	}
	return t, nil
}
