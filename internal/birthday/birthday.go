// Package birthday computes the birthday-week discount window: the 7 days
// starting on the customer's birth month/day in the current year.
package birthday

import "time"

// Status describes where "today" stands relative to the customer's birthday
// week.
type Status struct {
	// DaysUntil is the number of days until the next occurrence of the
	// birthday, 0 on the day itself, wrapping into next year once passed.
	DaysUntil int `json:"daysUntil"`
	// Eligible is true while today lies inside the 7-day birthday window.
	Eligible bool `json:"eligible"`
	// WindowEnd is the last calendar day of the window, for display.
	WindowEnd time.Time `json:"windowEnd"`
}

const windowDays = 7

// Compute evaluates the birthday window for the given stored birth date.
// Only month and day of birthDate matter here; the birth year is validated
// at profile-write time. A Feb 29 birthday maps to Feb 28 in non-leap years.
// A window that starts in late December keeps its holder eligible into the
// first days of January.
func Compute(birthDate, today time.Time) Status {
	loc := today.Location()
	y, m, d := today.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, loc)

	thisYear := occurrenceInYear(birthDate, y, loc)

	var next time.Time
	if thisYear.Before(today) {
		next = occurrenceInYear(birthDate, y+1, loc)
	} else {
		next = thisYear
	}

	// The active window is anchored on this year's occurrence, except in
	// early January when last year's late-December window may still run.
	anchor := thisYear
	if !inWindow(today, anchor, loc) {
		anchor = occurrenceInYear(birthDate, y-1, loc)
	}

	st := Status{DaysUntil: daysBetween(today, next)}
	if inWindow(today, anchor, loc) {
		st.Eligible = true
		st.WindowEnd = anchor.AddDate(0, 0, windowDays-1)
	} else {
		st.WindowEnd = next.AddDate(0, 0, windowDays-1)
	}
	return st
}

// occurrenceInYear maps the birth month/day into the given year, treating
// Feb 29 as Feb 28 when the year is not a leap year.
func occurrenceInYear(birthDate time.Time, year int, loc *time.Location) time.Time {
	m, d := birthDate.Month(), birthDate.Day()
	if m == time.February && d == 29 && !isLeapYear(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, loc)
}

func inWindow(today, anchor time.Time, loc *time.Location) bool {
	return !today.Before(anchor) && today.Before(anchor.AddDate(0, 0, windowDays))
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysBetween counts calendar days from a to b. Both are local midnights;
// going through UTC-normalized dates keeps DST transitions from producing
// 23- or 25-hour "days".
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
