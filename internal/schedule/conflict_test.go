package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveNoConflictsWithinHours(t *testing.T) {
	h := DefaultBusinessHours()
	for _, start := range h.Grid() {
		if start+30 > h.Close {
			continue
		}
		d := h.Resolve(start, 30, nil, nil)
		assert.True(t, d.Available, "slot %s should be free on an empty day", start)
		assert.Empty(t, d.Reason)
	}
}

func TestResolveOutsideBusinessHours(t *testing.T) {
	h := DefaultBusinessHours()

	// 17:30 + 60 min would end 18:30, past closing.
	d := h.Resolve(1050, 60, nil, nil)
	assert.False(t, d.Available)
	assert.Equal(t, ReasonOutsideHours, d.Reason)

	// 17:00 + 60 min ends exactly at closing and is fine.
	d = h.Resolve(1020, 60, nil, nil)
	assert.True(t, d.Available)
}

func TestResolveBookingOverlap(t *testing.T) {
	h := DefaultBusinessHours()
	// Existing booking 14:00-15:00.
	bookings := []Interval{{Start: 840, End: 900}}

	tests := []struct {
		name  string
		start Minutes
		dur   Minutes
		free  bool
	}{
		{"13:00 + 60 ends exactly at booking start", 780, 60, true},
		{"13:30 + 60 overlaps head", 810, 60, false},
		{"14:00 same interval", 840, 60, false},
		{"14:30 inside", 870, 30, false},
		{"15:00 starts at booking end", 900, 60, true},
		{"17:00 clear of it", 1020, 60, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := h.Resolve(tt.start, tt.dur, bookings, nil)
			assert.Equal(t, tt.free, d.Available)
			if !tt.free {
				assert.Equal(t, ReasonAlreadyBooked, d.Reason)
			}
		})
	}
}

func TestResolveFullDayBlackout(t *testing.T) {
	h := DefaultBusinessHours()
	// Time fields on a full-day window must be ignored entirely.
	blackouts := []Blackout{{FullDay: true, Start: 600, End: 660, Reason: "Betriebsferien"}}

	for _, start := range h.Grid() {
		d := h.Resolve(start, 30, nil, blackouts)
		assert.False(t, d.Available, "slot %s must be blocked by full-day blackout", start)
		assert.Equal(t, "Ganzer Tag gesperrt: Betriebsferien", d.Reason)
	}
}

func TestResolvePartialBlackout(t *testing.T) {
	h := DefaultBusinessHours()
	// Blackout 10:00-11:00.
	blackouts := []Blackout{{Start: 600, End: 660, Reason: "Lieferung"}}

	// A 30-minute slot at 10:30 is inside the window.
	d := h.Resolve(630, 30, nil, blackouts)
	assert.False(t, d.Available)
	assert.Equal(t, "Gesperrt: Lieferung", d.Reason)

	// 09:00 and 11:00 are untouched.
	assert.True(t, h.Resolve(540, 30, nil, blackouts).Available)
	assert.True(t, h.Resolve(660, 30, nil, blackouts).Available)

	// 09:45 + 30 reaches into the window.
	assert.False(t, h.Resolve(585, 30, nil, blackouts).Available)
}

func TestResolveBookingBeatsBlackout(t *testing.T) {
	h := DefaultBusinessHours()
	// Both a booking and a blackout cover 10:00. The booking message wins;
	// the evaluation order is part of the contract.
	bookings := []Interval{{Start: 600, End: 660}}
	blackouts := []Blackout{{Start: 570, End: 690, Reason: "Inventur"}}

	d := h.Resolve(600, 30, bookings, blackouts)
	assert.False(t, d.Available)
	assert.Equal(t, ReasonAlreadyBooked, d.Reason)
}

func TestResolveFirstMatchingBlackoutWins(t *testing.T) {
	h := DefaultBusinessHours()
	blackouts := []Blackout{
		{Start: 540, End: 720, Reason: "Erste"},
		{Start: 540, End: 720, Reason: "Zweite"},
	}
	d := h.Resolve(540, 30, nil, blackouts)
	assert.Equal(t, "Gesperrt: Erste", d.Reason)
}

func TestResolveOutsideHoursBeatsEverything(t *testing.T) {
	h := DefaultBusinessHours()
	bookings := []Interval{{Start: 1050, End: 1080}}
	blackouts := []Blackout{{FullDay: true, Reason: "Feiertag"}}

	d := h.Resolve(1050, 60, bookings, blackouts)
	assert.Equal(t, ReasonOutsideHours, d.Reason)
}
