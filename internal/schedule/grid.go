package schedule

import "time"

// BusinessHours describes the salon's daily opening window and the slot
// granularity offered to customers.
type BusinessHours struct {
	Open   Minutes
	Close  Minutes
	Step   Minutes
	Closed time.Weekday
}

// DefaultBusinessHours returns the production defaults: 09:00-18:00,
// 30-minute slots, closed on Sundays.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Open:   9 * 60,
		Close:  18 * 60,
		Step:   30,
		Closed: time.Sunday,
	}
}

// Grid returns every candidate start time in [Open, Close) at the fixed
// step, in ascending order. It is the exhaustive superset availability is
// filtered from, not a pre-filtered list; day-of-week closure is applied by
// the callers that know the date.
func (h BusinessHours) Grid() []Minutes {
	if h.Step <= 0 || h.Close <= h.Open {
		return nil
	}
	grid := make([]Minutes, 0, int((h.Close-h.Open)/h.Step))
	for t := h.Open; t < h.Close; t += h.Step {
		grid = append(grid, t)
	}
	return grid
}

// IsClosedDay reports whether the salon is closed on the given day.
func (h BusinessHours) IsClosedDay(t time.Time) bool {
	return t.Weekday() == h.Closed
}
