package schedule

// Reasons surfaced on unavailable slots. The blackout reasons carry the
// admin-supplied text and are shown to customers as-is.
const (
	ReasonOutsideHours  = "outside business hours"
	ReasonAlreadyBooked = "already booked"

	fullDayBlackoutPrefix = "Ganzer Tag gesperrt: "
	partialBlackoutPrefix = "Gesperrt: "
)

// Interval is an occupied time range on a day, in minute-of-day. Intervals
// are half-open: [Start, End).
type Interval struct {
	Start Minutes
	End   Minutes
}

// Blackout is an admin-defined lock on a date. When FullDay is set the
// Start/End fields are ignored entirely.
type Blackout struct {
	Date    string
	FullDay bool
	Start   Minutes
	End     Minutes
	Reason  string
}

// Decision is the outcome of resolving one candidate slot.
type Decision struct {
	Available bool
	Reason    string
}

// overlaps reports whether the half-open intervals [a,b) and [c,d) intersect.
func overlaps(a, b, c, d Minutes) bool {
	return a < d && c < b
}

// Resolve decides whether an appointment of the given duration may start at
// start. The evaluation order is a fixed contract, since it determines which
// message the customer sees when several blocks apply:
//
//  1. the appointment must end by closing time,
//  2. booking conflicts ("already booked"),
//  3. blackout windows, first matching window wins.
//
// duration > 0 is a caller contract and is not re-validated here.
func (h BusinessHours) Resolve(start, duration Minutes, bookings []Interval, blackouts []Blackout) Decision {
	end := start + duration
	if end > h.Close {
		return Decision{Reason: ReasonOutsideHours}
	}

	for _, b := range bookings {
		if overlaps(start, end, b.Start, b.End) {
			return Decision{Reason: ReasonAlreadyBooked}
		}
	}

	for _, bl := range blackouts {
		if bl.FullDay {
			return Decision{Reason: fullDayBlackoutPrefix + bl.Reason}
		}
		if overlaps(start, end, bl.Start, bl.End) {
			return Decision{Reason: partialBlackoutPrefix + bl.Reason}
		}
	}

	return Decision{Available: true}
}
