// Package loyalty implements the rolling loyalty discount: every 5th booking
// within the trailing window earns a discount on the upcoming appointment.
package loyalty

import "fmt"

// CycleLength is the number of bookings per loyalty cycle.
const CycleLength = 5

// Evaluation is the result of checking a customer's position in the cycle.
type Evaluation struct {
	Eligible           bool   `json:"eligible"`
	NextBookingsNeeded int    `json:"nextBookingsNeeded"`
	ProgressPercent    int    `json:"progressPercent"`
	Message            string `json:"message"`
}

// Evaluate computes discount eligibility from the count of qualifying
// bookings in the current window. Eligible means the customer's upcoming
// booking would be the 5th (or 10th, 15th, ...) of the cycle. Negative
// counts are a caller contract violation and are not handled defensively.
func Evaluate(bookingCount int) Evaluation {
	position := bookingCount % CycleLength
	eligible := position == CycleLength-1

	progress := (position + 1) * (100 / CycleLength)
	if progress > 100 {
		progress = 100
	}

	needed := CycleLength - position
	if eligible {
		needed = 1
	}

	msg := fmt.Sprintf("Noch %d Termine bis zu Ihrem Treuerabatt.", needed)
	if eligible {
		msg = "Ihr nächster Termin ist rabattiert!"
	}

	return Evaluation{
		Eligible:           eligible,
		NextBookingsNeeded: needed,
		ProgressPercent:    progress,
		Message:            msg,
	}
}
