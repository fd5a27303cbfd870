package bookings

import (
	"errors"
	"fmt"

	"github.com/haarwerk/booking-api/internal/schedule"
)

var (
	// ErrSlotTaken signals that the requested slot is no longer free.
	ErrSlotTaken = errors.New("bookings: slot no longer available")
	// ErrNotFound indicates an unknown booking id.
	ErrNotFound = errors.New("bookings: not found")
	// ErrForbidden indicates the booking belongs to another customer.
	ErrForbidden = errors.New("bookings: not owned by customer")
	// ErrDiscountUnavailable signals a requested discount the customer is
	// not (or no longer) entitled to.
	ErrDiscountUnavailable = errors.New("bookings: discount unavailable")
	// ErrInvalidStart indicates a start time that is not on the booking grid.
	ErrInvalidStart = errors.New("bookings: start time not on the booking grid")
)

// SlotConflictError carries the user-facing reason and, when the day still
// has capacity, the next bookable start time for the "next free slot at
// HH:MM" suggestion.
type SlotConflictError struct {
	Reason    string
	Suggested *schedule.Minutes
}

func (e *SlotConflictError) Error() string {
	if e.Suggested != nil {
		return fmt.Sprintf("%s (next free slot at %s)", e.Reason, e.Suggested)
	}
	return e.Reason
}

// Unwrap lets callers match the sentinel with errors.Is.
func (e *SlotConflictError) Unwrap() error { return ErrSlotTaken }
