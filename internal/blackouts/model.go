// Package blackouts manages admin-defined blackout windows: periods during
// which no appointments may be booked, either a full day or a time range.
package blackouts

import (
	"errors"
	"fmt"
	"time"

	"github.com/haarwerk/booking-api/internal/schedule"
)

// Window is one blackout record as stored in DynamoDB. When FullDay is set
// the StartMinutes/EndMinutes fields are ignored entirely.
type Window struct {
	Date         string `dynamodbav:"date" json:"date"`
	ID           string `dynamodbav:"id" json:"id"`
	FullDay      bool   `dynamodbav:"fullDay" json:"fullDay"`
	StartMinutes int    `dynamodbav:"startMinutes" json:"startMinutes"`
	EndMinutes   int    `dynamodbav:"endMinutes" json:"endMinutes"`
	Reason       string `dynamodbav:"reason" json:"reason"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// Validate checks the window against the caller contract before persisting.
func (w *Window) Validate(loc *time.Location) error {
	if _, err := schedule.ParseDate(w.Date, loc); err != nil {
		return err
	}
	if w.Reason == "" {
		return errors.New("blackouts: reason required")
	}
	if w.FullDay {
		return nil
	}
	if w.StartMinutes < 0 || w.EndMinutes > 24*60 || w.StartMinutes >= w.EndMinutes {
		return fmt.Errorf("blackouts: invalid window %d-%d", w.StartMinutes, w.EndMinutes)
	}
	return nil
}

// toEngine converts a stored window into the engine's value type.
func (w Window) toEngine() schedule.Blackout {
	return schedule.Blackout{
		Date:    w.Date,
		FullDay: w.FullDay,
		Start:   schedule.Minutes(w.StartMinutes),
		End:     schedule.Minutes(w.EndMinutes),
		Reason:  w.Reason,
	}
}
