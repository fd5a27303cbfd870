// Package bookings persists appointments and runs the booking flow: the
// commit-time conflict re-check, discount application and confirmation mail.
package bookings

import (
	"github.com/haarwerk/booking-api/internal/schedule"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Discount markers stored on a booking. A discounted booking never counts
// toward the next loyalty cycle.
const (
	DiscountNone     = ""
	DiscountLoyalty  = "loyalty"
	DiscountBirthday = "birthday"
)

// Booking is one appointment as stored in DynamoDB. The table is keyed by
// date (partition) and startMinutes (sort), which makes per-day reads an
// ordered Query and lets a conditional put arbitrate two customers racing
// for the same slot.
type Booking struct {
	Date            string   `dynamodbav:"date" json:"date"`
	StartMinutes    int      `dynamodbav:"startMinutes" json:"startMinutes"`
	ID              string   `dynamodbav:"id" json:"id"`
	CustomerID      string   `dynamodbav:"customerId" json:"customerId"`
	CustomerEmail   string   `dynamodbav:"customerEmail" json:"customerEmail"`
	TreatmentIDs    []string `dynamodbav:"treatmentIds" json:"treatmentIds"`
	DurationMinutes int      `dynamodbav:"durationMinutes" json:"durationMinutes"`
	PriceCents      int      `dynamodbav:"priceCents" json:"priceCents"`
	Discount        string   `dynamodbav:"discount" json:"discount"`
	Status          Status   `dynamodbav:"status" json:"status"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
}

// StartClock renders the start as "HH:MM".
func (b Booking) StartClock() string {
	return schedule.Minutes(b.StartMinutes).String()
}

// interval returns the occupied half-open interval.
func (b Booking) interval() schedule.Interval {
	return schedule.Interval{
		Start: schedule.Minutes(b.StartMinutes),
		End:   schedule.Minutes(b.StartMinutes + b.DurationMinutes),
	}
}
