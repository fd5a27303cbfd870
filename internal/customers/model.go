// Package customers stores customer profiles: contact data and the birth
// date feeding the birthday-week discount.
package customers

import (
	"errors"
	"time"

	"github.com/haarwerk/booking-api/internal/schedule"
)

// Profile is one customer record. The birth date is written once via the
// profile flow and read-only afterwards; the year is kept for plausibility
// validation only.
type Profile struct {
	CustomerID string `dynamodbav:"customerId" json:"customerId"`
	Email      string `dynamodbav:"email" json:"email"`
	Name       string `dynamodbav:"name" json:"name"`
	BirthDate  string `dynamodbav:"birthDate,omitempty" json:"birthDate,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// ErrBirthDateSet is returned when a profile update tries to change an
// already stored birth date.
var ErrBirthDateSet = errors.New("customers: birth date already set")

// ValidateBirthDate checks format and that the date lies in the past.
func ValidateBirthDate(birthDate string, loc *time.Location, now time.Time) error {
	day, err := schedule.ParseDate(birthDate, loc)
	if err != nil {
		return err
	}
	if !day.Before(now) {
		return errors.New("customers: birth date must be in the past")
	}
	return nil
}
