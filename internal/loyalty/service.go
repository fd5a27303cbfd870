package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/haarwerk/booking-api/pkg/logging"
)

// BookingCounter counts a customer's qualifying bookings since a cutoff.
// Qualifying means confirmed or pending, not cancelled, and not itself
// discounted: a discounted booking never advances the cycle, otherwise the
// modulo arithmetic would double-count the granting booking.
type BookingCounter interface {
	CountQualifying(ctx context.Context, customerID string, since time.Time) (int, error)
}

// Service evaluates loyalty progress against the live booking history.
type Service struct {
	counter      BookingCounter
	guard        *GrantGuard
	windowMonths int
	logger       *logging.Logger
	now          func() time.Time
}

// NewService builds a loyalty service. windowMonths is the trailing window
// in which bookings count toward the cycle.
func NewService(counter BookingCounter, guard *GrantGuard, windowMonths int, logger *logging.Logger) *Service {
	if counter == nil {
		panic("loyalty: booking counter required")
	}
	if guard == nil {
		panic("loyalty: grant guard required")
	}
	if windowMonths <= 0 {
		windowMonths = 6
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		counter:      counter,
		guard:        guard,
		windowMonths: windowMonths,
		logger:       logger,
		now:          time.Now,
	}
}

// Progress returns the customer's current cycle evaluation.
func (s *Service) Progress(ctx context.Context, customerID string) (Evaluation, error) {
	since := s.now().AddDate(0, -s.windowMonths, 0)
	count, err := s.counter.CountQualifying(ctx, customerID, since)
	if err != nil {
		return Evaluation{}, fmt.Errorf("loyalty: count bookings: %w", err)
	}
	return Evaluate(count), nil
}

// Consume grants the loyalty discount for the booking being committed. It
// returns false when the customer is not eligible or a grant was already
// recorded in the current window.
func (s *Service) Consume(ctx context.Context, customerID string) (bool, error) {
	eval, err := s.Progress(ctx, customerID)
	if err != nil {
		return false, err
	}
	if !eval.Eligible {
		return false, nil
	}
	acquired, err := s.guard.TryAcquire(ctx, customerID)
	if err != nil {
		return false, err
	}
	if !acquired {
		s.logger.Warn("loyalty: duplicate grant attempt blocked", "customer_id", customerID)
	}
	return acquired, nil
}

// Rollback releases the grant marker after a failed booking commit.
func (s *Service) Rollback(ctx context.Context, customerID string) {
	if err := s.guard.Release(ctx, customerID); err != nil {
		s.logger.Error("loyalty: rollback failed", "customer_id", customerID, "error", err)
	}
}
