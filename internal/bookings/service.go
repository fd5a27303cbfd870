package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haarwerk/booking-api/internal/birthday"
	"github.com/haarwerk/booking-api/internal/customers"
	"github.com/haarwerk/booking-api/internal/observability/metrics"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// store is the persistence surface the service needs.
type store interface {
	Create(ctx context.Context, b *Booking) error
	Cancel(ctx context.Context, customerID, bookingID string) (*Booking, error)
	ListForCustomer(ctx context.Context, customerID, fromDate string) ([]Booking, error)
	ListForDate(ctx context.Context, date string) ([]Booking, error)
}

// availability is the slice of the schedule engine the booking flow uses for
// its commit-time re-check.
type availability interface {
	DayView(ctx context.Context, date string, duration schedule.Minutes) (schedule.DayResult, error)
}

// catalog resolves treatment ids into durations and prices.
type catalog interface {
	GetMany(ctx context.Context, ids []string) ([]treatments.Treatment, error)
}

// profiles provides the stored birth date for the birthday discount check.
type profiles interface {
	Get(ctx context.Context, customerID string) (*customers.Profile, error)
}

// loyaltyEngine grants and rolls back loyalty discounts.
type loyaltyEngine interface {
	Consume(ctx context.Context, customerID string) (bool, error)
	Rollback(ctx context.Context, customerID string)
}

// Notifier sends the booking confirmation. Failures must not fail the
// booking, so the service calls it fire-and-forget.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b Booking, items []treatments.Treatment) error
}

// CreateParams is the validated input of the booking flow.
type CreateParams struct {
	CustomerID    string
	CustomerEmail string
	Date          string
	Start         schedule.Minutes
	TreatmentIDs  []string
	Discount      string
}

// ServiceOptions carry the optional service collaborators.
type ServiceOptions struct {
	Notifier    Notifier
	Metrics     *metrics.BookingMetrics
	Logger      *logging.Logger
	Now         func() time.Time
	LoyaltyPct  int
	BirthdayPct int
}

// Service runs the booking flow: resolve treatments, re-check the slot
// against live availability, apply discounts, persist and confirm.
type Service struct {
	store        store
	availability availability
	catalog      catalog
	profiles     profiles
	loyalty      loyaltyEngine
	loc          *time.Location
	notifier     Notifier
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	now          func() time.Time
	loyaltyPct   int
	birthdayPct  int
}

// NewService builds the booking service.
func NewService(store store, avail availability, cat catalog, prof profiles, loy loyaltyEngine, loc *time.Location, opts ServiceOptions) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if avail == nil {
		panic("bookings: availability engine required")
	}
	if cat == nil {
		panic("bookings: treatment catalog required")
	}
	if prof == nil {
		panic("bookings: profile store required")
	}
	if loy == nil {
		panic("bookings: loyalty engine required")
	}
	if loc == nil {
		panic("bookings: location required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoyaltyPct <= 0 {
		opts.LoyaltyPct = 20
	}
	if opts.BirthdayPct <= 0 {
		opts.BirthdayPct = 10
	}
	return &Service{
		store:        store,
		availability: avail,
		catalog:      cat,
		profiles:     prof,
		loyalty:      loy,
		loc:          loc,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		now:          opts.Now,
		loyaltyPct:   opts.LoyaltyPct,
		birthdayPct:  opts.BirthdayPct,
	}
}

// Create books a slot. The slot is re-resolved against live availability at
// commit time, and the conditional write arbitrates a remaining race: two
// customers can both pass the re-check, only one write wins.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Booking, error) {
	items, err := s.catalog.GetMany(ctx, p.TreatmentIDs)
	if err != nil {
		return nil, err
	}
	duration, price := 0, 0
	for _, tr := range items {
		duration += tr.DurationMinutes
		price += tr.PriceCents
	}

	day, err := s.availability.DayView(ctx, p.Date, schedule.Minutes(duration))
	if err != nil {
		return nil, err
	}
	slot, ok := findSlot(day.Slots, p.Start)
	if !ok {
		return nil, ErrInvalidStart
	}
	if !slot.Available {
		return nil, s.conflict(slot.Reason, day.Slots, p.Start)
	}

	discount, loyaltyConsumed, err := s.applyDiscount(ctx, p, &price)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		Date:            p.Date,
		StartMinutes:    int(p.Start),
		ID:              uuid.NewString(),
		CustomerID:      p.CustomerID,
		CustomerEmail:   p.CustomerEmail,
		TreatmentIDs:    p.TreatmentIDs,
		DurationMinutes: duration,
		PriceCents:      price,
		Discount:        discount,
		Status:          StatusConfirmed,
	}
	if err := s.store.Create(ctx, b); err != nil {
		if loyaltyConsumed {
			s.loyalty.Rollback(ctx, p.CustomerID)
		}
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveCommitConflict()
			return nil, s.conflict(schedule.ReasonAlreadyBooked, day.Slots, p.Start)
		}
		return nil, err
	}

	s.metrics.ObserveBookingCreated(discount)
	s.logger.Info("booking created",
		"booking_id", b.ID, "customer_id", b.CustomerID,
		"date", b.Date, "start", b.StartClock(), "discount", discount)
	s.sendConfirmation(*b, items)
	return b, nil
}

// Cancel cancels one of the customer's bookings.
func (s *Service) Cancel(ctx context.Context, customerID, bookingID string) (*Booking, error) {
	return s.store.Cancel(ctx, customerID, bookingID)
}

// ListUpcoming returns the customer's bookings from today onwards.
func (s *Service) ListUpcoming(ctx context.Context, customerID string) ([]Booking, error) {
	today := schedule.FormatDate(s.now().In(s.loc))
	return s.store.ListForCustomer(ctx, customerID, today)
}

// DayRoster returns a day's non-cancelled bookings for the admin view.
func (s *Service) DayRoster(ctx context.Context, date string) ([]Booking, error) {
	if _, err := schedule.ParseDate(date, s.loc); err != nil {
		return nil, err
	}
	return s.store.ListForDate(ctx, date)
}

// applyDiscount validates the requested discount and adjusts the price.
// Returns the stored discount marker and whether a loyalty grant must be
// rolled back on a failed commit.
func (s *Service) applyDiscount(ctx context.Context, p CreateParams, price *int) (string, bool, error) {
	switch p.Discount {
	case DiscountNone:
		return DiscountNone, false, nil

	case DiscountLoyalty:
		granted, err := s.loyalty.Consume(ctx, p.CustomerID)
		if err != nil {
			return "", false, err
		}
		if !granted {
			return "", false, ErrDiscountUnavailable
		}
		*price = discounted(*price, s.loyaltyPct)
		return DiscountLoyalty, true, nil

	case DiscountBirthday:
		profile, err := s.profiles.Get(ctx, p.CustomerID)
		if err != nil {
			if errors.Is(err, customers.ErrNotFound) {
				return "", false, ErrDiscountUnavailable
			}
			return "", false, err
		}
		if profile.BirthDate == "" {
			return "", false, ErrDiscountUnavailable
		}
		birthDate, err := schedule.ParseDate(profile.BirthDate, s.loc)
		if err != nil {
			return "", false, fmt.Errorf("bookings: stored birth date: %w", err)
		}
		if !birthday.Compute(birthDate, s.now().In(s.loc)).Eligible {
			return "", false, ErrDiscountUnavailable
		}
		*price = discounted(*price, s.birthdayPct)
		return DiscountBirthday, false, nil

	default:
		return "", false, fmt.Errorf("%w: unknown discount %q", ErrDiscountUnavailable, p.Discount)
	}
}

// conflict builds the slot-taken error with the next-free-slot suggestion.
func (s *Service) conflict(reason string, slots []schedule.Slot, after schedule.Minutes) error {
	e := &SlotConflictError{Reason: reason}
	if next, ok := schedule.NextAvailable(slots, after); ok {
		t := next.Time
		e.Suggested = &t
	}
	return e
}

// sendConfirmation mails the confirmation off the request path. The booking
// stands whether or not the mail goes out.
func (s *Service) sendConfirmation(b Booking, items []treatments.Treatment) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.BookingConfirmed(ctx, b, items); err != nil {
			s.logger.Error("booking confirmation failed",
				"booking_id", b.ID, "email", b.CustomerEmail, "error", err)
		}
	}()
}

func findSlot(slots []schedule.Slot, start schedule.Minutes) (schedule.Slot, bool) {
	for _, sl := range slots {
		if sl.Time == start {
			return sl, true
		}
	}
	return schedule.Slot{}, false
}

func discounted(priceCents, pct int) int {
	return priceCents * (100 - pct) / 100
}
