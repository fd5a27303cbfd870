package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haarwerk/booking-api/internal/observability/metrics"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// ErrBookingsUnavailable signals that existing bookings could not be read.
// Unlike a blackout fetch failure this is fatal to the query: skipping the
// booking-conflict check would risk double-booking the chair.
var ErrBookingsUnavailable = errors.New("schedule: bookings unavailable")

// ErrInvalidDuration is returned for non-positive treatment durations.
var ErrInvalidDuration = errors.New("schedule: duration must be positive")

// BookingSource yields the occupied intervals of a day (non-cancelled bookings).
type BookingSource interface {
	BookingsForDate(ctx context.Context, date string) ([]Interval, error)
}

// BlackoutSource yields admin blackout windows.
type BlackoutSource interface {
	BlackoutsForDate(ctx context.Context, date string) ([]Blackout, error)
	BlackoutsForRange(ctx context.Context, from, to string) ([]Blackout, error)
}

// Slot is one candidate start time with its resolved availability. Slots are
// recomputed on every query and never persisted.
type Slot struct {
	Time      Minutes `json:"time"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

// DayResult is the fully annotated slot list for a selected day. Degraded is
// set when blackout data could not be fetched and the reduced algorithm ran.
type DayResult struct {
	Date     string `json:"date"`
	Slots    []Slot `json:"slots"`
	Degraded bool   `json:"degraded"`
}

// DayCell is the coarse per-day flag the month calendar greys days out with.
type DayCell struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// EngineOptions tune the engine; zero values select production defaults.
type EngineOptions struct {
	BlackoutTimeout time.Duration
	Metrics         *metrics.BookingMetrics
	Logger          *logging.Logger
	Now             func() time.Time
}

// Engine computes slot and calendar availability from the time grid, the
// booking store and the blackout store. It holds no mutable state: identical
// inputs produce identical output, so concurrent queries need no locking.
type Engine struct {
	hours           BusinessHours
	bookings        BookingSource
	blackouts       BlackoutSource
	loc             *time.Location
	blackoutTimeout time.Duration
	metrics         *metrics.BookingMetrics
	logger          *logging.Logger
	now             func() time.Time
}

// NewEngine builds an availability engine.
func NewEngine(hours BusinessHours, bookings BookingSource, blackouts BlackoutSource, loc *time.Location, opts EngineOptions) *Engine {
	if bookings == nil {
		panic("schedule: booking source required")
	}
	if blackouts == nil {
		panic("schedule: blackout source required")
	}
	if loc == nil {
		panic("schedule: location required")
	}
	if opts.BlackoutTimeout <= 0 {
		opts.BlackoutTimeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		hours:           hours,
		bookings:        bookings,
		blackouts:       blackouts,
		loc:             loc,
		blackoutTimeout: opts.BlackoutTimeout,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		now:             opts.Now,
	}
}

// Hours returns the configured business hours.
func (e *Engine) Hours() BusinessHours { return e.hours }

// Location returns the salon's local timezone.
func (e *Engine) Location() *time.Location { return e.loc }

// today returns local midnight of the current day.
func (e *Engine) today() time.Time {
	y, m, d := e.now().In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// DayView resolves every candidate slot of the selected day against current
// bookings and blackout windows. Both reads are issued concurrently. A
// blackout fetch failure switches to the bookings-only path instead of
// failing the request; a booking fetch failure aborts with
// ErrBookingsUnavailable.
func (e *Engine) DayView(ctx context.Context, date string, duration Minutes) (DayResult, error) {
	started := time.Now()

	if duration <= 0 {
		return DayResult{}, ErrInvalidDuration
	}
	day, err := ParseDate(date, e.loc)
	if err != nil {
		return DayResult{}, err
	}

	// Closed weekdays and past days have no candidate slots at all.
	if e.hours.IsClosedDay(day) || day.Before(e.today()) {
		return DayResult{Date: date, Slots: []Slot{}}, nil
	}

	type bookingsFetch struct {
		intervals []Interval
		err       error
	}
	type blackoutsFetch struct {
		windows []Blackout
		err     error
	}

	bookingsCh := make(chan bookingsFetch, 1)
	blackoutsCh := make(chan blackoutsFetch, 1)

	go func() {
		intervals, err := e.bookings.BookingsForDate(ctx, date)
		bookingsCh <- bookingsFetch{intervals: intervals, err: err}
	}()
	go func() {
		// Bounded timeout: the fallback decision must not hang the request.
		fetchCtx, cancel := context.WithTimeout(ctx, e.blackoutTimeout)
		defer cancel()
		windows, err := e.blackouts.BlackoutsForDate(fetchCtx, date)
		blackoutsCh <- blackoutsFetch{windows: windows, err: err}
	}()

	booked := <-bookingsCh
	if booked.err != nil {
		e.logger.Error("day view: booking fetch failed", "date", date, "error", booked.err)
		e.metrics.ObserveDayView("error", time.Since(started).Seconds())
		return DayResult{}, fmt.Errorf("%w: %v", ErrBookingsUnavailable, booked.err)
	}

	locked := <-blackoutsCh
	if locked.err != nil {
		// Degrade rather than block all bookings: availability is first of
		// all about not double-booking the chair. Admin blackouts come back
		// once the store recovers.
		e.logger.Warn("day view: blackout fetch failed, serving bookings-only availability",
			"date", date, "error", locked.err)
		e.metrics.ObserveBlackoutFallback()
		e.metrics.ObserveDayView("degraded", time.Since(started).Seconds())
		return DayResult{
			Date:     date,
			Slots:    e.resolveBookingsOnly(duration, booked.intervals),
			Degraded: true,
		}, nil
	}

	e.metrics.ObserveDayView("ok", time.Since(started).Seconds())
	return DayResult{
		Date:  date,
		Slots: e.resolveWithBlackouts(duration, booked.intervals, locked.windows),
	}, nil
}

// resolveWithBlackouts runs the full algorithm over the candidate grid.
func (e *Engine) resolveWithBlackouts(duration Minutes, bookings []Interval, blackouts []Blackout) []Slot {
	grid := e.hours.Grid()
	slots := make([]Slot, 0, len(grid))
	for _, start := range grid {
		d := e.hours.Resolve(start, duration, bookings, blackouts)
		slots = append(slots, Slot{Time: start, Available: d.Available, Reason: d.Reason})
	}
	return slots
}

// resolveBookingsOnly is the reduced algorithm used when blackout data is
// unreachable: business hours and booking conflicts only.
func (e *Engine) resolveBookingsOnly(duration Minutes, bookings []Interval) []Slot {
	return e.resolveWithBlackouts(duration, bookings, nil)
}

// MonthView computes the coarse per-day availability flags for a calendar
// month. A day is unavailable only when it is the closed weekday, lies in
// the past, or carries a full-day blackout. Partial blackouts and booked
// slots do not grey out a day; slot-level filtering happens in DayView for
// the one day the customer selects.
func (e *Engine) MonthView(ctx context.Context, year int, month time.Month) ([]DayCell, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("schedule: invalid month %d", month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	last := first.AddDate(0, 1, -1)

	fullDay := make(map[string]bool)
	fetchCtx, cancel := context.WithTimeout(ctx, e.blackoutTimeout)
	defer cancel()
	windows, err := e.blackouts.BlackoutsForRange(fetchCtx, FormatDate(first), FormatDate(last))
	if err != nil {
		// Same degraded philosophy as DayView: a failed fetch means the
		// month renders as unblocked by admin action.
		e.logger.Warn("month view: blackout fetch failed, treating month as unblocked",
			"year", year, "month", int(month), "error", err)
	} else {
		for _, w := range windows {
			if w.FullDay {
				fullDay[w.Date] = true
			}
		}
	}

	today := e.today()
	cells := make([]DayCell, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := FormatDate(d)
		available := !e.hours.IsClosedDay(d) && !d.Before(today) && !fullDay[date]
		cells = append(cells, DayCell{Date: date, Available: available})
	}
	return cells, nil
}
