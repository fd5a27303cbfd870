package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haarwerk/booking-api/internal/bookings"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

// Confirmer composes and sends the booking confirmation mail.
type Confirmer struct {
	sender EmailSender
	loc    *time.Location
	logger *logging.Logger
}

// NewConfirmer builds the confirmation notifier.
func NewConfirmer(sender EmailSender, loc *time.Location, logger *logging.Logger) *Confirmer {
	if sender == nil {
		panic("notify: email sender required")
	}
	if loc == nil {
		panic("notify: location required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Confirmer{sender: sender, loc: loc, logger: logger}
}

// BookingConfirmed sends the confirmation for a freshly created booking.
func (c *Confirmer) BookingConfirmed(ctx context.Context, b bookings.Booking, items []treatments.Treatment) error {
	if b.CustomerEmail == "" {
		c.logger.Warn("confirmation skipped, no customer email", "booking_id", b.ID)
		return nil
	}

	day, err := schedule.ParseDate(b.Date, c.loc)
	if err != nil {
		return fmt.Errorf("notify: booking date: %w", err)
	}

	msg := EmailMessage{
		To:      b.CustomerEmail,
		Subject: fmt.Sprintf("Terminbestätigung für %s", formatGermanDate(day)),
		Body:    confirmationBody(b, day, items),
	}
	return c.sender.Send(ctx, msg)
}

func confirmationBody(b bookings.Booking, day time.Time, items []treatments.Treatment) string {
	var sb strings.Builder
	sb.WriteString("Vielen Dank für Ihre Buchung!\n\n")
	fmt.Fprintf(&sb, "Termin: %s um %s Uhr\n", formatGermanDate(day), b.StartClock())
	fmt.Fprintf(&sb, "Dauer: %d Minuten\n\n", b.DurationMinutes)

	if len(items) > 0 {
		sb.WriteString("Behandlungen:\n")
		for _, tr := range items {
			fmt.Fprintf(&sb, "  - %s (%d Min.)\n", tr.Name, tr.DurationMinutes)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Preis: %s\n", formatEuro(b.PriceCents))
	switch b.Discount {
	case bookings.DiscountLoyalty:
		sb.WriteString("Ihr Treuerabatt wurde angewendet.\n")
	case bookings.DiscountBirthday:
		sb.WriteString("Ihr Geburtstagsrabatt wurde angewendet.\n")
	}

	sb.WriteString("\nWir freuen uns auf Ihren Besuch!\nIhr Salon Haarwerk\n")
	return sb.String()
}

func formatGermanDate(day time.Time) string {
	return fmt.Sprintf("%s, %02d.%02d.%d", germanWeekdays[day.Weekday()], day.Day(), int(day.Month()), day.Year())
}

func formatEuro(cents int) string {
	return fmt.Sprintf("%d,%02d EUR", cents/100, cents%100)
}
