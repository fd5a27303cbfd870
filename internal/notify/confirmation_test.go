package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/booking-api/internal/bookings"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

type captureSender struct {
	sent []EmailMessage
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func newTestConfirmer(t *testing.T) (*Confirmer, *captureSender) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	sender := &captureSender{}
	return NewConfirmer(sender, loc, logging.Default()), sender
}

func TestBookingConfirmedComposesGermanMail(t *testing.T) {
	c, sender := newTestConfirmer(t)

	b := bookings.Booking{
		Date:            "2026-03-16",
		StartMinutes:    840,
		ID:              "b-1",
		CustomerEmail:   "kundin@example.de",
		DurationMinutes: 60,
		PriceCents:      5500,
	}
	items := []treatments.Treatment{{ID: "damenschnitt", Name: "Damenschnitt", DurationMinutes: 60}}

	require.NoError(t, c.BookingConfirmed(context.Background(), b, items))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "kundin@example.de", msg.To)
	assert.Equal(t, "Terminbestätigung für Montag, 16.03.2026", msg.Subject)
	assert.Contains(t, msg.Body, "14:00 Uhr")
	assert.Contains(t, msg.Body, "Damenschnitt")
	assert.Contains(t, msg.Body, "55,00 EUR")
	assert.NotContains(t, msg.Body, "rabatt")
}

func TestBookingConfirmedMentionsDiscount(t *testing.T) {
	c, sender := newTestConfirmer(t)

	b := bookings.Booking{
		Date:          "2026-03-16",
		StartMinutes:  840,
		CustomerEmail: "kundin@example.de",
		PriceCents:    4400,
		Discount:      bookings.DiscountLoyalty,
	}
	require.NoError(t, c.BookingConfirmed(context.Background(), b, nil))
	assert.Contains(t, sender.sent[0].Body, "Treuerabatt")
	assert.Contains(t, sender.sent[0].Body, "44,00 EUR")
}

func TestBookingConfirmedSkipsWithoutEmail(t *testing.T) {
	c, sender := newTestConfirmer(t)

	b := bookings.Booking{Date: "2026-03-16", StartMinutes: 840}
	require.NoError(t, c.BookingConfirmed(context.Background(), b, nil))
	assert.Empty(t, sender.sent)
}
