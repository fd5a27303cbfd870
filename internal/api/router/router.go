// Package router wires the HTTP surface: public availability and catalog
// endpoints, identity-scoped booking endpoints and the JWT-protected admin
// area.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/haarwerk/booking-api/internal/blackouts"
	"github.com/haarwerk/booking-api/internal/bookings"
	"github.com/haarwerk/booking-api/internal/customers"
	httpmiddleware "github.com/haarwerk/booking-api/internal/http/middleware"
	"github.com/haarwerk/booking-api/internal/identity"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger       *logging.Logger
	Availability *schedule.Handler
	Treatments   *treatments.Handler
	Bookings     *bookings.Handler
	Customers    *customers.Handler
	Blackouts    *blackouts.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Rate limit for booking creation, requests per second per IP.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Treatments != nil {
			public.Get("/api/treatments", cfg.Treatments.List)
		}
		if cfg.Availability != nil {
			public.Get("/api/availability/month", cfg.Availability.Month)
			public.Get("/api/availability/day", cfg.Availability.Day)
		}
	})

	// Customer endpoints, identity required.
	r.Group(func(customer chi.Router) {
		customer.Use(identity.RequireCustomer)

		if cfg.Bookings != nil {
			create := customer.With()
			if cfg.BookingRateLimit > 0 {
				create = customer.With(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst))
			}
			create.Post("/api/bookings", cfg.Bookings.Create)
			customer.Get("/api/bookings", cfg.Bookings.List)
			customer.Delete("/api/bookings/{id}", cfg.Bookings.Cancel)
		}
		if cfg.Customers != nil {
			customer.Get("/api/customers/me", cfg.Customers.Me)
			customer.Put("/api/customers/me", cfg.Customers.Update)
			customer.Get("/api/discounts", cfg.Customers.Discounts)
		}
	})

	// Admin endpoints, HMAC JWT required.
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

			if cfg.Blackouts != nil {
				admin.Post("/blackouts", cfg.Blackouts.Create)
				admin.Get("/blackouts", cfg.Blackouts.List)
				admin.Delete("/blackouts/{date}/{id}", cfg.Blackouts.Delete)
			}
			if cfg.Bookings != nil {
				admin.Get("/bookings", cfg.Bookings.DayRoster)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
