package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haarwerk/booking-api/internal/identity"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// Handler exposes the booking endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("bookings: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateRequest is the customer payload for a new booking.
type CreateRequest struct {
	Date         string   `json:"date"`
	StartTime    string   `json:"startTime"`
	TreatmentIDs []string `json:"treatmentIds"`
	Discount     string   `json:"discount,omitempty"`
}

// conflictResponse is the 409 payload; SuggestedTime is the next free start
// of the day when one exists.
type conflictResponse struct {
	Error         string `json:"error"`
	Reason        string `json:"reason"`
	SuggestedTime string `json:"suggestedTime,omitempty"`
}

// Create handles POST /api/bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customer, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "customer identity required", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.TreatmentIDs) == 0 {
		http.Error(w, "at least one treatment required", http.StatusBadRequest)
		return
	}
	start, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		http.Error(w, "invalid startTime", http.StatusBadRequest)
		return
	}

	b, err := h.service.Create(r.Context(), CreateParams{
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		Date:          req.Date,
		Start:         start,
		TreatmentIDs:  req.TreatmentIDs,
		Discount:      req.Discount,
	})
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *SlotConflictError
	switch {
	case errors.As(err, &conflict):
		resp := conflictResponse{Error: "slot_taken", Reason: conflict.Reason}
		if conflict.Suggested != nil {
			resp.SuggestedTime = conflict.Suggested.String()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(resp)

	case errors.Is(err, ErrDiscountUnavailable):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(conflictResponse{Error: "discount_unavailable", Reason: err.Error()})

	case errors.Is(err, schedule.ErrBookingsUnavailable):
		h.logger.Error("booking rejected, availability unreachable", "error", err)
		http.Error(w, "availability is temporarily unavailable", http.StatusServiceUnavailable)

	case errors.Is(err, ErrInvalidStart),
		errors.Is(err, schedule.ErrInvalidDuration),
		errors.Is(err, treatments.ErrNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		var parseErr *time.ParseError
		if errors.As(err, &parseErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("create booking failed", "error", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
	}
}

// ListResponse wraps a customer's upcoming bookings.
type ListResponse struct {
	Bookings []Booking `json:"bookings"`
	Count    int       `json:"count"`
}

// List handles GET /api/bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customer, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "customer identity required", http.StatusUnauthorized)
		return
	}

	list, err := h.service.ListUpcoming(r.Context(), customer.ID)
	if err != nil {
		h.logger.Error("list bookings failed", "customer_id", customer.ID, "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Bookings: list, Count: len(list)})
}

// Cancel handles DELETE /api/bookings/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	customer, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "customer identity required", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	b, err := h.service.Cancel(r.Context(), customer.ID, id)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrForbidden):
		http.Error(w, "booking belongs to another customer", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("cancel booking failed", "booking_id", id, "error", err)
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	h.logger.Info("booking cancelled", "booking_id", id, "customer_id", customer.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

// DayRoster handles GET /admin/bookings?date=YYYY-MM-DD.
func (h *Handler) DayRoster(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date required", http.StatusBadRequest)
		return
	}

	list, err := h.service.DayRoster(r.Context(), date)
	if err != nil {
		var parseErr *time.ParseError
		if errors.As(err, &parseErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("day roster failed", "date", date, "error", err)
		http.Error(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Bookings: list, Count: len(list)})
}
