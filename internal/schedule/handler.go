package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/haarwerk/booking-api/pkg/logging"
)

// Handler exposes the availability endpoints.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates an availability handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("schedule: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// MonthResponse wraps the per-day calendar cells.
type MonthResponse struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []DayCell `json:"days"`
}

// Month handles GET /api/availability/month?year=YYYY&month=M.
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	cells, err := h.engine.MonthView(r.Context(), year, time.Month(month))
	if err != nil {
		h.logger.Error("month view failed", "year", year, "month", month, "error", err)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MonthResponse{Year: year, Month: month, Days: cells})
}

// Day handles GET /api/availability/day?date=YYYY-MM-DD&duration=MINUTES.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date required", http.StatusBadRequest)
		return
	}
	duration, err := strconv.Atoi(r.URL.Query().Get("duration"))
	if err != nil {
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	}

	result, err := h.engine.DayView(r.Context(), date, Minutes(duration))
	switch {
	case errors.Is(err, ErrBookingsUnavailable):
		h.logger.Error("day view unavailable", "date", date, "error", err)
		http.Error(w, "availability is temporarily unavailable", http.StatusServiceUnavailable)
		return
	case errors.Is(err, ErrInvalidDuration):
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	case err != nil:
		// Remaining failures are malformed dates.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
