package blackouts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// Handler exposes the admin endpoints for blackout windows.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a blackouts admin handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("blackouts: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the admin payload for a new blackout window. Times use
// the external "HH:MM" format and are required unless fullDay is set.
type CreateRequest struct {
	Date      string `json:"date"`
	FullDay   bool   `json:"fullDay"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// Create handles POST /admin/blackouts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	window := Window{
		Date:    req.Date,
		FullDay: req.FullDay,
		Reason:  req.Reason,
	}
	if !req.FullDay {
		start, err := schedule.ParseClock(req.StartTime)
		if err != nil {
			http.Error(w, "invalid startTime", http.StatusBadRequest)
			return
		}
		end, err := schedule.ParseClock(req.EndTime)
		if err != nil {
			http.Error(w, "invalid endTime", http.StatusBadRequest)
			return
		}
		window.StartMinutes = int(start)
		window.EndMinutes = int(end)
	}

	if err := h.repo.Create(r.Context(), &window); err != nil {
		h.logger.Error("create blackout failed", "date", req.Date, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("blackout created", "id", window.ID, "date", window.Date, "full_day", window.FullDay)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(window)
}

// ListResponse wraps the windows of a date range.
type ListResponse struct {
	Windows []Window `json:"windows"`
	Count   int      `json:"count"`
}

// List handles GET /admin/blackouts?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to required", http.StatusBadRequest)
		return
	}

	windows, err := h.repo.ListForRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("list blackouts failed", "from", from, "to", to, "error", err)
		http.Error(w, "failed to list blackout windows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Windows: windows, Count: len(windows)})
}

// Delete handles DELETE /admin/blackouts/{date}/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	id := chi.URLParam(r, "id")

	err := h.repo.Delete(r.Context(), date, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "blackout window not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("delete blackout failed", "date", date, "id", id, "error", err)
		http.Error(w, "failed to delete blackout window", http.StatusInternalServerError)
		return
	}

	h.logger.Info("blackout deleted", "id", id, "date", date)
	w.WriteHeader(http.StatusNoContent)
}
