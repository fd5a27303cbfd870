package treatments

import (
	"encoding/json"
	"net/http"

	"github.com/haarwerk/booking-api/pkg/logging"
)

// Handler serves the public treatment catalog.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListResponse wraps the catalog.
type ListResponse struct {
	Treatments []Treatment `json:"treatments"`
	Count      int         `json:"count"`
}

// List handles GET /api/treatments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list treatments failed", "error", err)
		http.Error(w, "failed to load treatments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Treatments: catalog, Count: len(catalog)})
}
