package customers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/haarwerk/booking-api/internal/birthday"
	"github.com/haarwerk/booking-api/internal/identity"
	"github.com/haarwerk/booking-api/internal/loyalty"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// LoyaltyProgress yields a customer's current loyalty evaluation.
type LoyaltyProgress interface {
	Progress(ctx context.Context, customerID string) (loyalty.Evaluation, error)
}

// Handler serves the customer profile and discount-status endpoints.
type Handler struct {
	repo    *Repository
	loyalty LoyaltyProgress
	loc     *time.Location
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a customers handler.
func NewHandler(repo *Repository, loyaltySvc LoyaltyProgress, loc *time.Location, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("customers: repository required")
	}
	if loyaltySvc == nil {
		panic("customers: loyalty progress required")
	}
	if loc == nil {
		panic("customers: location required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, loyalty: loyaltySvc, loc: loc, logger: logger, now: time.Now}
}

// ProfileResponse is the customer's profile plus derived birthday status.
type ProfileResponse struct {
	Profile
	Birthday *birthday.Status `json:"birthday,omitempty"`
}

// Me handles GET /api/customers/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	cust, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing customer identity", http.StatusUnauthorized)
		return
	}

	profile, err := h.repo.Get(r.Context(), cust.ID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("load profile failed", "customer_id", cust.ID, "error", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	resp := ProfileResponse{Profile: *profile}
	if bs, ok := h.birthdayStatus(profile); ok {
		resp.Birthday = &bs
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateRequest is the profile-update payload. The birth date may be set
// once and never changed afterwards.
type UpdateRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// Update handles PUT /api/customers/me.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cust, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing customer identity", http.StatusUnauthorized)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.repo.Upsert(r.Context(), cust.ID, cust.Email, req.Name, req.BirthDate)
	if errors.Is(err, ErrBirthDateSet) {
		http.Error(w, "birth date is already set and cannot be changed", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("update profile failed", "customer_id", cust.ID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("profile updated", "customer_id", cust.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// DiscountsResponse combines both discount engines for the pricing UI.
type DiscountsResponse struct {
	Loyalty  loyalty.Evaluation `json:"loyalty"`
	Birthday *birthday.Status   `json:"birthday,omitempty"`
}

// Discounts handles GET /api/discounts.
func (h *Handler) Discounts(w http.ResponseWriter, r *http.Request) {
	cust, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing customer identity", http.StatusUnauthorized)
		return
	}

	eval, err := h.loyalty.Progress(r.Context(), cust.ID)
	if err != nil {
		h.logger.Error("loyalty progress failed", "customer_id", cust.ID, "error", err)
		http.Error(w, "failed to compute discounts", http.StatusInternalServerError)
		return
	}

	resp := DiscountsResponse{Loyalty: eval}
	profile, err := h.repo.Get(r.Context(), cust.ID)
	if err == nil {
		if bs, ok := h.birthdayStatus(profile); ok {
			resp.Birthday = &bs
		}
	} else if !errors.Is(err, ErrNotFound) {
		h.logger.Warn("profile lookup for discounts failed", "customer_id", cust.ID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) birthdayStatus(profile *Profile) (birthday.Status, bool) {
	if profile == nil || profile.BirthDate == "" {
		return birthday.Status{}, false
	}
	birthDate, err := schedule.ParseDate(profile.BirthDate, h.loc)
	if err != nil {
		h.logger.Warn("stored birth date unparseable", "customer_id", profile.CustomerID, "error", err)
		return birthday.Status{}, false
	}
	return birthday.Compute(birthDate, h.now().In(h.loc)), true
}
