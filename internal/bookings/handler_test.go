package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/booking-api/internal/customers"
	"github.com/haarwerk/booking-api/internal/identity"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/pkg/logging"
)

func newTestRouter(t *testing.T, store *stubStore, avail *stubAvailability) *chi.Mux {
	t.Helper()
	svc := newTestService(t, store, avail, testCatalog(), &stubProfiles{profile: &customers.Profile{}}, &stubLoyalty{}, ServiceOptions{})
	h := NewHandler(svc, logging.Default())

	r := chi.NewRouter()
	r.Post("/api/bookings", h.Create)
	r.Get("/api/bookings", h.List)
	r.Delete("/api/bookings/{id}", h.Cancel)
	r.Get("/admin/bookings", h.DayRoster)
	return r
}

func asCustomer(req *http.Request) *http.Request {
	return req.WithContext(identity.WithCustomer(req.Context(),
		identity.Customer{ID: "c-1", Email: "kundin@example.de"}))
}

func TestCreateHandlerBooksSlot(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, store, &stubAvailability{result: openDay(freeSlot(840))})

	body := `{"date":"2026-03-16","startTime":"14:00","treatmentIds":["damenschnitt"]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var b Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	assert.Equal(t, "14:00", b.StartClock())
	require.Len(t, store.created, 1)
}

func TestCreateHandlerRequiresIdentity(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, &stubAvailability{result: openDay(freeSlot(840))})

	body := `{"date":"2026-03-16","startTime":"14:00","treatmentIds":["damenschnitt"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHandlerRejectsBadClock(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, &stubAvailability{result: openDay(freeSlot(840))})

	body := `{"date":"2026-03-16","startTime":"2pm","treatmentIds":["damenschnitt"]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandlerConflictPayload(t *testing.T) {
	avail := &stubAvailability{result: openDay(
		takenSlot(840, schedule.ReasonAlreadyBooked),
		freeSlot(870),
	)}
	router := newTestRouter(t, &stubStore{}, avail)

	body := `{"date":"2026-03-16","startTime":"14:00","treatmentIds":["damenschnitt"]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp conflictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "slot_taken", resp.Error)
	assert.Equal(t, schedule.ReasonAlreadyBooked, resp.Reason)
	assert.Equal(t, "14:30", resp.SuggestedTime)
}

func TestCreateHandlerAvailabilityOutage(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, &stubAvailability{err: schedule.ErrBookingsUnavailable})

	body := `{"date":"2026-03-16","startTime":"14:00","treatmentIds":["damenschnitt"]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type notFoundStore struct{ stubStore }

func (s *notFoundStore) Cancel(_ context.Context, _, _ string) (*Booking, error) {
	return nil, ErrNotFound
}

func TestCancelHandlerNotFound(t *testing.T) {
	svc := newTestService(t, &notFoundStore{}, &stubAvailability{}, testCatalog(), &stubProfiles{}, &stubLoyalty{}, ServiceOptions{})
	h := NewHandler(svc, logging.Default())
	r := chi.NewRouter()
	r.Delete("/api/bookings/{id}", h.Cancel)

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/bookings/missing", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelHandler(t *testing.T) {
	store := &stubStore{cancelled: &Booking{ID: "b-1", CustomerID: "c-1", Status: StatusCancelled}}
	router := newTestRouter(t, store, &stubAvailability{})

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/bookings/b-1", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var b Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestDayRosterHandler(t *testing.T) {
	store := &stubStore{listed: []Booking{
		{Date: "2026-03-16", StartMinutes: 600, ID: "b-1", Status: StatusConfirmed},
	}}
	router := newTestRouter(t, store, &stubAvailability{})

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?date=2026-03-16", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
}

func TestDayRosterHandlerBadDate(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, &stubAvailability{})

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?date=16.03.2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
