package customers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/booking-api/internal/identity"
	"github.com/haarwerk/booking-api/internal/loyalty"
	"github.com/haarwerk/booking-api/pkg/logging"
)

type stubLoyalty struct {
	eval loyalty.Evaluation
	err  error
}

func (s *stubLoyalty) Progress(_ context.Context, _ string) (loyalty.Evaluation, error) {
	return s.eval, s.err
}

func newTestHandler(t *testing.T, loyaltySvc LoyaltyProgress) (*Handler, *Repository) {
	t.Helper()
	repo, _ := newTestRepo(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	h := NewHandler(repo, loyaltySvc, loc, logging.Default())
	h.now = func() time.Time { return time.Date(2026, 3, 16, 10, 0, 0, 0, loc) }
	return h, repo
}

func TestNewHandlerRequiresDeps(t *testing.T) {
	repo, _ := newTestRepo(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	assert.Panics(t, func() { NewHandler(nil, &stubLoyalty{}, loc, logging.Default()) })
	assert.Panics(t, func() { NewHandler(repo, nil, loc, logging.Default()) })
}

func asCustomer(req *http.Request, id string) *http.Request {
	return req.WithContext(identity.WithCustomer(req.Context(), identity.Customer{ID: id, Email: "kundin@example.de"}))
}

func TestUpdateAndMe(t *testing.T) {
	h, _ := newTestHandler(t, &stubLoyalty{})

	body := `{"name":"Anna Schmidt","birthDate":"1990-03-14"}`
	req := asCustomer(httptest.NewRequest(http.MethodPut, "/api/customers/me", strings.NewReader(body)), "c-1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = asCustomer(httptest.NewRequest(http.MethodGet, "/api/customers/me", nil), "c-1")
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Anna Schmidt", resp.Name)
	require.NotNil(t, resp.Birthday, "birthday status derived from stored birth date")
	// Today (Mar 16) is inside the Mar 14-20 window.
	assert.True(t, resp.Birthday.Eligible)
}

func TestUpdateBirthDateConflict(t *testing.T) {
	h, repo := newTestHandler(t, &stubLoyalty{})
	_, err := repo.Upsert(context.Background(), "c-1", "kundin@example.de", "Anna", "1990-03-14")
	require.NoError(t, err)

	body := `{"birthDate":"1991-01-01"}`
	req := asCustomer(httptest.NewRequest(http.MethodPut, "/api/customers/me", strings.NewReader(body)), "c-1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMeNotFound(t *testing.T) {
	h, _ := newTestHandler(t, &stubLoyalty{})

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/customers/me", nil), "missing")
	rec := httptest.NewRecorder()
	h.Me(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeRequiresIdentity(t *testing.T) {
	h, _ := newTestHandler(t, &stubLoyalty{})

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/customers/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDiscounts(t *testing.T) {
	h, repo := newTestHandler(t, &stubLoyalty{eval: loyalty.Evaluate(4)})
	_, err := repo.Upsert(context.Background(), "c-1", "kundin@example.de", "Anna", "1990-03-14")
	require.NoError(t, err)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/discounts", nil), "c-1")
	rec := httptest.NewRecorder()
	h.Discounts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DiscountsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Loyalty.Eligible)
	require.NotNil(t, resp.Birthday)
	assert.True(t, resp.Birthday.Eligible)
}

func TestDiscountsWithoutProfileStillReturnsLoyalty(t *testing.T) {
	h, _ := newTestHandler(t, &stubLoyalty{eval: loyalty.Evaluate(1)})

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/discounts", nil), "c-9")
	rec := httptest.NewRecorder()
	h.Discounts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DiscountsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp.Loyalty.NextBookingsNeeded)
	assert.Nil(t, resp.Birthday)
}

func TestDiscountsLoyaltyFailure(t *testing.T) {
	h, _ := newTestHandler(t, &stubLoyalty{err: errors.New("redis down")})

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/discounts", nil), "c-1")
	rec := httptest.NewRecorder()
	h.Discounts(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
