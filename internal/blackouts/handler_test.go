package blackouts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/booking-api/pkg/logging"
)

func TestNewHandlerRequiresRepository(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil, logging.Default()) })
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/admin/blackouts", h.Create)
	r.Get("/admin/blackouts", h.List)
	r.Delete("/admin/blackouts/{date}/{id}", h.Delete)
	return r
}

func TestHandlerCreatePartialWindow(t *testing.T) {
	mock := &mockDynamo{}
	h := NewHandler(NewRepository(mock, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	body := `{"date":"2026-03-10","startTime":"10:00","endTime":"11:00","reason":"Lieferung"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/blackouts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Window
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 600, created.StartMinutes)
	assert.Equal(t, 660, created.EndMinutes)
	assert.False(t, created.FullDay)
}

func TestHandlerCreateFullDayIgnoresTimes(t *testing.T) {
	mock := &mockDynamo{}
	h := NewHandler(NewRepository(mock, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	body := `{"date":"2026-03-10","fullDay":true,"reason":"Betriebsferien"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/blackouts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandlerCreateRejectsBadClock(t *testing.T) {
	h := NewHandler(NewRepository(&mockDynamo{}, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	body := `{"date":"2026-03-10","startTime":"10am","endTime":"11:00","reason":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/blackouts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerList(t *testing.T) {
	item, err := attributevalue.MarshalMap(Window{Date: "2026-03-10", ID: "b-1", FullDay: true, Reason: "Feiertag"})
	require.NoError(t, err)
	mock := &mockDynamo{scanItems: []map[string]types.AttributeValue{item}}
	h := NewHandler(NewRepository(mock, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/blackouts?from=2026-03-01&to=2026-03-31", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
}

func TestHandlerListRequiresRange(t *testing.T) {
	h := NewHandler(NewRepository(&mockDynamo{}, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/blackouts?from=2026-03-01", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	mock := &mockDynamo{}
	h := NewHandler(NewRepository(mock, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	req := httptest.NewRequest(http.MethodDelete, "/admin/blackouts/2026-03-10/b-1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, mock.deleteInput)
}

func TestHandlerDeleteNotFound(t *testing.T) {
	mock := &mockDynamo{deleteErr: &types.ConditionalCheckFailedException{}}
	h := NewHandler(NewRepository(mock, "salon_blackouts", berlin(t), logging.Default()), logging.Default())

	req := httptest.NewRequest(http.MethodDelete, "/admin/blackouts/2026-03-10/missing", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
