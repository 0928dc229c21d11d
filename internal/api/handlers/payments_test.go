package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/api/dto"
	"github.com/ledgermatch/ledgermatch/internal/api/handlers"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

func paymentsRouter(repo storage.Repository) chi.Router {
	h := handlers.NewPaymentsHandler(repo)
	r := chi.NewRouter()
	r.Post("/api/payments", h.Create)
	r.Get("/api/payments/open", h.ListOpen)
	r.Get("/api/payments/{id}", h.Get)
	r.Post("/api/payments/{id}/settle", h.Settle)
	return r
}

func TestPaymentsHandler_CreateAndGet(t *testing.T) {
	repo := storage.NewMockRepository()
	router := paymentsRouter(repo)

	body := []byte(`{"id":"p1","amount_due":"250.50","due_date":"2025-05-20","iban":"DE89370400440532013000"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/p1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.ID)
	assert.Equal(t, "250.5", resp.AmountDue)
	assert.Equal(t, "2025-05-20", resp.DueDate)
	assert.False(t, resp.Settled)
}

func TestPaymentsHandler_CreateRejectsBadAmount(t *testing.T) {
	router := paymentsRouter(storage.NewMockRepository())

	body := []byte(`{"amount_due":"abc","due_date":"2025-05-20"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentsHandler_GetNotFound(t *testing.T) {
	router := paymentsRouter(storage.NewMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentsHandler_ListOpen(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SavePayment(&model.Payment{
		ID:        "near",
		AmountDue: decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.SavePayment(&model.Payment{
		ID:        "far",
		AmountDue: decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
	}))
	router := paymentsRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/open?anchor=2025-05-10&window_days=30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "near", resp[0].ID)
}

func TestPaymentsHandler_Settle(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SavePayment(&model.Payment{
		ID:        "p1",
		AmountDue: decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
	}))
	router := paymentsRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments/p1/settle", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	p, err := repo.GetPayment("p1")
	require.NoError(t, err)
	assert.True(t, p.Settled)
}

func TestPaymentsHandler_SettleNotFound(t *testing.T) {
	router := paymentsRouter(storage.NewMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments/missing/settle", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
