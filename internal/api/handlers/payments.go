package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgermatch/ledgermatch/internal/api/dto"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// PaymentsHandler manages the expected payments the engine matches against.
type PaymentsHandler struct {
	*Base
}

// NewPaymentsHandler creates a new payments handler.
func NewPaymentsHandler(repo storage.Repository) *PaymentsHandler {
	return &PaymentsHandler{Base: NewBase(repo)}
}

// Create handles POST /api/payments.
func (h *PaymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	p, err := req.ToModel()
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	if err := h.repo.SavePayment(p); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusCreated, dto.NewPaymentResponse(p))
}

// Get handles GET /api/payments/{id}.
func (h *PaymentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.repo.GetPayment(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("payment"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewPaymentResponse(p))
}

// ListOpen handles GET /api/payments/open. The anchor query parameter
// (YYYY-MM-DD, default today) centers the due date window.
func (h *PaymentsHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	anchor := time.Now().UTC()
	if value := r.URL.Query().Get("anchor"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid anchor date, expected YYYY-MM-DD"))
			return
		}
		anchor = parsed
	}
	windowDays := ParseIntParam(r, "window_days", 30)

	payments, err := h.repo.ListOpenPayments(anchor, windowDays)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, dto.NewPaymentResponse(p))
	}

	h.WriteJSON(w, http.StatusOK, responses)
}

// Settle handles POST /api/payments/{id}/settle for manual settlement
// after review.
func (h *PaymentsHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.repo.MarkPaymentSettled(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("payment"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
