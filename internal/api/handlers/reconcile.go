package handlers

import (
	"net/http"

	"github.com/ledgermatch/ledgermatch/internal/api/dto"
	"github.com/ledgermatch/ledgermatch/internal/application/service"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// ReconcileHandler runs transactions through the matching engine.
type ReconcileHandler struct {
	*Base
	svc *service.ReconcileService
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(repo storage.Repository, svc *service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{Base: NewBase(repo), svc: svc}
}

// Match handles POST /api/reconcile/match. Without inline candidates the
// transaction is persisted and matched against stored open payments; with
// them the engine runs a dry evaluation and nothing is written.
func (h *ReconcileHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	tx, err := req.Transaction.ToModel()
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	if len(req.Candidates) > 0 {
		h.evaluate(w, tx, req.Candidates)
		return
	}

	result, err := h.svc.MatchTransaction(tx)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewReconcileResponse(result))
}

func (h *ReconcileHandler) evaluate(w http.ResponseWriter, tx *model.Transaction, reqs []dto.PaymentRequest) {
	candidates := make([]*model.Payment, 0, len(reqs))
	for _, pr := range reqs {
		p, err := pr.ToModel()
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
		candidates = append(candidates, p)
	}

	results := h.svc.Evaluate(tx, candidates)

	matches := make([]dto.MatchResponse, 0, len(results))
	for _, result := range results {
		matches = append(matches, dto.NewMatchResponse(result))
	}

	h.WriteJSON(w, http.StatusOK, dto.ReconcileResponse{
		TransactionID: tx.ID,
		Candidates:    len(candidates),
		DryRun:        true,
		Matches:       matches,
	})
}
