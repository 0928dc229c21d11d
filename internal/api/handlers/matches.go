package handlers

import (
	"net/http"

	"github.com/ledgermatch/ledgermatch/internal/api/dto"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// MatchesHandler serves the match audit trail.
type MatchesHandler struct {
	*Base
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(repo storage.Repository) *MatchesHandler {
	return &MatchesHandler{Base: NewBase(repo)}
}

// List handles GET /api/matches with optional transaction_id, outcome,
// limit and offset query parameters.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.MatchFilters{
		TransactionID: r.URL.Query().Get("transaction_id"),
		Outcome:       r.URL.Query().Get("outcome"),
		Limit:         ParseIntParam(r, "limit", 50),
		Offset:        ParseIntParam(r, "offset", 0),
	}

	records, err := h.repo.ListMatches(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	matches := make([]dto.MatchRecordResponse, 0, len(records))
	for _, record := range records {
		matches = append(matches, dto.NewMatchRecordResponse(record))
	}

	h.WriteJSON(w, http.StatusOK, dto.MatchListResponse{
		Matches: matches,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	})
}

// Stats handles GET /api/matches/stats.
func (h *MatchesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountMatchesByOutcome()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	h.WriteJSON(w, http.StatusOK, dto.StatsResponse{Outcomes: counts, Total: total})
}
