package handlers

import (
	"net/http"

	"github.com/ledgermatch/ledgermatch/internal/api/dto"
	"github.com/ledgermatch/ledgermatch/internal/domain/iban"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// IBANHandler exposes the supported national IBAN formats.
type IBANHandler struct {
	*Base
}

// NewIBANHandler creates a new IBAN handler.
func NewIBANHandler(repo storage.Repository) *IBANHandler {
	return &IBANHandler{Base: NewBase(repo)}
}

// ListCountries handles GET /api/iban/countries.
func (h *IBANHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	codes := iban.SupportedCountries()

	formats := make([]dto.CountryFormatResponse, 0, len(codes))
	for _, code := range codes {
		if format, ok := iban.FormatFor(code); ok {
			formats = append(formats, dto.NewCountryFormatResponse(format))
		}
	}

	h.WriteJSON(w, http.StatusOK, formats)
}
