package dto

import (
	"time"

	"github.com/ledgermatch/ledgermatch/internal/application/service"
	"github.com/ledgermatch/ledgermatch/internal/domain/iban"
	"github.com/ledgermatch/ledgermatch/internal/domain/matcher"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// MatchResponse is one ranked engine result.
type MatchResponse struct {
	PaymentID     string   `json:"payment_id"`
	Confidence    float64  `json:"confidence"`
	MatchType     string   `json:"match_type"`
	Reason        string   `json:"reason"`
	MatchedFields []string `json:"matched_fields,omitempty"`
	AmountDiff    string   `json:"amount_diff"`
	Outcome       string   `json:"outcome,omitempty"`
}

// ReconcileResponse is the full outcome of reconciling one transaction.
type ReconcileResponse struct {
	TransactionID string          `json:"transaction_id"`
	Candidates    int             `json:"candidates"`
	DryRun        bool            `json:"dry_run"`
	Matches       []MatchResponse `json:"matches"`
}

// NewReconcileResponse converts a service outcome.
func NewReconcileResponse(result *service.ReconcileResult) ReconcileResponse {
	matches := make([]MatchResponse, 0, len(result.Matches))
	for _, m := range result.Matches {
		resp := NewMatchResponse(m.Result)
		resp.Outcome = m.Outcome
		matches = append(matches, resp)
	}
	return ReconcileResponse{
		TransactionID: result.Transaction.ID,
		Candidates:    result.Candidates,
		Matches:       matches,
	}
}

// NewMatchResponse converts a bare engine result.
func NewMatchResponse(result matcher.MatchResult) MatchResponse {
	return MatchResponse{
		PaymentID:     result.Payment.ID,
		Confidence:    result.Confidence.Float64(),
		MatchType:     string(result.Type),
		Reason:        result.Reason,
		MatchedFields: result.MatchedFields,
		AmountDiff:    result.AmountDiff.String(),
	}
}

// MatchRecordResponse is one audit trail entry.
type MatchRecordResponse struct {
	ID            int64    `json:"id"`
	TransactionID string   `json:"transaction_id"`
	PaymentID     string   `json:"payment_id"`
	Confidence    float64  `json:"confidence"`
	MatchType     string   `json:"match_type"`
	Reason        string   `json:"reason,omitempty"`
	MatchedFields []string `json:"matched_fields,omitempty"`
	AmountDiff    string   `json:"amount_diff"`
	Outcome       string   `json:"outcome"`
	CreatedAt     string   `json:"created_at"`
}

// NewMatchRecordResponse converts a stored audit entry.
func NewMatchRecordResponse(record *storage.MatchRecord) MatchRecordResponse {
	return MatchRecordResponse{
		ID:            record.ID,
		TransactionID: record.TransactionID,
		PaymentID:     record.PaymentID,
		Confidence:    record.Confidence,
		MatchType:     record.MatchType,
		Reason:        record.Reason,
		MatchedFields: record.MatchedFields,
		AmountDiff:    record.AmountDiff.String(),
		Outcome:       record.Outcome,
		CreatedAt:     record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MatchListResponse is returned when listing audit entries.
type MatchListResponse struct {
	Matches []MatchRecordResponse `json:"matches"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

// StatsResponse summarizes the audit trail by outcome.
type StatsResponse struct {
	Outcomes map[string]int `json:"outcomes"`
	Total    int            `json:"total"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID          string `json:"id"`
	AmountDue   string `json:"amount_due"`
	DueDate     string `json:"due_date"`
	IBAN        string `json:"iban,omitempty"`
	Description string `json:"description,omitempty"`
	Settled     bool   `json:"settled"`
}

// NewPaymentResponse converts a domain payment.
func NewPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		AmountDue:   p.AmountDue.String(),
		DueDate:     p.DueDate.UTC().Format(dateLayout),
		IBAN:        p.IBAN,
		Description: p.Description,
		Settled:     p.Settled,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID           string `json:"id"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Description  string `json:"description,omitempty"`
	Reference    string `json:"reference,omitempty"`
	Counterparty string `json:"counterparty,omitempty"`
	IBAN         string `json:"iban,omitempty"`
}

// NewTransactionResponse converts a domain transaction.
func NewTransactionResponse(tx *model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Amount:       tx.Amount.String(),
		Date:         tx.Date.UTC().Format(dateLayout),
		Description:  tx.Description,
		Reference:    tx.Reference,
		Counterparty: tx.Counterparty,
		IBAN:         tx.IBAN,
	}
}

// CountryFormatResponse describes one supported IBAN country format.
type CountryFormatResponse struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Length      int    `json:"length"`
	Example     string `json:"example"`
}

// NewCountryFormatResponse converts a registry format entry.
func NewCountryFormatResponse(f iban.Format) CountryFormatResponse {
	return CountryFormatResponse{
		CountryCode: f.CountryCode,
		CountryName: f.CountryName,
		Length:      f.Length,
		Example:     f.Example,
	}
}
