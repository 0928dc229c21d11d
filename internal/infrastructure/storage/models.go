package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// Match outcomes recorded in the audit trail.
const (
	OutcomeAutoApplied = "auto_applied"
	OutcomeReview      = "review"
	OutcomeDiscarded   = "discarded"
)

// MatchRecord is the persisted audit entry for one transaction/payment
// pairing produced by the matching engine.
type MatchRecord struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	PaymentID     string          `json:"payment_id"`
	Confidence    float64         `json:"confidence"`
	MatchType     string          `json:"match_type"`
	Reason        string          `json:"reason"`
	MatchedFields []string        `json:"matched_fields,omitempty"`
	AmountDiff    decimal.Decimal `json:"amount_diff"`
	Outcome       string          `json:"outcome"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MatchFilters defines filters for listing match records
type MatchFilters struct {
	TransactionID string // Filter by transaction (empty = all)
	Outcome       string // Filter by outcome (empty = all)
	Limit         int    // Max results (0 = default 50)
	Offset        int    // Pagination offset
}
