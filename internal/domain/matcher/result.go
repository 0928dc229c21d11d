package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// MatchType tags which strategy produced a result.
type MatchType string

const (
	MatchTypeExact      MatchType = "exact"
	MatchTypeFuzzy      MatchType = "fuzzy"
	MatchTypeIBAN       MatchType = "iban"
	MatchTypeDateWindow MatchType = "date-window"
	MatchTypeComposite  MatchType = "composite"
)

// MatchResult links one transaction to one candidate payment with a
// bounded confidence score. Transaction and Payment are references to the
// caller's entities, not copies the result owns.
type MatchResult struct {
	Transaction   *model.Transaction
	Payment       *model.Payment
	Confidence    Confidence
	Type          MatchType
	Reason        string
	MatchedFields []string
	AmountDiff    decimal.Decimal
}

// NewMatchResult builds a result, rejecting out-of-range confidence.
func NewMatchResult(tx *model.Transaction, payment *model.Payment, confidence float64, matchType MatchType, reason string, matchedFields []string) (MatchResult, error) {
	c, err := NewConfidence(confidence)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{
		Transaction:   tx,
		Payment:       payment,
		Confidence:    c,
		Type:          matchType,
		Reason:        reason,
		MatchedFields: matchedFields,
		AmountDiff:    tx.AbsAmount().Sub(payment.AmountDue).Abs(),
	}, nil
}
