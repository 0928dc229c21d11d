package matcher

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// ExactAmountMatcher returns candidates whose amount due equals the
// transaction amount within one cent. Every hit carries confidence 1.0.
type ExactAmountMatcher struct {
	// WindowDays excludes candidates whose due date is further away than
	// this many days. Zero means unrestricted.
	WindowDays int
}

// NewExactAmountMatcher creates the strategy with no date restriction.
func NewExactAmountMatcher() *ExactAmountMatcher {
	return &ExactAmountMatcher{}
}

// Name implements Strategy.
func (m *ExactAmountMatcher) Name() string { return "exact-amount" }

// Match implements Strategy. Comparison uses exact decimal arithmetic, so
// 1000.00 against 1000.00 can never miss on rounding.
func (m *ExactAmountMatcher) Match(tx *model.Transaction, candidates []*model.Payment) ([]MatchResult, error) {
	txAmount := tx.AbsAmount()

	var results []MatchResult
	for _, candidate := range candidates {
		if m.WindowDays > 0 && daysBetween(tx.Date, candidate.DueDate) > m.WindowDays {
			continue
		}
		if !withinCent(txAmount, candidate.AmountDue) {
			continue
		}

		reason := fmt.Sprintf("amount %s matches amount due exactly", txAmount.StringFixed(2))
		result, err := NewMatchResult(tx, candidate, 1.0, MatchTypeExact, reason, []string{"amount"})
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
