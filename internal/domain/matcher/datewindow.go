package matcher

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// DateWindowMatcher scores candidates on amount and date proximity using
// the shared step scales. It accepts near misses the exact matcher
// rejects, at proportionally lower confidence.
type DateWindowMatcher struct {
	// WindowDays bounds how far a due date may drift. Zero falls back to
	// the 14-day reach of the date step scale.
	WindowDays int
}

// NewDateWindowMatcher creates the strategy with the default window.
func NewDateWindowMatcher() *DateWindowMatcher {
	return &DateWindowMatcher{WindowDays: 14}
}

// Name implements Strategy.
func (m *DateWindowMatcher) Name() string { return "date-window" }

// Match implements Strategy. A candidate qualifies only when both the
// amount and the date land on their step scales; the confidence is the
// mean of the two step scores.
func (m *DateWindowMatcher) Match(tx *model.Transaction, candidates []*model.Payment) ([]MatchResult, error) {
	window := m.WindowDays
	if window <= 0 {
		window = 14
	}
	txAmount := tx.AbsAmount()

	var results []MatchResult
	for _, candidate := range candidates {
		if daysBetween(tx.Date, candidate.DueDate) > window {
			continue
		}

		aScore := amountScore(txAmount, candidate.AmountDue)
		dScore := dateScore(tx.Date, candidate.DueDate)
		if aScore == 0 || dScore == 0 {
			continue
		}

		confidence := (aScore + dScore) / 2
		reason := fmt.Sprintf("amount score %.2f, date score %.2f (%d days apart)",
			aScore, dScore, daysBetween(tx.Date, candidate.DueDate))
		result, err := NewMatchResult(tx, candidate, confidence, MatchTypeDateWindow, reason, []string{"amount", "date"})
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
