package matcher

import (
	"fmt"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/domain/iban"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// IBANMatcher extracts account identifiers from transaction text and
// matches them against candidate payment IBANs across all cataloged
// countries.
//
// A bare IBAN hit starts at 0.90 confidence and is boosted toward a 0.95
// ceiling when amount and due date also line up.
type IBANMatcher struct {
	// WindowDays bounds how far a due date may drift (default 30).
	WindowDays int
}

// NewIBANMatcher creates the strategy with the default window.
func NewIBANMatcher() *IBANMatcher {
	return &IBANMatcher{WindowDays: 30}
}

// Name implements Strategy.
func (m *IBANMatcher) Name() string { return "iban" }

const (
	ibanBaseConfidence = 0.90
	ibanCeiling        = 0.95
)

// Match implements Strategy. Candidates without an identifier, or with an
// identifier that fails registry validation, are skipped silently;
// malformed text simply produces no extractions.
func (m *IBANMatcher) Match(tx *model.Transaction, candidates []*model.Payment) ([]MatchResult, error) {
	extracted := make(map[string]bool)
	for _, text := range []string{tx.Description, tx.Reference, tx.IBAN} {
		for _, found := range iban.Extract(text) {
			extracted[found] = true
		}
	}
	if len(extracted) == 0 {
		return nil, nil
	}

	txAmount := tx.AbsAmount()

	var results []MatchResult
	for _, candidate := range candidates {
		if candidate.IBAN == "" {
			continue
		}
		normalized := iban.Normalize(candidate.IBAN)
		if !iban.ValidateLength(normalized) {
			continue
		}
		if !extracted[normalized] {
			continue
		}
		if daysBetween(tx.Date, candidate.DueDate) > m.WindowDays {
			continue
		}

		confidence := ibanBaseConfidence
		matchedFields := []string{"iban"}
		var boosts []string

		switch {
		case withinCent(txAmount, candidate.AmountDue):
			confidence += 0.05
			matchedFields = append(matchedFields, "amount")
			boosts = append(boosts, "exact amount")
		case withinPercent(txAmount, candidate.AmountDue, 5):
			confidence += 0.02
			matchedFields = append(matchedFields, "amount")
			boosts = append(boosts, "close amount")
		}

		switch days := daysBetween(tx.Date, candidate.DueDate); {
		case days == 0:
			confidence += 0.05
			matchedFields = append(matchedFields, "date")
			boosts = append(boosts, "same-day due date")
		case days <= 3:
			confidence += 0.02
			matchedFields = append(matchedFields, "date")
			boosts = append(boosts, "due date within 3 days")
		}

		if confidence > ibanCeiling {
			confidence = ibanCeiling
		}

		reason := fmt.Sprintf("IBAN %s found in transaction text", normalized)
		if len(boosts) > 0 {
			reason += " (" + strings.Join(boosts, ", ") + ")"
		}
		result, err := NewMatchResult(tx, candidate, confidence, MatchTypeIBAN, reason, matchedFields)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
