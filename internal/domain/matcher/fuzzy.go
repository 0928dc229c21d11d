package matcher

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// FuzzyStringMatcher compares transaction text fields against candidate
// descriptions with Levenshtein similarity on a 0-100 scale.
//
// Candidates are pre-filtered to a date window and amount tolerance
// before any text is compared, keeping the O(candidates * text length)
// scoring bounded.
type FuzzyStringMatcher struct {
	// WindowDays bounds how far a due date may drift (default 14).
	WindowDays int
	// AmountTolerancePct is the relative amount gap allowed (default 5).
	AmountTolerancePct int64
	// MinSimilarity drops candidates scoring below this 0-100 threshold
	// (default 85).
	MinSimilarity float64
}

// NewFuzzyStringMatcher creates the strategy with defaults, failing on an
// out-of-range similarity threshold.
func NewFuzzyStringMatcher(minSimilarity float64) (*FuzzyStringMatcher, error) {
	if minSimilarity < 0 || minSimilarity > 100 {
		return nil, fmt.Errorf("minimum similarity %v outside [0, 100]", minSimilarity)
	}
	return &FuzzyStringMatcher{
		WindowDays:         14,
		AmountTolerancePct: 5,
		MinSimilarity:      minSimilarity,
	}, nil
}

// Name implements Strategy.
func (m *FuzzyStringMatcher) Name() string { return "fuzzy-text" }

// Match implements Strategy. For each candidate the similarity of every
// available transaction field against the candidate text is computed; the
// best field drives the confidence, all qualifying fields are reported.
func (m *FuzzyStringMatcher) Match(tx *model.Transaction, candidates []*model.Payment) ([]MatchResult, error) {
	txFields := make(map[string]string)
	for name, value := range tx.TextFields() {
		if normalized := normalizeText(value); normalized != "" {
			txFields[name] = normalized
		}
	}
	if len(txFields) == 0 {
		return nil, nil
	}

	txAmount := tx.AbsAmount()

	var results []MatchResult
	for _, candidate := range candidates {
		if daysBetween(tx.Date, candidate.DueDate) > m.WindowDays {
			continue
		}
		if !withinPercent(txAmount, candidate.AmountDue, m.AmountTolerancePct) {
			continue
		}
		candidateText := normalizeText(candidate.Description)
		if candidateText == "" {
			continue
		}

		bestField, bestSim := "", 0.0
		var matchedFields []string
		for _, name := range [...]string{"description", "reference", "counterparty"} {
			value, ok := txFields[name]
			if !ok {
				continue
			}
			sim := similarity(value, candidateText)
			if sim >= m.MinSimilarity {
				matchedFields = append(matchedFields, name)
			}
			if sim > bestSim {
				bestField, bestSim = name, sim
			}
		}
		if bestSim < m.MinSimilarity {
			continue
		}

		reason := fmt.Sprintf("%s is %.0f%% similar to payment text", bestField, bestSim)
		result, err := NewMatchResult(tx, candidate, similarityStep(bestSim), MatchTypeFuzzy, reason, matchedFields)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// similarity returns a 0-100 Levenshtein ratio between two normalized
// strings.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions) * 100
}

// similarityStep maps a 0-100 similarity onto the confidence scale.
func similarityStep(sim float64) float64 {
	switch {
	case sim >= 95:
		return 0.95
	case sim >= 90:
		return 0.90
	case sim >= 85:
		return 0.85
	case sim >= 80:
		return 0.80
	case sim >= 75:
		return 0.75
	default:
		return 0.70
	}
}

// normalizeText lower-cases, strips punctuation and collapses whitespace
// so "BONIFICO: Mario-Rossi" and "bonifico mario rossi" compare equal.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
