// Package matcher decides which outstanding payments a bank transaction
// most likely settles.
//
// Four independent strategies (exact amount, date window, fuzzy text,
// IBAN extraction) implement the Strategy interface. CompositeMatcher
// runs them concurrently and merges their results into one ranked list.
//
// Example usage:
//
//	composite, err := matcher.NewComposite(matcher.DefaultConfig(), logger)
//	if err != nil { ... }
//	results := composite.Match(tx, candidates)
package matcher

import "github.com/ledgermatch/ledgermatch/internal/domain/model"

// Strategy evaluates one transaction against a candidate set. A strategy
// must not mutate its inputs; an error means the strategy as a whole
// failed and contributed nothing.
type Strategy interface {
	Name() string
	Match(tx *model.Transaction, candidates []*model.Payment) ([]MatchResult, error)
}
