// Package service wires the matching engine to persistence and applies
// the reconciliation policy: strong matches settle payments automatically,
// weaker ones are queued for manual review.
package service

import (
	"fmt"
	"log/slog"

	"github.com/ledgermatch/ledgermatch/internal/domain/matcher"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/config"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

// ReviewedMatch pairs one engine result with its reconciliation outcome.
type ReviewedMatch struct {
	Result  matcher.MatchResult
	Outcome string
}

// ReconcileResult is the full outcome of reconciling one transaction.
type ReconcileResult struct {
	Transaction *model.Transaction
	Candidates  int
	Matches     []ReviewedMatch
}

// ReconcileService runs incoming transactions through the matching engine
// and records every considered pairing in the audit trail.
type ReconcileService struct {
	policy config.ReconcileConfig
	repo   storage.Repository
	engine *matcher.Composite
	logger *slog.Logger
}

// NewReconcileService builds the matching engine from config and validates
// the reconciliation policy.
func NewReconcileService(cfg *config.Config, repo storage.Repository, logger *slog.Logger) (*ReconcileService, error) {
	engine, err := BuildEngine(cfg.Matcher, logger)
	if err != nil {
		return nil, err
	}

	policy := cfg.Reconcile
	if policy.AutoApplyAbove < policy.ReviewAbove {
		return nil, fmt.Errorf("auto apply threshold %v below review threshold %v",
			policy.AutoApplyAbove, policy.ReviewAbove)
	}
	if policy.LookbackDays <= 0 {
		return nil, fmt.Errorf("lookback days must be positive, got %d", policy.LookbackDays)
	}

	return &ReconcileService{
		policy: policy,
		repo:   repo,
		engine: engine,
		logger: logger,
	}, nil
}

// BuildEngine constructs the composite matcher with the full strategy set
// from configuration.
func BuildEngine(mc config.MatcherConfig, logger *slog.Logger) (*matcher.Composite, error) {
	fuzzy, err := matcher.NewFuzzyStringMatcher(mc.MinSimilarity)
	if err != nil {
		return nil, err
	}

	cfg := matcher.Config{
		Mode: matcher.Mode(mc.Mode),
		Weights: matcher.Weights{
			Amount:      mc.Weights.Amount,
			Date:        mc.Weights.Date,
			Description: mc.Weights.Description,
		},
		WindowDays:    mc.WindowDays,
		MinConfidence: mc.MinConfidence,
	}

	return matcher.NewComposite(cfg, logger,
		matcher.NewExactAmountMatcher(),
		matcher.NewDateWindowMatcher(),
		fuzzy,
		matcher.NewIBANMatcher(),
	)
}

// MatchTransaction persists the transaction, matches it against open
// payments due near its date and records every pairing. The strongest
// match settles its payment when it clears the auto apply threshold.
func (s *ReconcileService) MatchTransaction(tx *model.Transaction) (*ReconcileResult, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	if tx.ID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	if err := s.repo.SaveTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	candidates, err := s.repo.ListOpenPayments(tx.Date, s.policy.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load open payments: %w", err)
	}

	results := s.engine.Match(tx, candidates)

	outcome := &ReconcileResult{
		Transaction: tx,
		Candidates:  len(candidates),
		Matches:     make([]ReviewedMatch, 0, len(results)),
	}

	for i, result := range results {
		band := s.classify(result.Confidence.Float64(), i == 0)

		if band == storage.OutcomeAutoApplied {
			if err := s.repo.MarkPaymentSettled(result.Payment.ID); err != nil {
				return nil, fmt.Errorf("failed to settle payment %s: %w", result.Payment.ID, err)
			}
		}

		record := &storage.MatchRecord{
			TransactionID: tx.ID,
			PaymentID:     result.Payment.ID,
			Confidence:    result.Confidence.Float64(),
			MatchType:     string(result.Type),
			Reason:        result.Reason,
			MatchedFields: result.MatchedFields,
			AmountDiff:    result.AmountDiff,
			Outcome:       band,
		}
		if err := s.repo.SaveMatch(record); err != nil {
			return nil, fmt.Errorf("failed to record match: %w", err)
		}

		outcome.Matches = append(outcome.Matches, ReviewedMatch{Result: result, Outcome: band})
	}

	s.logger.Info("transaction reconciled",
		"transaction_id", tx.ID,
		"candidates", len(candidates),
		"matches", len(results),
	)

	return outcome, nil
}

// Evaluate runs the engine against caller-supplied candidates without
// touching storage. Useful for dry runs and what-if requests.
func (s *ReconcileService) Evaluate(tx *model.Transaction, candidates []*model.Payment) []matcher.MatchResult {
	return s.engine.Match(tx, candidates)
}

// classify maps a confidence onto a reconciliation outcome. Only the
// strongest match may auto apply; everything else is at most a review.
func (s *ReconcileService) classify(confidence float64, top bool) string {
	switch {
	case top && confidence >= s.policy.AutoApplyAbove:
		return storage.OutcomeAutoApplied
	case confidence >= s.policy.ReviewAbove:
		return storage.OutcomeReview
	default:
		return storage.OutcomeDiscarded
	}
}
