package service

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/config"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		Matcher: config.MatcherConfig{
			Mode:          "weighted",
			Weights:       config.WeightsConfig{Amount: 0.4, Date: 0.3, Description: 0.3},
			WindowDays:    30,
			MinConfidence: 0.6,
			MinSimilarity: 85,
		},
		Reconcile: config.ReconcileConfig{
			LookbackDays:   30,
			AutoApplyAbove: 0.95,
			ReviewAbove:    0.6,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func makeTx(id, amount string, d int, desc string) *model.Transaction {
	return &model.Transaction{
		ID:          id,
		Amount:      decimal.RequireFromString(amount),
		Date:        day(d),
		Description: desc,
	}
}

func makeDue(id, amount string, d int, desc string) *model.Payment {
	return &model.Payment{
		ID:          id,
		AmountDue:   decimal.RequireFromString(amount),
		DueDate:     day(d),
		Description: desc,
	}
}

func newTestService(t *testing.T, repo storage.Repository) *ReconcileService {
	t.Helper()
	svc, err := NewReconcileService(testConfig(), repo, testLogger())
	require.NoError(t, err)
	return svc
}

func TestNewReconcileService_RejectsUnknownMode(t *testing.T) {
	cfg := testConfig()
	cfg.Matcher.Mode = "majority-vote"

	_, err := NewReconcileService(cfg, storage.NewMockRepository(), testLogger())

	assert.Error(t, err)
}

func TestNewReconcileService_RejectsInvertedThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.Reconcile.AutoApplyAbove = 0.5
	cfg.Reconcile.ReviewAbove = 0.9

	_, err := NewReconcileService(cfg, storage.NewMockRepository(), testLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto apply threshold")
}

func TestNewReconcileService_RejectsZeroLookback(t *testing.T) {
	cfg := testConfig()
	cfg.Reconcile.LookbackDays = 0

	_, err := NewReconcileService(cfg, storage.NewMockRepository(), testLogger())

	assert.Error(t, err)
}

func TestMatchTransaction_AutoAppliesStrongMatch(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SavePayment(makeDue("p1", "100.00", 15, "acme corp invoice 12345")))
	svc := newTestService(t, repo)

	result, err := svc.MatchTransaction(makeTx("tx-1", "-100.00", 15, "acme corp invoice 12345"))

	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, storage.OutcomeAutoApplied, result.Matches[0].Outcome)

	// The payment is settled and the pairing is on the audit trail.
	p, err := repo.GetPayment("p1")
	require.NoError(t, err)
	assert.True(t, p.Settled)

	records, err := repo.ListMatches(storage.MatchFilters{TransactionID: "tx-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, storage.OutcomeAutoApplied, records[0].Outcome)
}

func TestMatchTransaction_QueuesWeakMatchForReview(t *testing.T) {
	repo := storage.NewMockRepository()
	// Exact amount and date but no description text: score 0.70.
	require.NoError(t, repo.SavePayment(makeDue("p1", "100.00", 15, "")))
	svc := newTestService(t, repo)

	result, err := svc.MatchTransaction(makeTx("tx-1", "-100.00", 15, "wire transfer"))

	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, storage.OutcomeReview, result.Matches[0].Outcome)

	p, err := repo.GetPayment("p1")
	require.NoError(t, err)
	assert.False(t, p.Settled, "review matches must not settle the payment")
}

func TestMatchTransaction_OnlyTopMatchAutoApplies(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SavePayment(makeDue("strong", "100.00", 15, "acme corp invoice 12345")))
	require.NoError(t, repo.SavePayment(makeDue("weak", "100.00", 15, "")))
	svc := newTestService(t, repo)

	result, err := svc.MatchTransaction(makeTx("tx-1", "-100.00", 15, "acme corp invoice 12345"))

	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "strong", result.Matches[0].Result.Payment.ID)
	assert.Equal(t, storage.OutcomeAutoApplied, result.Matches[0].Outcome)
	assert.Equal(t, storage.OutcomeReview, result.Matches[1].Outcome)

	weak, err := repo.GetPayment("weak")
	require.NoError(t, err)
	assert.False(t, weak.Settled)
}

func TestMatchTransaction_IgnoresPaymentsOutsideLookback(t *testing.T) {
	repo := storage.NewMockRepository()
	far := makeDue("far", "100.00", 15, "")
	far.DueDate = day(15).AddDate(0, 2, 0)
	require.NoError(t, repo.SavePayment(far))
	svc := newTestService(t, repo)

	result, err := svc.MatchTransaction(makeTx("tx-1", "-100.00", 15, ""))

	require.NoError(t, err)
	assert.Zero(t, result.Candidates)
	assert.Empty(t, result.Matches)
}

func TestMatchTransaction_PersistsTheTransaction(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(t, repo)

	_, err := svc.MatchTransaction(makeTx("tx-1", "-42.00", 15, ""))

	require.NoError(t, err)
	tx, err := repo.GetTransaction("tx-1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
}

func TestMatchTransaction_RequiresID(t *testing.T) {
	svc := newTestService(t, storage.NewMockRepository())

	_, err := svc.MatchTransaction(makeTx("", "-42.00", 15, ""))

	assert.Error(t, err)
}

func TestMatchTransaction_PropagatesAuditFailure(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.SaveMatchErr = errors.New("disk full")
	require.NoError(t, repo.SavePayment(makeDue("p1", "100.00", 15, "")))
	svc := newTestService(t, repo)

	_, err := svc.MatchTransaction(makeTx("tx-1", "-100.00", 15, ""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record match")
}

func TestEvaluate_DoesNotTouchStorage(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(t, repo)
	candidate := makeDue("p1", "100.00", 15, "")

	results := svc.Evaluate(makeTx("tx-1", "-100.00", 15, ""), []*model.Payment{candidate})

	require.Len(t, results, 1)
	assert.False(t, candidate.Settled)

	_, err := repo.GetTransaction("tx-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	records, err := repo.ListMatches(storage.MatchFilters{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
