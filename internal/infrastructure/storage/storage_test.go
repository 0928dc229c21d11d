package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testDate(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestStorage_SaveAndGetTransaction(t *testing.T) {
	store := newTestStorage(t)

	tx := &model.Transaction{
		ID:           "tx-1",
		Amount:       decimal.RequireFromString("-149.99"),
		Date:         testDate(10),
		Description:  "BONIFICO MARIO ROSSI",
		Reference:    "INV-2025-001",
		Counterparty: "Mario Rossi",
		IBAN:         "IT60X0542811101000000123456",
	}
	require.NoError(t, store.SaveTransaction(tx))

	retrieved, err := store.GetTransaction("tx-1")

	require.NoError(t, err)
	assert.Equal(t, "tx-1", retrieved.ID)
	assert.True(t, retrieved.Amount.Equal(tx.Amount), "amount %s", retrieved.Amount)
	assert.True(t, retrieved.Date.Equal(tx.Date))
	assert.Equal(t, "BONIFICO MARIO ROSSI", retrieved.Description)
	assert.Equal(t, "INV-2025-001", retrieved.Reference)
	assert.Equal(t, "IT60X0542811101000000123456", retrieved.IBAN)
}

func TestStorage_GetTransaction_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTransaction("missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListTransactions_NewestFirst(t *testing.T) {
	store := newTestStorage(t)
	for day := 1; day <= 3; day++ {
		require.NoError(t, store.SaveTransaction(&model.Transaction{
			ID:     string(rune('a' + day - 1)),
			Amount: decimal.RequireFromString("10.00"),
			Date:   testDate(day),
		}))
	}

	txs, err := store.ListTransactions(2)

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "c", txs[0].ID)
	assert.Equal(t, "b", txs[1].ID)
}

func TestStorage_ListOpenPayments(t *testing.T) {
	store := newTestStorage(t)

	inWindow := &model.Payment{
		ID:        "in-window",
		AmountDue: decimal.RequireFromString("100.00"),
		DueDate:   testDate(12),
	}
	outOfWindow := &model.Payment{
		ID:        "out-of-window",
		AmountDue: decimal.RequireFromString("100.00"),
		DueDate:   testDate(12).AddDate(0, 2, 0),
	}
	settled := &model.Payment{
		ID:        "settled",
		AmountDue: decimal.RequireFromString("100.00"),
		DueDate:   testDate(11),
		Settled:   true,
	}
	for _, p := range []*model.Payment{inWindow, outOfWindow, settled} {
		require.NoError(t, store.SavePayment(p))
	}

	payments, err := store.ListOpenPayments(testDate(10), 30)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "in-window", payments[0].ID)
	assert.True(t, payments[0].AmountDue.Equal(inWindow.AmountDue))
}

func TestStorage_ListOpenPayments_OrderedByDueDate(t *testing.T) {
	store := newTestStorage(t)
	for _, p := range []*model.Payment{
		{ID: "later", AmountDue: decimal.RequireFromString("5.00"), DueDate: testDate(20)},
		{ID: "earlier", AmountDue: decimal.RequireFromString("5.00"), DueDate: testDate(5)},
	} {
		require.NoError(t, store.SavePayment(p))
	}

	payments, err := store.ListOpenPayments(testDate(10), 30)

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "earlier", payments[0].ID)
	assert.Equal(t, "later", payments[1].ID)
}

func TestStorage_MarkPaymentSettled(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.SavePayment(&model.Payment{
		ID:        "p1",
		AmountDue: decimal.RequireFromString("50.00"),
		DueDate:   testDate(10),
	}))

	require.NoError(t, store.MarkPaymentSettled("p1"))

	p, err := store.GetPayment("p1")
	require.NoError(t, err)
	assert.True(t, p.Settled)

	assert.ErrorIs(t, store.MarkPaymentSettled("missing"), ErrNotFound)
}

func TestStorage_SaveAndListMatches(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.SaveTransaction(&model.Transaction{
		ID:     "tx-1",
		Amount: decimal.RequireFromString("100.00"),
		Date:   testDate(10),
	}))
	require.NoError(t, store.SavePayment(&model.Payment{
		ID:        "p1",
		AmountDue: decimal.RequireFromString("100.00"),
		DueDate:   testDate(10),
	}))

	record := &MatchRecord{
		TransactionID: "tx-1",
		PaymentID:     "p1",
		Confidence:    0.95,
		MatchType:     "composite",
		Reason:        "weighted score: amount 1.00, date 1.00, description 0.85",
		MatchedFields: []string{"amount", "date"},
		AmountDiff:    decimal.RequireFromString("0.00"),
		Outcome:       OutcomeAutoApplied,
	}
	require.NoError(t, store.SaveMatch(record))
	assert.NotZero(t, record.ID)

	records, err := store.ListMatches(MatchFilters{TransactionID: "tx-1"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PaymentID)
	assert.Equal(t, 0.95, records[0].Confidence)
	assert.Equal(t, []string{"amount", "date"}, records[0].MatchedFields)
	assert.Equal(t, OutcomeAutoApplied, records[0].Outcome)
	assert.True(t, records[0].AmountDiff.Equal(record.AmountDiff))
}

func TestStorage_ListMatches_FiltersByOutcome(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.SaveTransaction(&model.Transaction{
		ID:     "tx-1",
		Amount: decimal.RequireFromString("100.00"),
		Date:   testDate(10),
	}))
	require.NoError(t, store.SavePayment(&model.Payment{
		ID:        "p1",
		AmountDue: decimal.RequireFromString("100.00"),
		DueDate:   testDate(10),
	}))

	for _, outcome := range []string{OutcomeAutoApplied, OutcomeReview, OutcomeReview} {
		require.NoError(t, store.SaveMatch(&MatchRecord{
			TransactionID: "tx-1",
			PaymentID:     "p1",
			Confidence:    0.7,
			MatchType:     "composite",
			Outcome:       outcome,
		}))
	}

	records, err := store.ListMatches(MatchFilters{Outcome: OutcomeReview})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	counts, err := store.CountMatchesByOutcome()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[OutcomeAutoApplied])
	assert.Equal(t, 2, counts[OutcomeReview])
}

func TestStorage_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, first.SavePayment(&model.Payment{
		ID:        "p1",
		AmountDue: decimal.RequireFromString("10.00"),
		DueDate:   testDate(10),
	}))
	require.NoError(t, first.Close())

	// Reopening must not re-run applied migrations or lose data.
	second, err := NewStorage(path)
	require.NoError(t, err)
	defer second.Close()

	p, err := second.GetPayment("p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}
