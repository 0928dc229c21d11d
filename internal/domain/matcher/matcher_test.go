package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// Shared test helpers for the matcher package.

func date(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func makeTransaction(amt string, day int, description string) *model.Transaction {
	tx := model.NewTransaction(amount(amt), date(day), description)
	return &tx
}

func makePayment(id, amt string, day int, description string) *model.Payment {
	return &model.Payment{
		ID:          id,
		AmountDue:   amount(amt),
		DueDate:     date(day),
		Description: description,
	}
}

func TestNewConfidence_Bounds(t *testing.T) {
	for _, v := range []float64{0.0, 0.5, 1.0} {
		c, err := NewConfidence(v)
		if err != nil {
			t.Fatalf("NewConfidence(%v) unexpected error: %v", v, err)
		}
		if c.Float64() != v {
			t.Fatalf("NewConfidence(%v) = %v", v, c)
		}
	}
	for _, v := range []float64{-0.01, 1.01, 2.0} {
		if _, err := NewConfidence(v); err == nil {
			t.Fatalf("NewConfidence(%v) expected error", v)
		}
	}
}

func TestNewMatchResult_RejectsOutOfRangeConfidence(t *testing.T) {
	tx := makeTransaction("100.00", 15, "test")
	payment := makePayment("p1", "100.00", 15, "")

	if _, err := NewMatchResult(tx, payment, 1.5, MatchTypeExact, "bad", nil); err == nil {
		t.Fatal("expected validation error for confidence 1.5")
	}
	if _, err := NewMatchResult(tx, payment, -0.1, MatchTypeExact, "bad", nil); err == nil {
		t.Fatal("expected validation error for confidence -0.1")
	}
}
