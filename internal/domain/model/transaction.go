// Package model defines the core value types the matching engine operates
// on: bank transactions and outstanding payments.
//
// Both types are read-only inputs to matching. Amounts are decimals, never
// floats, so cent-level comparisons are exact.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single bank statement line. Positive amounts are
// incoming funds, negative amounts outgoing.
type Transaction struct {
	ID           string
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	Reference    string // optional memo / end-to-end reference
	Counterparty string // optional counterparty name
	IBAN         string // optional counterparty account identifier
}

// NewTransaction creates a transaction with a generated ID.
func NewTransaction(amount decimal.Decimal, date time.Time, description string) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        date,
		Description: description,
	}
}

// AbsAmount returns the unsigned transaction amount. Matching always
// compares magnitudes; direction is the caller's concern.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// TextFields returns the free-text fields available for fuzzy matching,
// keyed by field name. Empty fields are omitted.
func (t Transaction) TextFields() map[string]string {
	fields := make(map[string]string, 3)
	if t.Description != "" {
		fields["description"] = t.Description
	}
	if t.Reference != "" {
		fields["reference"] = t.Reference
	}
	if t.Counterparty != "" {
		fields["counterparty"] = t.Counterparty
	}
	return fields
}
