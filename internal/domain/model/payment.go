package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an outstanding payment a transaction may settle. Many
// payments are evaluated as candidates against one transaction.
type Payment struct {
	ID          string
	AmountDue   decimal.Decimal
	DueDate     time.Time
	IBAN        string // optional debtor account identifier
	Description string // optional invoice / order text used for fuzzy matching
	Settled     bool
}

// NewPayment creates a payment with a generated ID.
func NewPayment(amountDue decimal.Decimal, dueDate time.Time, description string) Payment {
	return Payment{
		ID:          uuid.NewString(),
		AmountDue:   amountDue,
		DueDate:     dueDate,
		Description: description,
	}
}
