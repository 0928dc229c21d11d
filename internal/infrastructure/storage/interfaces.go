package storage

import (
	"time"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	TransactionRepository
	PaymentRepository
	MatchRepository
	Close() error
}

// TransactionRepository handles bank transaction persistence
type TransactionRepository interface {
	// SaveTransaction saves or updates a transaction
	SaveTransaction(tx *model.Transaction) error

	// GetTransaction retrieves a transaction by ID
	GetTransaction(id string) (*model.Transaction, error)

	// ListTransactions returns the most recently ingested transactions
	ListTransactions(limit int) ([]*model.Transaction, error)
}

// PaymentRepository handles expected payment persistence
type PaymentRepository interface {
	// SavePayment saves or updates an expected payment
	SavePayment(p *model.Payment) error

	// GetPayment retrieves a payment by ID
	GetPayment(id string) (*model.Payment, error)

	// ListOpenPayments returns unsettled payments whose due date falls
	// within lookbackDays on either side of the anchor date, ordered by
	// due date then ID
	ListOpenPayments(anchor time.Time, lookbackDays int) ([]*model.Payment, error)

	// MarkPaymentSettled flags a payment as settled
	MarkPaymentSettled(id string) error
}

// MatchRepository handles the match audit trail
type MatchRepository interface {
	// SaveMatch persists an audit entry and assigns its ID
	SaveMatch(record *MatchRecord) error

	// ListMatches returns audit entries matching the given filters,
	// newest first
	ListMatches(filters MatchFilters) ([]*MatchRecord, error)

	// CountMatchesByOutcome returns audit entry counts grouped by outcome
	CountMatchesByOutcome() (map[string]int, error)
}
