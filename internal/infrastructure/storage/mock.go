package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// MockRepository is an in-memory Repository implementation for tests.
type MockRepository struct {
	mu           sync.Mutex
	transactions map[string]*model.Transaction
	payments     map[string]*model.Payment
	matches      []*MatchRecord
	nextMatchID  int64

	// SaveMatchErr, when set, is returned by SaveMatch to simulate
	// persistence failures.
	SaveMatchErr error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[string]*model.Transaction),
		payments:     make(map[string]*model.Payment),
		nextMatchID:  1,
	}
}

// Close is a no-op
func (m *MockRepository) Close() error {
	return nil
}

// SaveTransaction stores a transaction
func (m *MockRepository) SaveTransaction(tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
	return nil
}

// GetTransaction retrieves a transaction by ID
func (m *MockRepository) GetTransaction(id string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

// ListTransactions returns stored transactions, newest first
func (m *MockRepository) ListTransactions(limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}

	txs := make([]*model.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		txs = append(txs, tx)
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})

	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// SavePayment stores a payment
func (m *MockRepository) SavePayment(p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	return nil
}

// GetPayment retrieves a payment by ID
func (m *MockRepository) GetPayment(id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListOpenPayments returns unsettled payments due within the window
func (m *MockRepository) ListOpenPayments(anchor time.Time, lookbackDays int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := anchor.UTC().AddDate(0, 0, -lookbackDays)
	to := anchor.UTC().AddDate(0, 0, lookbackDays)

	var payments []*model.Payment
	for _, p := range m.payments {
		if p.Settled {
			continue
		}
		due := p.DueDate.UTC()
		if due.Before(from) || due.After(to) {
			continue
		}
		payments = append(payments, p)
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].DueDate.Equal(payments[j].DueDate) {
			return payments[i].DueDate.Before(payments[j].DueDate)
		}
		return payments[i].ID < payments[j].ID
	})

	return payments, nil
}

// MarkPaymentSettled flags a payment as settled
func (m *MockRepository) MarkPaymentSettled(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Settled = true
	return nil
}

// SaveMatch appends an audit entry
func (m *MockRepository) SaveMatch(record *MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveMatchErr != nil {
		return m.SaveMatchErr
	}

	record.ID = m.nextMatchID
	m.nextMatchID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	m.matches = append(m.matches, record)
	return nil
}

// ListMatches returns audit entries matching the filters, newest first
func (m *MockRepository) ListMatches(filters MatchFilters) ([]*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	var records []*MatchRecord
	for i := len(m.matches) - 1; i >= 0; i-- {
		record := m.matches[i]
		if filters.TransactionID != "" && record.TransactionID != filters.TransactionID {
			continue
		}
		if filters.Outcome != "" && record.Outcome != filters.Outcome {
			continue
		}
		records = append(records, record)
	}

	if filters.Offset > 0 {
		if filters.Offset >= len(records) {
			return nil, nil
		}
		records = records[filters.Offset:]
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// CountMatchesByOutcome returns audit entry counts grouped by outcome
func (m *MockRepository) CountMatchesByOutcome() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int)
	for _, record := range m.matches {
		counts[record.Outcome]++
	}
	return counts, nil
}
