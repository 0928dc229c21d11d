package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// Storage provides SQLite database access for transactions, payments
// and the match audit trail. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveTransaction saves or updates a transaction
func (s *Storage) SaveTransaction(tx *model.Transaction) error {
	query := `
	INSERT OR REPLACE INTO transactions
	(id, amount, date, description, reference, counterparty, iban)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		tx.ID,
		tx.Amount.String(),
		tx.Date.UTC(),
		tx.Description,
		tx.Reference,
		tx.Counterparty,
		tx.IBAN,
	)

	return err
}

// GetTransaction retrieves a transaction by ID
func (s *Storage) GetTransaction(id string) (*model.Transaction, error) {
	query := `
	SELECT id, amount, date, description, reference, counterparty, iban
	FROM transactions WHERE id = ?
	`

	row := s.db.QueryRow(query, id)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return tx, err
}

// ListTransactions returns the most recently ingested transactions
func (s *Storage) ListTransactions(limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, amount, date, description, reference, counterparty, iban
	FROM transactions ORDER BY date DESC, id LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []*model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// SavePayment saves or updates an expected payment
func (s *Storage) SavePayment(p *model.Payment) error {
	query := `
	INSERT OR REPLACE INTO payments
	(id, amount_due, due_date, iban, description, settled)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		p.ID,
		p.AmountDue.String(),
		p.DueDate.UTC(),
		p.IBAN,
		p.Description,
		p.Settled,
	)

	return err
}

// GetPayment retrieves a payment by ID
func (s *Storage) GetPayment(id string) (*model.Payment, error) {
	query := `
	SELECT id, amount_due, due_date, iban, description, settled
	FROM payments WHERE id = ?
	`

	row := s.db.QueryRow(query, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// ListOpenPayments returns unsettled payments due within lookbackDays on
// either side of the anchor date
func (s *Storage) ListOpenPayments(anchor time.Time, lookbackDays int) ([]*model.Payment, error) {
	from := anchor.UTC().AddDate(0, 0, -lookbackDays)
	to := anchor.UTC().AddDate(0, 0, lookbackDays)

	query := `
	SELECT id, amount_due, due_date, iban, description, settled
	FROM payments
	WHERE settled = 0 AND due_date >= ? AND due_date <= ?
	ORDER BY due_date, id
	`

	rows, err := s.db.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var payments []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// MarkPaymentSettled flags a payment as settled
func (s *Storage) MarkPaymentSettled(id string) error {
	result, err := s.db.Exec(`UPDATE payments SET settled = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveMatch persists an audit entry and assigns its ID
func (s *Storage) SaveMatch(record *MatchRecord) error {
	fieldsJSON, err := json.Marshal(record.MatchedFields)
	if err != nil {
		return fmt.Errorf("failed to encode matched fields: %w", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO match_records
	(transaction_id, payment_id, confidence, match_type, reason,
	 matched_fields, amount_diff, outcome, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.TransactionID,
		record.PaymentID,
		record.Confidence,
		record.MatchType,
		record.Reason,
		string(fieldsJSON),
		record.AmountDiff.String(),
		record.Outcome,
		record.CreatedAt,
	)
	if err != nil {
		return err
	}

	record.ID, err = result.LastInsertId()
	return err
}

// ListMatches returns audit entries matching the given filters, newest first
func (s *Storage) ListMatches(filters MatchFilters) ([]*MatchRecord, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, transaction_id, payment_id, confidence, match_type, reason,
	       matched_fields, amount_diff, outcome, created_at
	FROM match_records
	WHERE 1=1
	`
	args := []interface{}{}

	if filters.TransactionID != "" {
		query += ` AND transaction_id = ?`
		args = append(args, filters.TransactionID)
	}
	if filters.Outcome != "" {
		query += ` AND outcome = ?`
		args = append(args, filters.Outcome)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*MatchRecord
	for rows.Next() {
		record := &MatchRecord{}
		var fieldsJSON, amountDiff string
		err := rows.Scan(
			&record.ID,
			&record.TransactionID,
			&record.PaymentID,
			&record.Confidence,
			&record.MatchType,
			&record.Reason,
			&fieldsJSON,
			&amountDiff,
			&record.Outcome,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(fieldsJSON), &record.MatchedFields); err != nil {
			return nil, fmt.Errorf("failed to decode matched fields: %w", err)
		}
		record.AmountDiff, err = decimal.NewFromString(amountDiff)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount diff: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// CountMatchesByOutcome returns audit entry counts grouped by outcome
func (s *Storage) CountMatchesByOutcome() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT outcome, COUNT(*) FROM match_records GROUP BY outcome
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		counts[outcome] = count
	}

	return counts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var amount string
	err := row.Scan(
		&tx.ID,
		&amount,
		&tx.Date,
		&tx.Description,
		&tx.Reference,
		&tx.Counterparty,
		&tx.IBAN,
	)
	if err != nil {
		return nil, err
	}

	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount for transaction %s: %w", tx.ID, err)
	}

	return tx, nil
}

func scanPayment(row scanner) (*model.Payment, error) {
	p := &model.Payment{}
	var amountDue string
	err := row.Scan(
		&p.ID,
		&amountDue,
		&p.DueDate,
		&p.IBAN,
		&p.Description,
		&p.Settled,
	)
	if err != nil {
		return nil, err
	}

	p.AmountDue, err = decimal.NewFromString(amountDue)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount for payment %s: %w", p.ID, err)
	}

	return p, nil
}
