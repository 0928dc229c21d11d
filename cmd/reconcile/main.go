// Command reconcile runs a batch of bank transactions from a CSV export
// against the stored open payments and prints the outcome per transaction.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/application/service"
	"github.com/ledgermatch/ledgermatch/internal/domain/model"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/config"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/logging"
	"github.com/ledgermatch/ledgermatch/internal/infrastructure/storage"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		configFile   = flag.String("config", "config.yaml", "Configuration file path")
		transactions = flag.String("transactions", "", "Transactions CSV file (required)")
		payments     = flag.String("payments", "", "Optional payments CSV to import first")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewScopedLogger(cfg.Observability.Logging, "reconcile")

	if *transactions == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -transactions <file.csv> [-payments <file.csv>]")
		os.Exit(2)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	svc, err := service.NewReconcileService(cfg, store, logger)
	if err != nil {
		logger.Error("failed to build matching engine", "error", err)
		os.Exit(1)
	}

	if *payments != "" {
		count, err := importPayments(store, *payments)
		if err != nil {
			logger.Error("payment import failed", "error", err)
			os.Exit(1)
		}
		logger.Info("payments imported", "count", count)
	}

	txs, err := readTransactions(*transactions)
	if err != nil {
		logger.Error("transaction import failed", "error", err)
		os.Exit(1)
	}

	var applied, review, unmatched int
	for _, tx := range txs {
		result, err := svc.MatchTransaction(tx)
		if err != nil {
			logger.Error("reconcile failed", "transaction_id", tx.ID, "error", err)
			os.Exit(1)
		}

		if len(result.Matches) == 0 {
			unmatched++
			fmt.Printf("%-36s  no match (%d candidates)\n", tx.ID, result.Candidates)
			continue
		}

		top := result.Matches[0]
		switch top.Outcome {
		case storage.OutcomeAutoApplied:
			applied++
		case storage.OutcomeReview:
			review++
		}
		fmt.Printf("%-36s  %-12s payment=%s confidence=%.2f\n",
			tx.ID, top.Outcome, top.Result.Payment.ID, top.Result.Confidence.Float64())
	}

	logger.Info("batch complete",
		"transactions", len(txs),
		"auto_applied", applied,
		"review", review,
		"unmatched", unmatched,
	)
}

// readTransactions parses a CSV with columns:
// id,amount,date,description,reference,counterparty,iban
// The header row is required; trailing columns may be omitted.
func readTransactions(path string) ([]*model.Transaction, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return nil, err
	}

	txs := make([]*model.Transaction, 0, len(rows))
	for i, row := range rows {
		amount, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", i+2, row[1])
		}
		date, err := time.Parse(dateLayout, row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", i+2, row[2])
		}

		tx := model.NewTransaction(amount, date, field(row, 3))
		if row[0] != "" {
			tx.ID = row[0]
		}
		tx.Reference = field(row, 4)
		tx.Counterparty = field(row, 5)
		tx.IBAN = field(row, 6)
		txs = append(txs, &tx)
	}
	return txs, nil
}

// importPayments parses a CSV with columns:
// id,amount_due,due_date,iban,description
func importPayments(store storage.Repository, path string) (int, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		amountDue, err := decimal.NewFromString(row[1])
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid amount_due %q", i+2, row[1])
		}
		dueDate, err := time.Parse(dateLayout, row[2])
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid due_date %q", i+2, row[2])
		}

		p := model.NewPayment(amountDue, dueDate, field(row, 4))
		if row[0] != "" {
			p.ID = row[0]
		}
		p.IBAN = field(row, 3)
		if err := store.SavePayment(&p); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// readCSV returns all data rows after the header, each with at least
// minFields columns.
func readCSV(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < minFields {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", len(rows)+2, minFields, len(row))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
