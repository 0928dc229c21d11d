package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// dateLayout is the wire format for dates. Times of day carry no meaning
// for matching, so only the calendar day travels.
const dateLayout = "2006-01-02"

// TransactionRequest is an incoming bank transaction.
type TransactionRequest struct {
	ID           string `json:"id,omitempty"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Description  string `json:"description,omitempty"`
	Reference    string `json:"reference,omitempty"`
	Counterparty string `json:"counterparty,omitempty"`
	IBAN         string `json:"iban,omitempty"`
}

// ToModel validates and converts the request to a domain transaction.
// A missing ID gets a generated one.
func (r TransactionRequest) ToModel() (*model.Transaction, error) {
	if r.Amount == "" {
		return nil, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", r.Amount)
	}

	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}

	tx := model.NewTransaction(amount, date, r.Description)
	if r.ID != "" {
		tx.ID = r.ID
	}
	tx.Reference = r.Reference
	tx.Counterparty = r.Counterparty
	tx.IBAN = r.IBAN
	return &tx, nil
}

// PaymentRequest is an expected payment awaiting settlement.
type PaymentRequest struct {
	ID          string `json:"id,omitempty"`
	AmountDue   string `json:"amount_due"`
	DueDate     string `json:"due_date"`
	IBAN        string `json:"iban,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToModel validates and converts the request to a domain payment.
func (r PaymentRequest) ToModel() (*model.Payment, error) {
	if r.AmountDue == "" {
		return nil, fmt.Errorf("amount_due is required")
	}
	amountDue, err := decimal.NewFromString(r.AmountDue)
	if err != nil {
		return nil, fmt.Errorf("invalid amount_due %q", r.AmountDue)
	}

	dueDate, err := parseDate(r.DueDate)
	if err != nil {
		return nil, err
	}

	p := model.NewPayment(amountDue, dueDate, r.Description)
	if r.ID != "" {
		p.ID = r.ID
	}
	p.IBAN = r.IBAN
	return &p, nil
}

// MatchRequest asks the engine to reconcile one transaction. When
// candidates are supplied inline the engine runs a dry evaluation against
// them instead of the stored open payments.
type MatchRequest struct {
	Transaction TransactionRequest `json:"transaction"`
	Candidates  []PaymentRequest   `json:"candidates,omitempty"`
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}
