package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

// Submitted transaction types. Savings is stored as an expense.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
	TypeSavings = "savings"
)

// Submission is one transaction as submitted by a client, before validation.
type Submission struct {
	UserID uuid.UUID
	// Amount is the raw decimal text. Empty means absent.
	Amount         string
	Currency       string
	Type           string
	Merchant       *string
	Notes          *string
	Description    *string
	CategoryID     uuid.NullUUID
	AccountID      uuid.NullUUID
	FamilyMemberID uuid.NullUUID
	Timestamp      *time.Time
	Tags           []string
	PaymentSource  string

	ForwardedFor string
	RealIP       string
	UserAgent    *string
}

// Transaction represents a stored transaction in the service layer.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	Type           string
	Merchant       *string
	Notes          *string
	CategoryID     uuid.NullUUID
	AccountID      uuid.NullUUID
	FamilyMemberID uuid.NullUUID
	Timestamp      time.Time
	Tags           []string
	IPHash         string
	Metadata       transaction.Metadata
	CreatedAt      time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// Suggestion is a prefill for a new transaction derived from recent history.
type Suggestion struct {
	Merchant      string
	Notes         string
	AverageAmount decimal.Decimal
	Confidence    int
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	var tags []string
	if len(row.Tags) > 0 {
		tags = []string(row.Tags)
	}
	return Transaction{
		ID:             row.ID,
		UserID:         row.UserID,
		Amount:         row.Amount,
		Currency:       row.Currency,
		Type:           row.Type,
		Merchant:       row.Merchant,
		Notes:          row.Notes,
		CategoryID:     row.CategoryID,
		AccountID:      row.AccountID,
		FamilyMemberID: row.FamilyMemberID,
		Timestamp:      row.Timestamp,
		Tags:           tags,
		IPHash:         row.IPHash,
		Metadata:       row.Metadata,
		CreatedAt:      row.CreatedAt,
	}
}
