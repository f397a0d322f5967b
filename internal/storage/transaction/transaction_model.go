package transaction

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Stored transaction types. The column only accepts these two values; the
// caller's original intent lives in Metadata.OriginalType.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction represents a transaction record.
type Transaction struct {
	ID             uuid.UUID       `db:"id"`
	UserID         uuid.UUID       `db:"user_id"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	Type           string          `db:"type"`
	Merchant       *string         `db:"merchant"`
	Notes          *string         `db:"notes"`
	CategoryID     uuid.NullUUID   `db:"category_id"`
	AccountID      uuid.NullUUID   `db:"account_id"`
	FamilyMemberID uuid.NullUUID   `db:"family_member_id"`
	Timestamp      time.Time       `db:"timestamp"`
	Tags           pq.StringArray  `db:"tags"`
	IPHash         string          `db:"ip_hash"`
	Metadata       Metadata        `db:"metadata"`
	CreatedAt      time.Time       `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
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
	Metadata       Metadata
}

// TransactionFilter specifies filters for listing transactions. UserID is mandatory.
type TransactionFilter struct {
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Type            string
	From            *time.Time
	To              *time.Time
	MaxCreationTime *time.Time
	Limit           int
	Offset          int
}

// Metadata is the free-form side document stored with every transaction.
type Metadata struct {
	OriginalType  string           `json:"original_type,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PaymentSource string           `json:"payment_source,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate,omitempty"`
	BaseCurrency  string           `json:"base_currency,omitempty"`
	BaseAmount    *decimal.Decimal `json:"base_amount,omitempty"`
}

// Converted reports whether a currency conversion was recorded.
func (m Metadata) Converted() bool {
	return m.BaseAmount != nil
}

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("transaction: unsupported metadata type")
	}
}

// EffectiveAmount is the amount in the base currency when a conversion was
// recorded, and the raw amount otherwise.
func (t *Transaction) EffectiveAmount() decimal.Decimal {
	if t.Metadata.BaseAmount != nil {
		return *t.Metadata.BaseAmount
	}
	return t.Amount
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//go:generate mockery --name ITransactionTable --inpackage --with-expecter --filename mock_ITransactionTable.go --output .
type ITransactionTable interface {
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}
