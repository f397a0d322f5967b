package transaction

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/fintrack-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID             string   `json:"id" doc:"Transaction UUID"`
	UserID         string   `json:"user_id" doc:"Owner UUID"`
	Amount         string   `json:"amount" doc:"Decimal amount in the submitted currency"`
	Currency       string   `json:"currency" doc:"Currency code"`
	Type           string   `json:"type" enum:"income,expense" doc:"Stored transaction type"`
	Merchant       *string  `json:"merchant,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	AccountID      *string  `json:"account_id,omitempty"`
	FamilyMemberID *string  `json:"family_member_id,omitempty"`
	Timestamp      string   `json:"timestamp" doc:"RFC3339 time of the transaction"`
	Tags           []string `json:"tags,omitempty"`
	IPHash         string   `json:"ip_hash" doc:"Salted hash of the submitting client address"`
	Metadata       Metadata `json:"metadata"`
	CreatedAt      string   `json:"created_at" doc:"RFC3339 creation time"`
}

// Metadata is the side document stored with a transaction.
type Metadata struct {
	OriginalType  string  `json:"original_type,omitempty" doc:"Submitted type when it differs from the stored one"`
	Description   *string `json:"description,omitempty"`
	PaymentSource string  `json:"payment_source,omitempty"`
	ExchangeRate  *string `json:"exchange_rate,omitempty" doc:"Rate to the base currency, present only after a conversion"`
	BaseCurrency  string  `json:"base_currency,omitempty"`
	BaseAmount    *string `json:"base_amount,omitempty" doc:"Amount in the base currency"`
}

func nullUUID(id uuid.NullUUID) *string {
	if !id.Valid {
		return nil
	}
	s := id.UUID.String()
	return &s
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toTransaction(tx service.Transaction) Transaction {
	return Transaction{
		ID:             tx.ID.String(),
		UserID:         tx.UserID.String(),
		Amount:         tx.Amount.String(),
		Currency:       tx.Currency,
		Type:           tx.Type,
		Merchant:       tx.Merchant,
		Notes:          tx.Notes,
		CategoryID:     nullUUID(tx.CategoryID),
		AccountID:      nullUUID(tx.AccountID),
		FamilyMemberID: nullUUID(tx.FamilyMemberID),
		Timestamp:      tx.Timestamp.Format(time.RFC3339),
		Tags:           tx.Tags,
		IPHash:         tx.IPHash,
		Metadata: Metadata{
			OriginalType:  tx.Metadata.OriginalType,
			Description:   tx.Metadata.Description,
			PaymentSource: tx.Metadata.PaymentSource,
			ExchangeRate:  decimalString(tx.Metadata.ExchangeRate),
			BaseCurrency:  tx.Metadata.BaseCurrency,
			BaseAmount:    decimalString(tx.Metadata.BaseAmount),
		},
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}
