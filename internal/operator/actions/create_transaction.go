package actions

import (
	"context"
	"fmt"

	"github.com/carson-networks/fintrack-server/internal/storage"
	"github.com/carson-networks/fintrack-server/internal/storage/auditlog"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

// CreateTransaction stores a transaction and its audit entry in the same
// storage transaction. Created is populated once Perform succeeds.
type CreateTransaction struct {
	Transaction *transaction.TransactionCreate
	UserAgent   *string

	Created *transaction.Transaction
	IAction
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Transactions.Insert(ctx, c.Transaction)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	_, err = writer.AuditLogs.Insert(ctx, &auditlog.EntryCreate{
		UserID:    created.UserID,
		Action:    auditlog.ActionCreateTransaction,
		IPHash:    created.IPHash,
		UserAgent: c.UserAgent,
		Metadata:  auditlog.Metadata{TransactionID: &created.ID},
	})
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	c.Created = created
	return nil
}
