package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/fintrack-server/internal/storage/auditlog"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

// Transactor ends a database transaction.
type Transactor interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx           Transactor
	Transactions transaction.ITransactionTable
	AuditLogs    auditlog.IAuditLogTable
}

func NewWriter(tx bob.Tx) *Writer {
	return ComposeWriter(tx, transaction.NewTable(tx), auditlog.NewTable(tx))
}

// ComposeWriter assembles a Writer from explicit parts.
func ComposeWriter(tx Transactor, transactions transaction.ITransactionTable, auditLogs auditlog.IAuditLogTable) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: transactions,
		AuditLogs:    auditLogs,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
