package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/fintrack-server/internal/exchange"
	"github.com/carson-networks/fintrack-server/internal/operator/actions"
	"github.com/carson-networks/fintrack-server/internal/storage"
	"github.com/carson-networks/fintrack-server/internal/storage/auditlog"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

type mockRateSource struct {
	mock.Mock
}

func (m *mockRateSource) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	rate, _ := args.Get(0).(decimal.Decimal)
	return rate, args.Error(1)
}

type mockRatesProvider struct {
	mock.Mock
}

func (m *mockRatesProvider) GetRates(ctx context.Context, from string) (*exchange.Rates, error) {
	args := m.Called(ctx, from)
	rates, _ := args.Get(0).(*exchange.Rates)
	return rates, args.Error(1)
}

type mockPriceSource struct {
	mock.Mock
}

func (m *mockPriceSource) CryptoPrices(ctx context.Context, ids []string) map[string]decimal.Decimal {
	args := m.Called(ctx, ids)
	prices, _ := args.Get(0).(map[string]decimal.Decimal)
	return prices
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

// inlineProcessor performs actions synchronously against mock tables, the
// same way an operator worker would inside a database transaction.
type inlineProcessor struct {
	transactions *transaction.MockITransactionTable
	auditLogs    *auditlog.MockIAuditLogTable
	tx           *fakeTx
	calls        int
}

func newInlineProcessor(t *testing.T) *inlineProcessor {
	return &inlineProcessor{
		transactions: transaction.NewMockITransactionTable(t),
		auditLogs:    auditlog.NewMockIAuditLogTable(t),
		tx:           &fakeTx{},
	}
}

func (p *inlineProcessor) Process(ctx context.Context, action actions.IAction) error {
	p.calls++
	writer := storage.ComposeWriter(p.tx, p.transactions, p.auditLogs)
	if err := action.Perform(ctx, writer); err != nil {
		_ = writer.Rollback()
		return err
	}
	return writer.Commit()
}
