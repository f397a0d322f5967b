package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/fintrack-server/internal/exchange"
	"github.com/carson-networks/fintrack-server/internal/storage/auditlog"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

const testSalt = "test-salt"

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testHarness struct {
	svc       *TransactionService
	processor *inlineProcessor
	reader    *transaction.MockITransactionTable
	rates     *mockRateSource
	metrics   *Metrics
}

func newTestService(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		processor: newInlineProcessor(t),
		reader:    transaction.NewMockITransactionTable(t),
		rates:     new(mockRateSource),
		metrics:   NewMetrics(prometheus.NewRegistry()),
	}
	h.svc = NewTransactionService(h.processor, h.reader, h.rates, NewIPHasher(testSalt), "INR", h.metrics)
	h.svc.now = func() time.Time { return fixedNow }
	return h
}

type stored struct {
	creates []*transaction.TransactionCreate
	entries []*auditlog.EntryCreate
}

// expectStore makes both inserts succeed and records what was written.
func (h *testHarness) expectStore() *stored {
	s := &stored{}
	h.processor.transactions.EXPECT().Insert(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
			s.creates = append(s.creates, create)
			return &transaction.Transaction{
				ID:        uuid.Must(uuid.NewV4()),
				UserID:    create.UserID,
				Amount:    create.Amount,
				Currency:  create.Currency,
				Type:      create.Type,
				Merchant:  create.Merchant,
				Notes:     create.Notes,
				Timestamp: create.Timestamp,
				IPHash:    create.IPHash,
				Metadata:  create.Metadata,
				CreatedAt: fixedNow,
			}, nil
		})
	h.processor.auditLogs.EXPECT().Insert(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, create *auditlog.EntryCreate) (*auditlog.Entry, error) {
			s.entries = append(s.entries, create)
			return &auditlog.Entry{ID: uuid.Must(uuid.NewV4())}, nil
		})
	return s
}

func strPtr(s string) *string {
	return &s
}

func newSubmission(amount, transactionType string) Submission {
	return Submission{
		UserID:       uuid.Must(uuid.NewV4()),
		Amount:       amount,
		Type:         transactionType,
		ForwardedFor: "203.0.113.7",
		UserAgent:    strPtr("test-agent/1.0"),
	}
}

// -- CreateTransaction tests --

func TestCreateTransaction_BaseCurrencyExpense(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	sub := newSubmission("500", TypeExpense)
	sub.Currency = "INR"

	created, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	require.Len(t, s.creates, 1)
	create := s.creates[0]
	assert.True(t, create.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, transaction.TypeExpense, create.Type)
	assert.Equal(t, "INR", create.Currency)
	assert.Empty(t, create.Metadata.OriginalType)
	assert.False(t, create.Metadata.Converted())
	assert.Nil(t, create.Metadata.ExchangeRate)
	assert.Empty(t, create.Metadata.BaseCurrency)
	assert.Equal(t, fixedNow, create.Timestamp)

	require.Len(t, s.entries, 1)
	assert.Equal(t, auditlog.ActionCreateTransaction, s.entries[0].Action)
	assert.Equal(t, created.ID, *s.entries[0].Metadata.TransactionID)
	assert.Equal(t, create.IPHash, s.entries[0].IPHash)
	assert.Equal(t, "test-agent/1.0", *s.entries[0].UserAgent)

	assert.True(t, h.processor.tx.committed)
	h.rates.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.transactionsCreated.WithLabelValues(TypeExpense)))
}

func TestCreateTransaction_DefaultsCurrencyToBase(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	_, err := h.svc.CreateTransaction(context.Background(), newSubmission("12.5", TypeIncome))

	require.NoError(t, err)
	assert.Equal(t, "INR", s.creates[0].Currency)
	assert.Equal(t, transaction.TypeIncome, s.creates[0].Type)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name            string
		amount          string
		transactionType string
		message         string
	}{
		{"non-numeric amount", "abc", TypeIncome, "Amount must be a positive number"},
		{"negative amount", "-5", TypeExpense, "Amount must be a positive number"},
		{"missing amount", "", TypeExpense, "Missing required fields: amount, type"},
		{"zero amount", "0", TypeExpense, "Missing required fields: amount, type"},
		{"missing type", "10", "", "Missing required fields: amount, type"},
		{"unknown type", "10", "transfer", "Type must be one of: income, expense, savings"},
		{"huge exponent", "1e400000000", TypeExpense, "Amount must be less than 1000000000000"},
		{"tiny exponent", "1e-20", TypeExpense, "Amount must have at most 8 decimal places"},
		{"very negative exponent", "5e-400000000", TypeExpense, "Amount must have at most 8 decimal places"},
		{"below column scale", "0.000000001", TypeExpense, "Amount must have at most 8 decimal places"},
		{"rounded by column scale", "1.123456789", TypeIncome, "Amount must have at most 8 decimal places"},
		{"too many integer digits", "123456789012345", TypeExpense, "Amount must be less than 1000000000000"},
		{"upper bound", "1000000000000", TypeExpense, "Amount must be less than 1000000000000"},
		{"overlong text", "1" + strings.Repeat("0", 70), TypeExpense, "Amount must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestService(t)

			created, err := h.svc.CreateTransaction(context.Background(), newSubmission(tt.amount, tt.transactionType))

			assert.Nil(t, created)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
			assert.True(t, IsValidation(err))
			assert.Zero(t, h.processor.calls)
			h.processor.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.transactionFailures.WithLabelValues(FailureValidation)))
		})
	}
}

func TestCreateTransaction_AmountBoundsStoredExactly(t *testing.T) {
	for _, raw := range []string{"0.00000001", "999999999999.99999999", "1.10000000000", "2.5e3"} {
		t.Run(raw, func(t *testing.T) {
			h := newTestService(t)
			s := h.expectStore()

			_, err := h.svc.CreateTransaction(context.Background(), newSubmission(raw, TypeExpense))

			require.NoError(t, err)
			assert.True(t, s.creates[0].Amount.Equal(decimal.RequireFromString(raw)))
		})
	}
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	h := newTestService(t)

	sub := newSubmission("10", TypeExpense)
	sub.UserID = uuid.Nil

	_, err := h.svc.CreateTransaction(context.Background(), sub)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, h.processor.calls)
	h.processor.auditLogs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateTransaction_SavingsStoredAsExpense(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	created, err := h.svc.CreateTransaction(context.Background(), newSubmission("250", TypeSavings))

	require.NoError(t, err)
	assert.Equal(t, transaction.TypeExpense, s.creates[0].Type)
	assert.Equal(t, TypeSavings, s.creates[0].Metadata.OriginalType)
	assert.Equal(t, transaction.TypeExpense, created.Type)
	assert.Equal(t, TypeSavings, created.Metadata.OriginalType)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.transactionsCreated.WithLabelValues(TypeSavings)))
}

func TestCreateTransaction_SanitizesText(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	sub := newSubmission("10", TypeExpense)
	sub.Merchant = strPtr("  " + strings.Repeat("m", 300) + "  ")
	sub.Notes = strPtr("\t lunch with team \n")
	sub.Description = strPtr(strings.Repeat("ü", 1200))

	_, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	create := s.creates[0]
	assert.Equal(t, strings.Repeat("m", MaxMerchantLength), *create.Merchant)
	assert.Equal(t, "lunch with team", *create.Notes)
	assert.Equal(t, strings.Repeat("ü", MaxDescriptionLength), *create.Metadata.Description)
}

func TestCreateTransaction_ConvertsForeignCurrency(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()
	h.rates.On("Rate", mock.Anything, "USD", "INR").Return(decimal.RequireFromString("83.5"), nil)

	sub := newSubmission("10", TypeExpense)
	sub.Currency = "usd"

	_, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	create := s.creates[0]
	assert.Equal(t, "USD", create.Currency)
	assert.True(t, create.Amount.Equal(decimal.NewFromInt(10)), "stored amount is never converted")
	require.True(t, create.Metadata.Converted())
	assert.True(t, create.Metadata.ExchangeRate.Equal(decimal.RequireFromString("83.5")))
	assert.True(t, create.Metadata.BaseAmount.Equal(decimal.NewFromInt(835)))
	assert.Equal(t, "INR", create.Metadata.BaseCurrency)
	h.rates.AssertExpectations(t)
}

func TestCreateTransaction_ConversionFailureDegrades(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()
	h.rates.On("Rate", mock.Anything, "EUR", "INR").Return(decimal.Zero, exchange.ErrRateUnavailable)

	sub := newSubmission("40", TypeExpense)
	sub.Currency = "EUR"

	created, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	require.NotNil(t, created)
	create := s.creates[0]
	assert.True(t, create.Amount.Equal(decimal.NewFromInt(40)))
	assert.False(t, create.Metadata.Converted())
	assert.Nil(t, create.Metadata.ExchangeRate)
	assert.Empty(t, create.Metadata.BaseCurrency)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.conversionDegraded))
}

func TestCreateTransaction_InsertFailure(t *testing.T) {
	h := newTestService(t)
	h.processor.transactions.EXPECT().Insert(mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	created, err := h.svc.CreateTransaction(context.Background(), newSubmission("10", TypeExpense))

	assert.Nil(t, created)
	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Contains(t, err.Error(), "connection refused")
	h.processor.auditLogs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.True(t, h.processor.tx.rolledBack)
	assert.False(t, h.processor.tx.committed)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.transactionFailures.WithLabelValues(FailurePersistence)))
}

func TestCreateTransaction_AuditFailureRollsBack(t *testing.T) {
	h := newTestService(t)
	h.processor.transactions.EXPECT().Insert(mock.Anything, mock.Anything).
		Return(&transaction.Transaction{ID: uuid.Must(uuid.NewV4())}, nil)
	h.processor.auditLogs.EXPECT().Insert(mock.Anything, mock.Anything).
		Return(nil, errors.New("logs table locked"))

	_, err := h.svc.CreateTransaction(context.Background(), newSubmission("10", TypeExpense))

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.True(t, h.processor.tx.rolledBack)
	assert.False(t, h.processor.tx.committed)
}

func TestCreateTransaction_HashesClientAddress(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	sub := newSubmission("10", TypeExpense)
	sub.ForwardedFor = "198.51.100.4, 10.0.0.1"
	sub.RealIP = "10.0.0.9"

	_, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	ipHash := s.creates[0].IPHash
	assert.Equal(t, NewIPHasher(testSalt).Hash("198.51.100.4"), ipHash)
	assert.NotContains(t, ipHash, "198.51.100.4")
	assert.Len(t, ipHash, 64)
}

func TestCreateTransaction_NoDeduplication(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	sub := newSubmission("99.99", TypeExpense)
	first, err := h.svc.CreateTransaction(context.Background(), sub)
	require.NoError(t, err)
	second, err := h.svc.CreateTransaction(context.Background(), sub)
	require.NoError(t, err)

	assert.Len(t, s.creates, 2)
	assert.Len(t, s.entries, 2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateTransaction_KeepsSuppliedTimestamp(t *testing.T) {
	h := newTestService(t)
	s := h.expectStore()

	ts := time.Date(2024, 12, 24, 18, 30, 0, 0, time.UTC)
	sub := newSubmission("10", TypeExpense)
	sub.Timestamp = &ts
	sub.Tags = []string{"gift", "family"}
	sub.PaymentSource = "upi"

	_, err := h.svc.CreateTransaction(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, ts, s.creates[0].Timestamp)
	assert.Equal(t, []string{"gift", "family"}, s.creates[0].Tags)
	assert.Equal(t, "upi", s.creates[0].Metadata.PaymentSource)
}

// -- ListTransactions tests --

func makeStorageRows(n int, createdAt time.Time) []*transaction.Transaction {
	rows := make([]*transaction.Transaction, n)
	for i := range rows {
		rows[i] = &transaction.Transaction{
			ID:        uuid.Must(uuid.NewV4()),
			UserID:    uuid.Must(uuid.NewV4()),
			Amount:    decimal.RequireFromString("5.00"),
			Currency:  "INR",
			Type:      transaction.TypeExpense,
			Timestamp: createdAt,
			CreatedAt: createdAt,
		}
	}
	return rows
}

func TestListTransactions_NoResults(t *testing.T) {
	h := newTestService(t)

	h.reader.EXPECT().List(mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	txs, nextCursor, err := h.svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), nil)

	assert.NoError(t, err)
	assert.Nil(t, txs)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_SinglePage(t *testing.T) {
	h := newTestService(t)
	userID := uuid.Must(uuid.NewV4())

	rows := makeStorageRows(2, fixedNow)

	h.reader.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.UserID == userID && f.Limit == defaultLimit+1 && f.Offset == 0 && f.MaxCreationTime == nil
	})).Return(rows, nil)

	txs, nextCursor, err := h.svc.ListTransactions(context.Background(), userID, nil)

	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Nil(t, nextCursor)
	assert.Equal(t, rows[0].ID, txs[0].ID)
	assert.True(t, rows[0].Amount.Equal(txs[0].Amount))
	assert.Equal(t, rows[0].CreatedAt, txs[0].CreatedAt)
	h.reader.AssertExpectations(t)
}

func TestListTransactions_HasNextPage(t *testing.T) {
	h := newTestService(t)

	rows := makeStorageRows(defaultLimit+1, fixedNow)
	newest := fixedNow.Add(time.Minute)
	rows[3].CreatedAt = newest

	h.reader.EXPECT().List(mock.Anything, mock.Anything).Return(rows, nil)

	txs, nextCursor, err := h.svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), nil)

	assert.NoError(t, err)
	assert.Len(t, txs, defaultLimit)
	require.NotNil(t, nextCursor)
	assert.Equal(t, defaultLimit, nextCursor.Position)
	assert.Equal(t, defaultLimit, nextCursor.Limit)
	assert.Equal(t, newest, nextCursor.MaxCreationTime)
}

func TestListTransactions_WithCursor(t *testing.T) {
	h := newTestService(t)

	maxTime := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	cursor := &TransactionCursor{Position: 10, Limit: 5, MaxCreationTime: maxTime}

	h.reader.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.Limit == 6 && f.Offset == 10 && f.MaxCreationTime != nil && f.MaxCreationTime.Equal(maxTime)
	})).Return(makeStorageRows(6, maxTime), nil)

	txs, nextCursor, err := h.svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), cursor)

	assert.NoError(t, err)
	assert.Len(t, txs, 5)
	require.NotNil(t, nextCursor)
	assert.Equal(t, 15, nextCursor.Position)
	assert.Equal(t, maxTime, nextCursor.MaxCreationTime)
}

func TestListTransactions_StorageError(t *testing.T) {
	h := newTestService(t)

	h.reader.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	txs, nextCursor, err := h.svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), nil)

	assert.EqualError(t, err, "connection refused")
	assert.Nil(t, txs)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_RequiresUser(t *testing.T) {
	h := newTestService(t)

	_, _, err := h.svc.ListTransactions(context.Background(), uuid.Nil, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	h.reader.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// -- Suggest tests --

func suggestionRow(merchant, notes, amount string, baseAmount string) *transaction.Transaction {
	row := &transaction.Transaction{
		ID:     uuid.Must(uuid.NewV4()),
		Amount: decimal.RequireFromString(amount),
	}
	if merchant != "" {
		row.Merchant = strPtr(merchant)
	}
	if notes != "" {
		row.Notes = strPtr(notes)
	}
	if baseAmount != "" {
		converted := decimal.RequireFromString(baseAmount)
		row.Metadata.BaseAmount = &converted
	}
	return row
}

func TestSuggest_FromHistory(t *testing.T) {
	h := newTestService(t)
	userID := uuid.Must(uuid.NewV4())
	categoryID := uuid.Must(uuid.NewV4())

	rows := []*transaction.Transaction{
		suggestionRow("Cafe Mocha", "weekly team coffee", "120", ""),
		suggestionRow("Blue Tokai", "beans for home", "2", "166"),
		suggestionRow("Blue Tokai", "", "300", ""),
		suggestionRow("Cafe Mocha", "quick espresso before meeting", "100", ""),
	}
	h.reader.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.UserID == userID && f.CategoryID != nil && *f.CategoryID == categoryID && f.Limit == suggestionDepth
	})).Return(rows, nil)

	suggestion, err := h.svc.Suggest(context.Background(), userID, categoryID)

	require.NoError(t, err)
	assert.Equal(t, "Cafe Mocha", suggestion.Merchant, "ties go to the most recent merchant")
	assert.Equal(t, "weekly team coffee beans home", suggestion.Notes)
	assert.True(t, suggestion.AverageAmount.Equal(decimal.NewFromInt(172)), suggestion.AverageAmount.String())
	assert.Equal(t, 4, suggestion.Confidence)
}

func TestSuggest_NoHistory(t *testing.T) {
	h := newTestService(t)
	h.reader.EXPECT().List(mock.Anything, mock.Anything).Return(nil, nil)

	suggestion, err := h.svc.Suggest(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))

	require.NoError(t, err)
	assert.Empty(t, suggestion.Merchant)
	assert.Empty(t, suggestion.Notes)
	assert.True(t, suggestion.AverageAmount.IsZero())
	assert.Zero(t, suggestion.Confidence)
}

func TestSuggest_StorageError(t *testing.T) {
	h := newTestService(t)
	h.reader.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := h.svc.Suggest(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))

	assert.Error(t, err)
}
