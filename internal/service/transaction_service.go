package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/fintrack-server/internal/logging"
	"github.com/carson-networks/fintrack-server/internal/operator/actions"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

const (
	defaultLimit    = 20
	suggestionDepth = 10
	suggestionWords = 5

	// amountScale and maxAmountDigits mirror the amount column's NUMERIC(20, 8).
	amountScale     = 8
	maxAmountDigits = 12
	maxAmountLength = 64
)

var maxAmount = decimal.New(1, maxAmountDigits)

// ActionProcessor runs a write action inside one storage transaction.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// RateSource returns how many units of to one unit of from buys.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	processor    ActionProcessor
	transactions transaction.ITransactionTable
	rates        RateSource
	hasher       IPHasher
	baseCurrency string
	metrics      *Metrics
	now          func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	processor ActionProcessor,
	transactions transaction.ITransactionTable,
	rates RateSource,
	hasher IPHasher,
	baseCurrency string,
	metrics *Metrics,
) *TransactionService {
	return &TransactionService{
		processor:    processor,
		transactions: transactions,
		rates:        rates,
		hasher:       hasher,
		baseCurrency: strings.ToUpper(baseCurrency),
		metrics:      metrics,
		now:          time.Now,
	}
}

// CreateTransaction validates and stores one submission together with its
// audit entry. A failed currency lookup does not fail the call; the row is
// stored without conversion fields.
func (s *TransactionService) CreateTransaction(ctx context.Context, sub Submission) (*Transaction, error) {
	if sub.UserID == uuid.Nil {
		s.metrics.IncFailure(FailureUnauthorized)
		return nil, ErrUnauthorized
	}

	amount, err := parseAmount(sub.Amount, sub.Type)
	if err != nil {
		s.metrics.IncFailure(FailureValidation)
		return nil, err
	}

	storedType, err := storedType(sub.Type)
	if err != nil {
		s.metrics.IncFailure(FailureValidation)
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(sub.Currency))
	if currency == "" {
		currency = s.baseCurrency
	}

	metadata := transaction.Metadata{
		Description:   Sanitize(sub.Description, MaxDescriptionLength),
		PaymentSource: sub.PaymentSource,
	}
	if sub.Type == TypeSavings {
		metadata.OriginalType = TypeSavings
	}
	if currency != s.baseCurrency {
		s.convert(ctx, currency, amount, &metadata)
	}

	timestamp := s.now().UTC()
	if sub.Timestamp != nil {
		timestamp = *sub.Timestamp
	}

	action := &actions.CreateTransaction{
		Transaction: &transaction.TransactionCreate{
			UserID:         sub.UserID,
			Amount:         amount,
			Currency:       currency,
			Type:           storedType,
			Merchant:       Sanitize(sub.Merchant, MaxMerchantLength),
			Notes:          Sanitize(sub.Notes, MaxNotesLength),
			CategoryID:     sub.CategoryID,
			AccountID:      sub.AccountID,
			FamilyMemberID: sub.FamilyMemberID,
			Timestamp:      timestamp,
			Tags:           sub.Tags,
			IPHash:         s.hasher.Hash(ClientAddress(sub.ForwardedFor, sub.RealIP)),
			Metadata:       metadata,
		},
		UserAgent: sub.UserAgent,
	}

	var stopTimer func()
	logData := logging.GetLogData(ctx)
	if logData != nil {
		stopTimer = logData.AddTiming("storeTransactionMs")
	}
	err = s.processor.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		s.metrics.IncFailure(FailurePersistence)
		logrus.WithError(err).WithField("userID", sub.UserID).Error("TransactionService.CreateTransaction.Store")
		return nil, &PersistenceError{Err: err}
	}

	s.metrics.IncCreated(sub.Type)
	if logData != nil {
		logData.AddData("transactionID", action.Created.ID.String())
	}

	created := transactionFromStorage(action.Created)
	return &created, nil
}

// convert attaches conversion fields to metadata, or leaves it untouched
// when no rate is available.
func (s *TransactionService) convert(ctx context.Context, currency string, amount decimal.Decimal, metadata *transaction.Metadata) {
	rate, err := s.rates.Rate(ctx, currency, s.baseCurrency)
	if err != nil {
		s.metrics.IncConversionDegraded()
		logrus.WithError(err).WithFields(logrus.Fields{
			"currency":     currency,
			"baseCurrency": s.baseCurrency,
		}).Warn("TransactionService.CreateTransaction.ConversionDegraded")
		return
	}

	baseAmount := amount.Mul(rate)
	metadata.ExchangeRate = &rate
	metadata.BaseCurrency = s.baseCurrency
	metadata.BaseAmount = &baseAmount
}

// parseAmount accepts what the amount column (NUMERIC(20, 8)) stores exactly.
// The exponent is bounded before any comparison so that values such as
// "1e400000000" are rejected without being expanded.
func parseAmount(raw, transactionType string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || transactionType == "" {
		return decimal.Zero, newValidationError("Missing required fields: amount, type")
	}
	if len(raw) > maxAmountLength {
		return decimal.Zero, newValidationError("Amount must be a positive number")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, newValidationError("Amount must be a positive number")
	}
	if amount.IsZero() {
		return decimal.Zero, newValidationError("Missing required fields: amount, type")
	}
	if amount.IsNegative() {
		return decimal.Zero, newValidationError("Amount must be a positive number")
	}

	exp := amount.Exponent()
	if exp >= maxAmountDigits {
		return decimal.Zero, newValidationError("Amount must be less than %s", maxAmount.String())
	}
	if exp < -(maxAmountLength+amountScale) || !amount.Equal(amount.Truncate(amountScale)) {
		return decimal.Zero, newValidationError("Amount must have at most %d decimal places", amountScale)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, newValidationError("Amount must be less than %s", maxAmount.String())
	}
	return amount, nil
}

func storedType(submitted string) (string, error) {
	switch submitted {
	case TypeIncome:
		return transaction.TypeIncome, nil
	case TypeExpense, TypeSavings:
		return transaction.TypeExpense, nil
	default:
		return "", newValidationError("Type must be one of: income, expense, savings")
	}
}

// ListTransactions returns a page of the caller's transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	if userID == uuid.Nil {
		return nil, nil, ErrUnauthorized
	}

	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	filter := &transaction.TransactionFilter{
		UserID:          userID,
		Limit:           limit + 1,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	rows, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := latestCreation(rows)
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}

	return converted, nextCursor, nil
}

// latestCreation locks the first page to rows that existed when it was read.
// Rows are ordered by timestamp, so the newest created_at can sit anywhere.
func latestCreation(rows []*transaction.Transaction) time.Time {
	latest := rows[0].CreatedAt
	for _, row := range rows[1:] {
		if row.CreatedAt.After(latest) {
			latest = row.CreatedAt
		}
	}
	return latest
}

// Suggest derives a prefill from the caller's most recent transactions in a category.
func (s *TransactionService) Suggest(ctx context.Context, userID, categoryID uuid.UUID) (*Suggestion, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	rows, err := s.transactions.List(ctx, &transaction.TransactionFilter{
		UserID:     userID,
		CategoryID: &categoryID,
		Limit:      suggestionDepth,
	})
	if err != nil {
		return nil, err
	}

	suggestion := &Suggestion{AverageAmount: decimal.Zero}
	if len(rows) == 0 {
		return suggestion, nil
	}

	suggestion.Merchant = frequentMerchant(rows)
	suggestion.Notes = noteWords(rows)

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.EffectiveAmount())
	}
	suggestion.AverageAmount = total.Div(decimal.NewFromInt(int64(len(rows)))).Round(0)
	suggestion.Confidence = len(rows)

	return suggestion, nil
}

// frequentMerchant returns the most used merchant. Ties go to the one seen first.
func frequentMerchant(rows []*transaction.Transaction) string {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		if row.Merchant == nil || *row.Merchant == "" {
			continue
		}
		if _, seen := counts[*row.Merchant]; !seen {
			order = append(order, *row.Merchant)
		}
		counts[*row.Merchant]++
	}

	best := ""
	for _, merchant := range order {
		if counts[merchant] > counts[best] {
			best = merchant
		}
	}
	return best
}

func noteWords(rows []*transaction.Transaction) string {
	var words []string
	for _, row := range rows {
		if row.Notes == nil {
			continue
		}
		for _, word := range strings.Split(*row.Notes, " ") {
			if utf8.RuneCountInString(word) > 3 {
				words = append(words, word)
				if len(words) == suggestionWords {
					return strings.Join(words, " ")
				}
			}
		}
	}
	return strings.Join(words, " ")
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
