package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/fintrack-server/internal/logging"
	"github.com/carson-networks/fintrack-server/internal/storage/budget"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

// Budget alert levels.
const (
	BudgetSafe     = "safe"
	BudgetWarning  = "warning"
	BudgetExceeded = "exceeded"
)

const unknownCategory = "Unknown"

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// BudgetStatus is the spending position of one active budget.
type BudgetStatus struct {
	BudgetID     uuid.UUID
	CategoryID   uuid.UUID
	Category     string
	BudgetAmount decimal.Decimal
	Spent        decimal.Decimal
	// Percentage is capped at 100.
	Percentage decimal.Decimal
	Status     string
	StartDate  time.Time
	EndDate    time.Time
}

// BudgetService computes budget alerts from stored expenses.
type BudgetService struct {
	budgets      budget.IBudgetTable
	transactions transaction.ITransactionTable
	now          func() time.Time
}

func NewBudgetService(budgets budget.IBudgetTable, transactions transaction.ITransactionTable) *BudgetService {
	return &BudgetService{
		budgets:      budgets,
		transactions: transactions,
		now:          time.Now,
	}
}

// Status reports every budget of the user whose window has not ended.
func (s *BudgetService) Status(ctx context.Context, userID uuid.UUID) ([]BudgetStatus, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	budgets, err := s.budgets.ListActive(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.spent(ctx, userID, b)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, budgetStatus(b, spent))
	}
	return statuses, nil
}

func (s *BudgetService) spent(ctx context.Context, userID uuid.UUID, b *budget.Budget) (decimal.Decimal, error) {
	categoryID := b.CategoryID
	from := b.StartDate
	// end_date is inclusive for the whole day.
	to := b.EndDate.AddDate(0, 0, 1).Add(-time.Microsecond)

	if logData := logging.GetLogData(ctx); logData != nil {
		defer logData.AddToExistingTiming("listSpendingMs")()
	}

	rows, err := s.transactions.List(ctx, &transaction.TransactionFilter{
		UserID:     userID,
		CategoryID: &categoryID,
		Type:       transaction.TypeExpense,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for _, row := range rows {
		spent = spent.Add(row.EffectiveAmount())
	}
	return spent, nil
}

func budgetStatus(b *budget.Budget, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		BudgetID:     b.ID,
		CategoryID:   b.CategoryID,
		Category:     b.CategoryName,
		BudgetAmount: b.Amount,
		Spent:        spent,
		Status:       BudgetSafe,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
	}
	if status.Category == "" {
		status.Category = unknownCategory
	}

	var percentage decimal.Decimal
	switch {
	case b.Amount.IsPositive():
		percentage = spent.Div(b.Amount).Mul(hundred)
	case spent.IsPositive():
		percentage = hundred
	default:
		percentage = decimal.Zero
	}

	switch {
	case percentage.GreaterThanOrEqual(hundred):
		status.Status = BudgetExceeded
	case percentage.GreaterThanOrEqual(warningThreshold):
		status.Status = BudgetWarning
	}

	status.Percentage = decimal.Min(percentage, hundred).Round(2)
	return status
}
