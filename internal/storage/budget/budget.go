package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/scan"
)

// Budget is a spending cap for one category over a date window.
type Budget struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	CategoryID   uuid.UUID       `db:"category_id"`
	CategoryName string          `db:"category_name"`
	Amount       decimal.Decimal `db:"amount"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
}

//go:generate mockery --name IBudgetTable --inpackage --with-expecter --filename mock_IBudgetTable.go --output .
type IBudgetTable interface {
	ListActive(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*Budget, error)
}

var _ IBudgetTable = (*Table)(nil)

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

const listActiveQuery = `
SELECT b.id, b.user_id, b.category_id, COALESCE(c.name, '') AS category_name,
       b.amount, b.start_date, b.end_date
FROM budgets b
LEFT JOIN categories c ON c.id = b.category_id
WHERE b.user_id = ? AND b.end_date >= ?
ORDER BY b.end_date, b.id`

// ListActive returns the budgets whose window has not ended by asOf.
func (t *Table) ListActive(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*Budget, error) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	q := psql.RawQuery(listActiveQuery, userID, day)

	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[Budget]())
	if err != nil {
		return nil, err
	}

	result := make([]*Budget, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
