package transaction

import (
	"context"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const tableName = "transactions"

var insertColumns = []string{
	"user_id", "amount", "currency", "type", "merchant", "notes", "category_id",
	"account_id", "family_member_id", "timestamp", "tags", "ip_hash", "metadata",
}

var selectColumns = []string{
	"id", "user_id", "amount", "currency", "type", "merchant", "notes", "category_id",
	"account_id", "family_member_id", "timestamp", "tags", "ip_hash", "metadata", "created_at",
}

var _ ITransactionTable = (*Table)(nil)

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func quotedColumns() []any {
	cols := make([]any, len(selectColumns))
	for i, c := range selectColumns {
		cols[i] = psql.Quote(c)
	}
	return cols
}

// Insert stores a new transaction and returns the row as persisted.
func (t *Table) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	q := psql.Insert(
		im.Into(tableName, insertColumns...),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Amount),
			psql.Arg(create.Currency),
			psql.Arg(create.Type),
			psql.Arg(create.Merchant),
			psql.Arg(create.Notes),
			psql.Arg(create.CategoryID),
			psql.Arg(create.AccountID),
			psql.Arg(create.FamilyMemberID),
			psql.Arg(create.Timestamp),
			psql.Arg(stringArray(create.Tags)),
			psql.Arg(create.IPHash),
			psql.Arg(create.Metadata),
		),
		im.Returning(quotedColumns()...),
	)

	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns the caller's transactions matching the filter, newest first.
func (t *Table) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(quotedColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.Type != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(filter.Type))))
	}
	if filter.From != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("timestamp").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("timestamp").LTE(psql.Arg(*filter.To))))
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("timestamp")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// stringArray keeps absent tags as SQL NULL instead of an empty array.
func stringArray(tags []string) any {
	if tags == nil {
		return nil
	}
	return pq.StringArray(tags)
}
