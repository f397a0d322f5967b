package auditlog

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

// ActionCreateTransaction is recorded for every ingested transaction.
const ActionCreateTransaction = "create_transaction"

// Entry is one append-only audit row.
type Entry struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Action    string    `db:"action"`
	IPHash    string    `db:"ip_hash"`
	UserAgent *string   `db:"user_agent"`
	Metadata  Metadata  `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// EntryCreate is the input for appending an audit row.
type EntryCreate struct {
	UserID    uuid.UUID
	Action    string
	IPHash    string
	UserAgent *string
	Metadata  Metadata
}

// Metadata references the record the action touched.
type Metadata struct {
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
}

func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

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
		return errors.New("auditlog: unsupported metadata type")
	}
}

// IAuditLogTable appends audit entries. Entries are never updated or deleted.
//go:generate mockery --name IAuditLogTable --inpackage --with-expecter --filename mock_IAuditLogTable.go --output .
type IAuditLogTable interface {
	Insert(ctx context.Context, create *EntryCreate) (*Entry, error)
}

var _ IAuditLogTable = (*Table)(nil)

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func (t *Table) Insert(ctx context.Context, create *EntryCreate) (*Entry, error) {
	q := psql.Insert(
		im.Into("logs", "user_id", "action", "ip_hash", "user_agent", "metadata"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Action),
			psql.Arg(create.IPHash),
			psql.Arg(create.UserAgent),
			psql.Arg(create.Metadata),
		),
		im.Returning(
			psql.Quote("id"), psql.Quote("user_id"), psql.Quote("action"), psql.Quote("ip_hash"),
			psql.Quote("user_agent"), psql.Quote("metadata"), psql.Quote("created_at"),
		),
	)

	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Entry]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}
