package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/fintrack-server/internal/config"
	"github.com/carson-networks/fintrack-server/internal/storage/budget"
	"github.com/carson-networks/fintrack-server/internal/storage/transaction"
)

type Storage struct {
	DB           *sql.DB
	exec         bob.DB
	Transactions transaction.ITransactionTable
	Budgets      budget.IBudgetTable
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return FromDB(db), nil
}

// FromDB wraps an already opened connection pool.
func FromDB(db *sql.DB) *Storage {
	exec := bob.NewDB(db)
	return &Storage{
		DB:           db,
		exec:         exec,
		Transactions: transaction.NewTable(exec),
		Budgets:      budget.NewTable(exec),
	}
}

// Write opens a database transaction. The returned Writer must be committed
// or rolled back by the caller.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.exec.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
