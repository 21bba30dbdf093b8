package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repository code runs both standalone and inside an atomic unit.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repo_interfaces.Store on top of database/sql transactions.
// Serialization of concurrent balance mutations on one account comes from the
// row lock taken by GetByIDForUpdate inside the transaction.
type Store struct {
	db           *sql.DB
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *Store) Accounts() repo_interfaces.AccountRepository {
	return s.accounts
}

func (s *Store) Transactions() repo_interfaces.TransactionRepository {
	return s.transactions
}

func (s *Store) RunAtomic(ctx context.Context, fn func(repos repo_interfaces.Atomic) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("store begin atomic unit failed", err, nil)
		return fmt.Errorf("begin atomic unit: %w", err)
	}

	unit := &atomicUnit{
		accounts:     &AccountRepository{db: tx},
		transactions: &TransactionRepository{db: tx},
	}

	if err := fn(unit); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("store rollback atomic unit failed", rbErr, nil)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("store commit atomic unit failed", err, nil)
		return fmt.Errorf("commit atomic unit: %w", err)
	}

	return nil
}

type atomicUnit struct {
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func (u *atomicUnit) Accounts() repo_interfaces.AccountRepository {
	return u.accounts
}

func (u *atomicUnit) Transactions() repo_interfaces.TransactionRepository {
	return u.transactions
}
