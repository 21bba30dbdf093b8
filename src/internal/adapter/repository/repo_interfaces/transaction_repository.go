package repo_interfaces

import (
	"context"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	Update(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Transaction, error)
	// List returns one page of transactions matching the filter, newest
	// transaction date first, together with the total match count.
	List(ctx context.Context, filter domain.TransactionFilter, offset int, limit int) ([]domain.Transaction, int64, error)
	// SumByType groups the transactions matching the filter by type and sums
	// their amounts per group. Types with no matches are absent from the map.
	SumByType(ctx context.Context, filter domain.TransactionFilter) (map[domain.TransactionType]decimal.Decimal, error)
}
