package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db dbtx
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"accountId":       transaction.AccountID,
		"amount":          transaction.Amount,
		"transactionType": transaction.TransactionType,
		"transactionCode": transaction.TransactionCode,
	})

	const query = `
INSERT INTO transactions (
	account_id,
	amount,
	transaction_type,
	description,
	transaction_date,
	transaction_code
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	var id string
	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.AccountID,
		transaction.Amount,
		transaction.TransactionType,
		transaction.Description,
		transaction.TransactionDate,
		transaction.TransactionCode,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("transaction repository create failed", err, logger.Fields{
			"accountId": transaction.AccountID,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	transaction.ID = id
	transaction.CreatedAt = createdAt
	transaction.UpdatedAt = updatedAt

	logger.Info("transaction repository create success", logger.Fields{
		"transactionId": transaction.ID,
		"accountId":     transaction.AccountID,
	})

	return transaction, nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository update", logger.Fields{
		"transactionId":   transaction.ID,
		"amount":          transaction.Amount,
		"transactionType": transaction.TransactionType,
	})

	const query = `
UPDATE transactions
SET amount = $2,
    transaction_type = $3,
    description = $4,
    transaction_date = $5,
    transaction_code = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.ID,
		transaction.Amount,
		transaction.TransactionType,
		transaction.Description,
		transaction.TransactionDate,
		transaction.TransactionCode,
	).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.ErrRecordNotFound
		}
		logger.Error("transaction repository update failed", err, logger.Fields{
			"transactionId": transaction.ID,
		})
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	transaction.CreatedAt = createdAt
	transaction.UpdatedAt = updatedAt

	logger.Info("transaction repository update success", logger.Fields{
		"transactionId": transaction.ID,
	})

	return transaction, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	logger.Info("transaction repository delete", logger.Fields{
		"transactionId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		logger.Error("transaction repository delete failed", err, logger.Fields{
			"transactionId": id,
		})
		return fmt.Errorf("delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	logger.Info("transaction repository delete success", logger.Fields{
		"transactionId": id,
	})
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `
SELECT id, account_id, amount, transaction_type, description, transaction_date, transaction_code, created_at, updated_at
FROM transactions
WHERE id = $1`

	var transaction domain.Transaction
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&transaction.ID,
		&transaction.AccountID,
		&transaction.Amount,
		&transaction.TransactionType,
		&transaction.Description,
		&transaction.TransactionDate,
		&transaction.TransactionCode,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.ErrRecordNotFound
		}
		logger.Error("transaction repository get failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	return transaction, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter, offset int, limit int) ([]domain.Transaction, int64, error) {
	where, args := buildTransactionFilter(filter)

	countQuery := `
SELECT COUNT(*)
FROM transactions t
JOIN accounts a ON a.id = t.account_id` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("transaction repository count failed", err, nil)
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	listQuery := fmt.Sprintf(`
SELECT t.id, t.account_id, t.amount, t.transaction_type, t.description, t.transaction_date, t.transaction_code, t.created_at, t.updated_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id%s
ORDER BY t.transaction_date DESC, t.created_at DESC
LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, listQuery, append(args, limit, offset)...)
	if err != nil {
		logger.Error("transaction repository list failed", err, nil)
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(
			&transaction.ID,
			&transaction.AccountID,
			&transaction.Amount,
			&transaction.TransactionType,
			&transaction.Description,
			&transaction.TransactionDate,
			&transaction.TransactionCode,
			&transaction.CreatedAt,
			&transaction.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return transactions, total, nil
}

func (r *TransactionRepository) SumByType(ctx context.Context, filter domain.TransactionFilter) (map[domain.TransactionType]decimal.Decimal, error) {
	where, args := buildTransactionFilter(filter)

	query := `
SELECT t.transaction_type, COALESCE(SUM(t.amount), 0)
FROM transactions t
JOIN accounts a ON a.id = t.account_id` + where + `
GROUP BY t.transaction_type`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transaction repository sum by type failed", err, nil)
		return nil, fmt.Errorf("sum transactions by type: %w", err)
	}
	defer rows.Close()

	sums := make(map[domain.TransactionType]decimal.Decimal)
	for rows.Next() {
		var transactionType domain.TransactionType
		var sum decimal.Decimal
		if err := rows.Scan(&transactionType, &sum); err != nil {
			return nil, fmt.Errorf("scan transaction sum row: %w", err)
		}
		sums[transactionType] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction sum rows: %w", err)
	}

	return sums, nil
}

func buildTransactionFilter(filter domain.TransactionFilter) (string, []any) {
	conditions := make([]string, 0, 7)
	args := make([]any, 0, 7)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.AccountID != "" {
		add("t.account_id = $%d", filter.AccountID)
	}
	if filter.OrganizationID != "" {
		add("a.organization_id = $%d", filter.OrganizationID)
	}
	if filter.TransactionType != "" {
		add("t.transaction_type = $%d", filter.TransactionType)
	}
	if filter.StartDate != nil {
		add("t.transaction_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("t.transaction_date <= $%d", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		add("t.amount >= $%d", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		add("t.amount <= $%d", *filter.MaxAmount)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return "\nWHERE " + strings.Join(conditions, "\n  AND "), args
}
