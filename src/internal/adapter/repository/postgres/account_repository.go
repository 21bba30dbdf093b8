package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db dbtx
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, organization_id, name, account_type, balance, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"organizationId": account.OrganizationID,
		"name":           account.Name,
		"accountType":    account.AccountType,
	})

	const query = `
INSERT INTO accounts (
	organization_id,
	name,
	account_type,
	balance
) VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`

	var id string
	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.OrganizationID,
		account.Name,
		account.AccountType,
		account.Balance,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"organizationId": account.OrganizationID,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"accountId":      account.ID,
		"organizationId": account.OrganizationID,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1`

	return r.scanOne(ctx, query, id)
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
FOR UPDATE`

	return r.scanOne(ctx, query, id)
}

func (r *AccountRepository) GetByOrganizationID(ctx context.Context, organizationID string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE organization_id = $1`

	return r.scanOne(ctx, query, organizationID)
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
ORDER BY created_at DESC`

	return r.scanMany(ctx, query)
}

func (r *AccountRepository) ListByUserMembership(ctx context.Context, userID string) ([]domain.Account, error) {
	const query = `
SELECT a.id, a.organization_id, a.name, a.account_type, a.balance, a.created_at, a.updated_at
FROM accounts a
JOIN memberships m ON m.organization_id = a.organization_id
WHERE m.user_id = $1
ORDER BY a.created_at DESC`

	return r.scanMany(ctx, query, userID)
}

func (r *AccountRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository set balance", logger.Fields{
		"accountId": id,
		"balance":   balance,
	})

	const query = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	account, err := r.scanOne(ctx, query, id, balance)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			logger.Error("account repository set balance failed", err, logger.Fields{
				"accountId": id,
			})
		}
		return domain.Account{}, err
	}

	logger.Info("account repository set balance success", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance,
	})

	return account, nil
}

func (r *AccountRepository) scanOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.OrganizationID,
		&account.Name,
		&account.AccountType,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository query failed", err, nil)
		return domain.Account{}, fmt.Errorf("query account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.OrganizationID,
			&account.Name,
			&account.AccountType,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}
