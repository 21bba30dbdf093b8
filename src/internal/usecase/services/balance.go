package services

import (
	"context"
	"fmt"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
	"github.com/shopspring/decimal"
)

// BalanceMutator is the single writer of Account.Balance. It is always bound
// to the account repository of one atomic unit, so the balance write commits
// or aborts together with its sibling transaction-record writes.
type BalanceMutator struct {
	accounts repo_interfaces.AccountRepository
}

func NewBalanceMutator(accounts repo_interfaces.AccountRepository) *BalanceMutator {
	return &BalanceMutator{accounts: accounts}
}

// ComputeDelta returns the signed balance change of one transaction:
// positive for DEPOSIT and INCOME, negative for WITHDRAWAL and PAYMENT.
func ComputeDelta(transactionType domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if transactionType.Inflow() {
		return amount
	}
	return amount.Neg()
}

// Apply adds delta to the account's balance. The balance is read with a row
// lock, so concurrent mutations of the same account serialize. A result below
// zero aborts with domain.ErrInsufficientFunds and writes nothing.
func (m *BalanceMutator) Apply(ctx context.Context, accountID string, delta decimal.Decimal) (domain.Account, error) {
	account, err := m.accounts.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		logger.Info("balance mutator rejected mutation below zero", logger.Fields{
			"accountId": accountID,
			"balance":   account.Balance,
			"delta":     delta,
		})
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	updated, err := m.accounts.SetBalance(ctx, accountID, newBalance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("persist balance: %w", err)
	}

	return updated, nil
}

// Reverse undoes a previously applied effect. It is subject to the same
// non-negative floor: reversing an outflow can fail when other committed
// transactions have since consumed the funds.
func (m *BalanceMutator) Reverse(ctx context.Context, accountID string, amount decimal.Decimal, transactionType domain.TransactionType) (domain.Account, error) {
	return m.Apply(ctx, accountID, ComputeDelta(transactionType, amount).Neg())
}
