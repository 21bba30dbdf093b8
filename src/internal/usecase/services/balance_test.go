package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/memory"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/usecase/services"
)

func TestComputeDeltaSigns(t *testing.T) {
	amount := decimal.NewFromInt(25)

	cases := []struct {
		kind     domain.TransactionType
		expected decimal.Decimal
	}{
		{domain.TransactionTypeDeposit, amount},
		{domain.TransactionTypeIncome, amount},
		{domain.TransactionTypeWithdrawal, amount.Neg()},
		{domain.TransactionTypePayment, amount.Neg()},
	}

	for _, tc := range cases {
		if got := services.ComputeDelta(tc.kind, amount); !got.Equal(tc.expected) {
			t.Fatalf("%s: expected delta %s, got %s", tc.kind, tc.expected, got)
		}
	}
}

func TestBalanceMutatorApplyAndReverse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account, err := store.Accounts().Create(ctx, domain.Account{
		OrganizationID: "org-1",
		Name:           "Operating",
		AccountType:    domain.AccountTypeOperating,
		Balance:        decimal.Zero,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	mutator := services.NewBalanceMutator(store.Accounts())

	updated, err := mutator.Apply(ctx, account.ID, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100, got %s", updated.Balance)
	}

	updated, err = mutator.Reverse(ctx, account.ID, decimal.NewFromInt(40), domain.TransactionTypeWithdrawal)
	if err != nil {
		t.Fatalf("reverse withdrawal: %v", err)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("expected balance 140 after reversing a withdrawal, got %s", updated.Balance)
	}
}

func TestBalanceMutatorRejectsNegativeResult(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account, err := store.Accounts().Create(ctx, domain.Account{
		OrganizationID: "org-1",
		Name:           "Operating",
		AccountType:    domain.AccountTypeOperating,
		Balance:        decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	mutator := services.NewBalanceMutator(store.Accounts())

	if _, err := mutator.Apply(ctx, account.ID, decimal.NewFromInt(-11)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	persisted, err := store.Accounts().GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !persisted.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected balance untouched at 10, got %s", persisted.Balance)
	}
}

func TestBalanceMutatorAllowsExactZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account, err := store.Accounts().Create(ctx, domain.Account{
		OrganizationID: "org-1",
		Name:           "Operating",
		AccountType:    domain.AccountTypeOperating,
		Balance:        decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	mutator := services.NewBalanceMutator(store.Accounts())

	updated, err := mutator.Apply(ctx, account.ID, decimal.NewFromInt(-10))
	if err != nil {
		t.Fatalf("apply to zero: %v", err)
	}
	if !updated.Balance.IsZero() {
		t.Fatalf("expected balance zero, got %s", updated.Balance)
	}
}
