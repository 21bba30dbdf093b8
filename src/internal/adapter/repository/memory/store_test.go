package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/domain"
)

func seedAccount(t *testing.T, store *Store) domain.Account {
	t.Helper()
	account, err := store.Accounts().Create(context.Background(), domain.Account{
		OrganizationID: "org-1",
		Name:           "Operating",
		AccountType:    domain.AccountTypeOperating,
		Balance:        decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func TestRunAtomicCommitsOnSuccess(t *testing.T) {
	store := NewStore()
	account := seedAccount(t, store)
	ctx := context.Background()

	err := store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		if _, err := repos.Transactions().Create(ctx, domain.Transaction{
			AccountID:       account.ID,
			Amount:          decimal.NewFromInt(10),
			TransactionType: domain.TransactionTypeDeposit,
			TransactionCode: "TX-1",
		}); err != nil {
			return err
		}
		_, err := repos.Accounts().SetBalance(ctx, account.ID, decimal.NewFromInt(110))
		return err
	})
	if err != nil {
		t.Fatalf("run atomic: %v", err)
	}

	persisted, err := store.Accounts().GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !persisted.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected balance 110, got %s", persisted.Balance)
	}
	_, total, err := store.Transactions().List(ctx, domain.TransactionFilter{AccountID: account.ID}, 0, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 transaction, got %d", total)
	}
}

func TestRunAtomicRollsBackAllWrites(t *testing.T) {
	store := NewStore()
	account := seedAccount(t, store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		if _, err := repos.Transactions().Create(ctx, domain.Transaction{
			AccountID:       account.ID,
			Amount:          decimal.NewFromInt(10),
			TransactionType: domain.TransactionTypeDeposit,
			TransactionCode: "TX-1",
		}); err != nil {
			return err
		}
		if _, err := repos.Accounts().SetBalance(ctx, account.ID, decimal.NewFromInt(110)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected unit error to surface, got %v", err)
	}

	persisted, err := store.Accounts().GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !persisted.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance restored to 100, got %s", persisted.Balance)
	}
	_, total, err := store.Transactions().List(ctx, domain.TransactionFilter{AccountID: account.ID}, 0, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no transactions after rollback, got %d", total)
	}
}

func TestTransactionFilterMatching(t *testing.T) {
	store := NewStore()
	account := seedAccount(t, store)
	ctx := context.Background()

	for _, seed := range []struct {
		amount string
		kind   domain.TransactionType
		code   string
	}{
		{"100", domain.TransactionTypeDeposit, "TX-1"},
		{"40", domain.TransactionTypeWithdrawal, "TX-2"},
		{"15", domain.TransactionTypePayment, "TX-3"},
	} {
		if _, err := store.Transactions().Create(ctx, domain.Transaction{
			AccountID:       account.ID,
			Amount:          decimal.RequireFromString(seed.amount),
			TransactionType: seed.kind,
			TransactionCode: seed.code,
		}); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}

	_, total, err := store.Transactions().List(ctx, domain.TransactionFilter{
		AccountID:       account.ID,
		TransactionType: domain.TransactionTypeWithdrawal,
	}, 0, 10)
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 withdrawal, got %d", total)
	}

	minAmount := decimal.NewFromInt(30)
	_, total, err = store.Transactions().List(ctx, domain.TransactionFilter{
		AccountID: account.ID,
		MinAmount: &minAmount,
	}, 0, 10)
	if err != nil {
		t.Fatalf("list by min amount: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 transactions at or above 30, got %d", total)
	}

	sums, err := store.Transactions().SumByType(ctx, domain.TransactionFilter{AccountID: account.ID})
	if err != nil {
		t.Fatalf("sum by type: %v", err)
	}
	if !sums[domain.TransactionTypeDeposit].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected deposit sum 100, got %s", sums[domain.TransactionTypeDeposit])
	}
	if !sums[domain.TransactionTypePayment].Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected payment sum 15, got %s", sums[domain.TransactionTypePayment])
	}
}

func TestAccountCreateEnforcesOnePerOrganization(t *testing.T) {
	store := NewStore()
	seedAccount(t, store)

	_, err := store.Accounts().Create(context.Background(), domain.Account{
		OrganizationID: "org-1",
		Name:           "Second",
		AccountType:    domain.AccountTypeSavings,
		Balance:        decimal.Zero,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate organization account, got %v", err)
	}
}
