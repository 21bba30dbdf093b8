package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/memory"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/usecase/services"
)

type capturingPublisher struct {
	events []any
}

func (p *capturingPublisher) Publish(_ context.Context, event any) error {
	p.events = append(p.events, event)
	return nil
}

type ledgerFixture struct {
	store     *memory.Store
	service   *services.LedgerService
	publisher *capturingPublisher
	account   domain.Account
	admin     domain.Requester
	member    domain.Requester
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	account, err := store.Accounts().Create(ctx, domain.Account{
		OrganizationID: "org-1",
		Name:           "Operating",
		AccountType:    domain.AccountTypeOperating,
		Balance:        decimal.Zero,
	})
	require.NoError(t, err)

	_, err = store.Memberships().Add(ctx, domain.Membership{
		OrganizationID: "org-1",
		UserID:         "member-1",
		Role:           domain.MembershipRoleMember,
	})
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	accessService := services.NewAccessService(store.Memberships())
	service := services.NewLedgerService(store, accessService, publisher)

	return &ledgerFixture{
		store:     store,
		service:   service,
		publisher: publisher,
		account:   account,
		admin:     domain.Requester{UserID: "admin-1", Role: domain.UserRoleAdmin},
		member:    domain.Requester{UserID: "member-1", Role: domain.UserRoleUser},
	}
}

func (f *ledgerFixture) create(t *testing.T, amount string, transactionType string, code string) models.TransactionResponse {
	t.Helper()

	response, err := f.service.CreateTransaction(context.Background(), f.member, models.CreateTransactionRequest{
		AccountID:       f.account.ID,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: transactionType,
		TransactionDate: "2026-03-01",
		TransactionCode: code,
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	return *response.Data
}

func (f *ledgerFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()

	account, err := f.store.Accounts().GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	return account.Balance
}

func TestLedgerServiceCreateAppliesSignedDelta(t *testing.T) {
	f := newLedgerFixture(t)

	created := f.create(t, "100", "DEPOSIT", "TX-1")
	require.NotNil(t, created.Account)
	require.True(t, created.Account.Balance.Equal(decimal.NewFromInt(100)))

	f.create(t, "30", "WITHDRAWAL", "TX-2")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(70)))

	f.create(t, "50", "INCOME", "TX-3")
	f.create(t, "20", "PAYMENT", "TX-4")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(100)))

	require.Len(t, f.publisher.events, 4)
}

func TestLedgerServiceCreateRejectsOverdraft(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "50", "DEPOSIT", "TX-1")

	response, err := f.service.CreateTransaction(context.Background(), f.member, models.CreateTransactionRequest{
		AccountID:       f.account.ID,
		Amount:          decimal.NewFromInt(80),
		TransactionType: "WITHDRAWAL",
		TransactionDate: "2026-03-01",
		TransactionCode: "TX-2",
	})
	require.True(t, errors.Is(err, domain.ErrInsufficientFunds))
	require.False(t, response.Success)

	// The failed unit must leave no transaction record behind.
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(50)))
	_, total, listErr := f.store.Transactions().List(context.Background(), domain.TransactionFilter{AccountID: f.account.ID}, 0, 10)
	require.NoError(t, listErr)
	require.Equal(t, int64(1), total)
}

func TestLedgerServiceCreateValidation(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.service.CreateTransaction(context.Background(), f.member, models.CreateTransactionRequest{})
	require.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.service.CreateTransaction(context.Background(), f.member, models.CreateTransactionRequest{
		AccountID:       f.account.ID,
		Amount:          decimal.NewFromInt(-5),
		TransactionType: "DEPOSIT",
		TransactionDate: "2026-03-01",
		TransactionCode: "TX-NEG",
	})
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLedgerServiceCreateForbiddenWithoutMembership(t *testing.T) {
	f := newLedgerFixture(t)

	outsider := domain.Requester{UserID: "stranger", Role: domain.UserRoleUser}
	_, err := f.service.CreateTransaction(context.Background(), outsider, models.CreateTransactionRequest{
		AccountID:       f.account.ID,
		Amount:          decimal.NewFromInt(10),
		TransactionType: "DEPOSIT",
		TransactionDate: "2026-03-01",
		TransactionCode: "TX-X",
	})
	require.True(t, errors.Is(err, domain.ErrForbidden))
	require.True(t, f.balance(t).Equal(decimal.Zero))
}

func TestLedgerServiceUpdateRebalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "100", "DEPOSIT", "TX-1")
	created := f.create(t, "30", "WITHDRAWAL", "TX-2")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(70)))

	newAmount := decimal.NewFromInt(10)
	response, err := f.service.UpdateTransaction(context.Background(), f.member, created.ID, models.UpdateTransactionRequest{
		Amount: &newAmount,
	})
	require.NoError(t, err)
	require.True(t, response.Data.Amount.Equal(newAmount))

	// 100 - 30 reversed to 100, then -10 applied.
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(90)))
}

func TestLedgerServiceUpdateTypeFlipRebalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "100", "DEPOSIT", "TX-1")
	created := f.create(t, "40", "WITHDRAWAL", "TX-2")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(60)))

	flipped := "INCOME"
	_, err := f.service.UpdateTransaction(context.Background(), f.member, created.ID, models.UpdateTransactionRequest{
		TransactionType: &flipped,
	})
	require.NoError(t, err)

	// Reversing -40 and applying +40 moves the balance by 80.
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(140)))
}

func TestLedgerServiceUpdateRollsBackOnFloorViolation(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "100", "DEPOSIT", "TX-1")
	created := f.create(t, "30", "WITHDRAWAL", "TX-2")

	tooLarge := decimal.NewFromInt(500)
	_, err := f.service.UpdateTransaction(context.Background(), f.member, created.ID, models.UpdateTransactionRequest{
		Amount: &tooLarge,
	})
	require.True(t, errors.Is(err, domain.ErrInsufficientFunds))

	// Balance and the stored transaction both keep their original values.
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(70)))
	stored, getErr := f.store.Transactions().GetByID(context.Background(), created.ID)
	require.NoError(t, getErr)
	require.True(t, stored.Amount.Equal(decimal.NewFromInt(30)))
}

func TestLedgerServiceBalanceNeutralUpdateSkipsRebalance(t *testing.T) {
	f := newLedgerFixture(t)
	created := f.create(t, "100", "DEPOSIT", "TX-1")

	description := "march rent prepayment"
	response, err := f.service.UpdateTransaction(context.Background(), f.member, created.ID, models.UpdateTransactionRequest{
		Description: &description,
	})
	require.NoError(t, err)
	require.Equal(t, &description, response.Data.Description)
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(100)))
}

func TestLedgerServiceDeleteReversesEffect(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "100", "DEPOSIT", "TX-1")
	created := f.create(t, "30", "WITHDRAWAL", "TX-2")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(70)))

	response, err := f.service.DeleteTransaction(context.Background(), f.member, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, response.Data.TransactionID)

	require.True(t, f.balance(t).Equal(decimal.NewFromInt(100)))
	_, getErr := f.store.Transactions().GetByID(context.Background(), created.ID)
	require.True(t, errors.Is(getErr, domain.ErrRecordNotFound))
}

func TestLedgerServiceDeleteDepositBlockedByFloor(t *testing.T) {
	f := newLedgerFixture(t)
	deposit := f.create(t, "100", "DEPOSIT", "TX-1")
	f.create(t, "80", "WITHDRAWAL", "TX-2")
	require.True(t, f.balance(t).Equal(decimal.NewFromInt(20)))

	// Removing the deposit would take the balance to -80.
	_, err := f.service.DeleteTransaction(context.Background(), f.member, deposit.ID)
	require.True(t, errors.Is(err, domain.ErrInsufficientFunds))

	require.True(t, f.balance(t).Equal(decimal.NewFromInt(20)))
	_, getErr := f.store.Transactions().GetByID(context.Background(), deposit.ID)
	require.NoError(t, getErr)
}

func TestLedgerServiceDeleteNotFound(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.service.DeleteTransaction(context.Background(), f.member, "missing")
	require.True(t, errors.Is(err, domain.ErrRecordNotFound))
}

func TestLedgerServiceBalanceMatchesSumOfDeltas(t *testing.T) {
	f := newLedgerFixture(t)

	entries := []struct {
		amount string
		kind   string
	}{
		{"250", "DEPOSIT"},
		{"75.50", "WITHDRAWAL"},
		{"120.25", "INCOME"},
		{"60", "PAYMENT"},
		{"10.10", "DEPOSIT"},
	}
	expected := decimal.Zero
	for i, entry := range entries {
		f.create(t, entry.amount, entry.kind, "TX-"+entry.kind+string(rune('A'+i)))
		delta := services.ComputeDelta(domain.TransactionType(entry.kind), decimal.RequireFromString(entry.amount))
		expected = expected.Add(delta)
	}

	require.True(t, f.balance(t).Equal(expected))
}

func TestLedgerServiceListWithSummary(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "100", "DEPOSIT", "TX-1")
	f.create(t, "30", "WITHDRAWAL", "TX-2")
	f.create(t, "50", "INCOME", "TX-3")

	response, err := f.service.ListTransactions(context.Background(), f.member, models.ListTransactionsQuery{
		AccountID: f.account.ID,
	})
	require.NoError(t, err)

	data := response.Data
	require.Equal(t, int64(3), data.Total)
	require.Len(t, data.Items, 3)
	require.True(t, data.Summary.Deposits.Equal(decimal.NewFromInt(100)))
	require.True(t, data.Summary.Withdrawals.Equal(decimal.NewFromInt(30)))
	require.True(t, data.Summary.Income.Equal(decimal.NewFromInt(50)))
	require.True(t, data.Summary.TotalAmount.Equal(decimal.NewFromInt(180)))

	// Summarizing again over an unchanged ledger returns the same figures.
	again, err := f.service.ListTransactions(context.Background(), f.member, models.ListTransactionsQuery{
		AccountID: f.account.ID,
	})
	require.NoError(t, err)
	require.True(t, again.Data.Summary.TotalAmount.Equal(data.Summary.TotalAmount))
}

func TestLedgerServiceListPagination(t *testing.T) {
	f := newLedgerFixture(t)
	for i := 0; i < 5; i++ {
		f.create(t, "10", "DEPOSIT", "TX-"+string(rune('A'+i)))
	}

	response, err := f.service.ListTransactions(context.Background(), f.member, models.ListTransactionsQuery{
		AccountID: f.account.ID,
		Page:      2,
		Limit:     2,
	})
	require.NoError(t, err)

	data := response.Data
	require.Equal(t, int64(5), data.Total)
	require.Len(t, data.Items, 2)
	require.Equal(t, 2, data.PageInfo.Page)
	require.Equal(t, int64(3), data.PageInfo.TotalPages)

	// The summary covers the whole filtered set, not just the page.
	require.True(t, data.Summary.Deposits.Equal(decimal.NewFromInt(50)))
}

func TestLedgerServiceListUnfilteredRequiresAdmin(t *testing.T) {
	f := newLedgerFixture(t)
	f.create(t, "10", "DEPOSIT", "TX-1")

	_, err := f.service.ListTransactions(context.Background(), f.member, models.ListTransactionsQuery{})
	require.True(t, errors.Is(err, domain.ErrForbidden))

	response, err := f.service.ListTransactions(context.Background(), f.admin, models.ListTransactionsQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), response.Data.Total)
}

func TestLedgerServiceListLimitCap(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.service.ListTransactions(context.Background(), f.admin, models.ListTransactionsQuery{
		Limit: 500,
	})
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLedgerServiceGetTransactionAccess(t *testing.T) {
	f := newLedgerFixture(t)
	created := f.create(t, "10", "DEPOSIT", "TX-1")

	response, err := f.service.GetTransaction(context.Background(), f.member, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, response.Data.ID)

	outsider := domain.Requester{UserID: "stranger", Role: domain.UserRoleUser}
	_, err = f.service.GetTransaction(context.Background(), outsider, created.ID)
	require.True(t, errors.Is(err, domain.ErrForbidden))
}
