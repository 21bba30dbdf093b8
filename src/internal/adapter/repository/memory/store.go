package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of repo_interfaces.Store. Atomic units
// are serialized behind one mutex and rolled back by restoring a snapshot of
// both record maps, so a failed unit leaves no partial writes behind.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	memberships  map[string]domain.Membership
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		memberships:  make(map[string]domain.Membership),
	}
}

func (s *Store) Accounts() repo_interfaces.AccountRepository {
	return &accountRepository{store: s, locking: true}
}

func (s *Store) Transactions() repo_interfaces.TransactionRepository {
	return &transactionRepository{store: s, locking: true}
}

func (s *Store) Memberships() repo_interfaces.MembershipRepository {
	return &membershipRepository{store: s}
}

func (s *Store) RunAtomic(_ context.Context, fn func(repos repo_interfaces.Atomic) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountSnapshot := copyMap(s.accounts)
	transactionSnapshot := copyMap(s.transactions)

	unit := &atomicUnit{store: s}
	if err := fn(unit); err != nil {
		s.accounts = accountSnapshot
		s.transactions = transactionSnapshot
		return err
	}

	return nil
}

type atomicUnit struct {
	store *Store
}

func (u *atomicUnit) Accounts() repo_interfaces.AccountRepository {
	return &accountRepository{store: u.store}
}

func (u *atomicUnit) Transactions() repo_interfaces.TransactionRepository {
	return &transactionRepository{store: u.store}
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type accountRepository struct {
	store *Store
	// locking repositories take the store mutex per call; unit-bound ones
	// run under the mutex RunAtomic already holds.
	locking bool
}

func (r *accountRepository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *accountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	defer r.lock()()

	for _, existing := range r.store.accounts {
		if existing.OrganizationID == account.OrganizationID {
			return domain.Account{}, domain.ErrInvalidInput
		}
	}

	now := time.Now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.store.accounts[account.ID] = account
	return account, nil
}

func (r *accountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	defer r.lock()()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (r *accountRepository) GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepository) GetByOrganizationID(_ context.Context, organizationID string) (domain.Account, error) {
	defer r.lock()()

	for _, account := range r.store.accounts {
		if account.OrganizationID == organizationID {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrRecordNotFound
}

func (r *accountRepository) List(_ context.Context) ([]domain.Account, error) {
	defer r.lock()()

	accounts := make([]domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *accountRepository) ListByUserMembership(_ context.Context, userID string) ([]domain.Account, error) {
	defer r.lock()()

	organizationIDs := make(map[string]struct{})
	for _, membership := range r.store.memberships {
		if membership.UserID == userID {
			organizationIDs[membership.OrganizationID] = struct{}{}
		}
	}

	accounts := make([]domain.Account, 0)
	for _, account := range r.store.accounts {
		if _, ok := organizationIDs[account.OrganizationID]; ok {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *accountRepository) SetBalance(_ context.Context, id string, balance decimal.Decimal) (domain.Account, error) {
	defer r.lock()()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	account.Balance = balance
	account.UpdatedAt = time.Now().UTC()
	r.store.accounts[id] = account
	return account, nil
}

type transactionRepository struct {
	store   *Store
	locking bool
}

func (r *transactionRepository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *transactionRepository) Create(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	defer r.lock()()

	if _, ok := r.store.accounts[transaction.AccountID]; !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}

	now := time.Now().UTC()
	transaction.ID = uuid.NewString()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	r.store.transactions[transaction.ID] = transaction
	return transaction, nil
}

func (r *transactionRepository) Update(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	defer r.lock()()

	existing, ok := r.store.transactions[transaction.ID]
	if !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}
	transaction.AccountID = existing.AccountID
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now().UTC()
	r.store.transactions[transaction.ID] = transaction
	return transaction, nil
}

func (r *transactionRepository) Delete(_ context.Context, id string) error {
	defer r.lock()()

	if _, ok := r.store.transactions[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store.transactions, id)
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	defer r.lock()()

	transaction, ok := r.store.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}
	return transaction, nil
}

func (r *transactionRepository) List(_ context.Context, filter domain.TransactionFilter, offset int, limit int) ([]domain.Transaction, int64, error) {
	defer r.lock()()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].TransactionDate.Equal(matched[j].TransactionDate) {
			return matched[i].TransactionDate.After(matched[j].TransactionDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []domain.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *transactionRepository) SumByType(_ context.Context, filter domain.TransactionFilter) (map[domain.TransactionType]decimal.Decimal, error) {
	defer r.lock()()

	sums := make(map[domain.TransactionType]decimal.Decimal)
	for _, transaction := range r.match(filter) {
		sums[transaction.TransactionType] = sums[transaction.TransactionType].Add(transaction.Amount)
	}
	return sums, nil
}

func (r *transactionRepository) match(filter domain.TransactionFilter) []domain.Transaction {
	matched := make([]domain.Transaction, 0)
	for _, transaction := range r.store.transactions {
		if filter.AccountID != "" && transaction.AccountID != filter.AccountID {
			continue
		}
		if filter.OrganizationID != "" {
			account, ok := r.store.accounts[transaction.AccountID]
			if !ok || account.OrganizationID != filter.OrganizationID {
				continue
			}
		}
		if filter.TransactionType != "" && transaction.TransactionType != filter.TransactionType {
			continue
		}
		if filter.StartDate != nil && transaction.TransactionDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && transaction.TransactionDate.After(*filter.EndDate) {
			continue
		}
		if filter.MinAmount != nil && transaction.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && transaction.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		matched = append(matched, transaction)
	}
	return matched
}

type membershipRepository struct {
	store *Store
}

func (r *membershipRepository) Add(_ context.Context, membership domain.Membership) (domain.Membership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.memberships {
		if existing.OrganizationID == membership.OrganizationID && existing.UserID == membership.UserID {
			existing.Role = membership.Role
			r.store.memberships[id] = existing
			return existing, nil
		}
	}

	membership.ID = uuid.NewString()
	membership.CreatedAt = time.Now().UTC()
	r.store.memberships[membership.ID] = membership
	return membership, nil
}

func (r *membershipRepository) Remove(_ context.Context, organizationID string, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, membership := range r.store.memberships {
		if membership.OrganizationID == organizationID && membership.UserID == userID {
			delete(r.store.memberships, id)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (r *membershipRepository) GetRole(_ context.Context, organizationID string, userID string) (domain.MembershipRole, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, membership := range r.store.memberships {
		if membership.OrganizationID == organizationID && membership.UserID == userID {
			return membership.Role, nil
		}
	}
	return "", domain.ErrRecordNotFound
}

func (r *membershipRepository) ListByOrganizationID(_ context.Context, organizationID string) ([]domain.Membership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	memberships := make([]domain.Membership, 0)
	for _, membership := range r.store.memberships {
		if membership.OrganizationID == organizationID {
			memberships = append(memberships, membership)
		}
	}
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].CreatedAt.Before(memberships[j].CreatedAt)
	})
	return memberships, nil
}
