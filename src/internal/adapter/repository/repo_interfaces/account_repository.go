package repo_interfaces

import (
	"context"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	// GetByIDForUpdate reads the account while locking its row for the
	// remainder of the enclosing atomic unit. Outside an atomic unit it
	// behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error)
	GetByOrganizationID(ctx context.Context, organizationID string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByUserMembership(ctx context.Context, userID string) ([]domain.Account, error)
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) (domain.Account, error)
}
