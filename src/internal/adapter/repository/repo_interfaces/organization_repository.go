package repo_interfaces

import (
	"context"

	"github.com/orgbook/orgbook-api/src/internal/domain"
)

type OrganizationRepository interface {
	Create(ctx context.Context, organization domain.Organization) (domain.Organization, error)
	GetByID(ctx context.Context, id string) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	ListByUserMembership(ctx context.Context, userID string) ([]domain.Organization, error)
	Update(ctx context.Context, organization domain.Organization) (domain.Organization, error)
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	Add(ctx context.Context, membership domain.Membership) (domain.Membership, error)
	Remove(ctx context.Context, organizationID string, userID string) error
	// GetRole returns the requester's role inside the organization or
	// domain.ErrRecordNotFound when no membership exists.
	GetRole(ctx context.Context, organizationID string, userID string) (domain.MembershipRole, error)
	ListByOrganizationID(ctx context.Context, organizationID string) ([]domain.Membership, error)
}
