package service_interfaces

import (
	"context"

	"github.com/orgbook/orgbook-api/src/internal/domain"
)

// AccessGate decides whether a requester may act on resources of an
// organization. A nil return means authorized; domain.ErrForbidden means the
// requester has no access.
type AccessGate interface {
	CheckAccountAccess(ctx context.Context, requester domain.Requester, organizationID string) error
}
