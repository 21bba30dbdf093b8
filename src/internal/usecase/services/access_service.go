package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

// AccessService is the access gate: platform admins may act on any
// organization, everyone else needs a membership in the organization that
// owns the resource.
type AccessService struct {
	membershipRepo repo_interfaces.MembershipRepository
}

func NewAccessService(membershipRepo repo_interfaces.MembershipRepository) *AccessService {
	return &AccessService{membershipRepo: membershipRepo}
}

func (s *AccessService) CheckAccountAccess(ctx context.Context, requester domain.Requester, organizationID string) error {
	if requester.Role == domain.UserRoleAdmin {
		return nil
	}

	_, err := s.membershipRepo.GetRole(ctx, organizationID, requester.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("access gate denied requester", logger.Fields{
				"requesterId":    requester.UserID,
				"organizationId": organizationID,
			})
			return domain.ErrForbidden
		}
		return fmt.Errorf("check membership: %w", err)
	}

	return nil
}

// RequireRole is the stricter gate used by organization management: the
// requester must hold at least the given role in the organization. Role order
// is MEMBER < MANAGER < ADMIN.
func (s *AccessService) RequireRole(ctx context.Context, requester domain.Requester, organizationID string, minimum domain.MembershipRole) error {
	if requester.Role == domain.UserRoleAdmin {
		return nil
	}

	role, err := s.membershipRepo.GetRole(ctx, organizationID, requester.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("check membership: %w", err)
	}

	if roleRank(role) < roleRank(minimum) {
		return domain.ErrForbidden
	}

	return nil
}

func roleRank(role domain.MembershipRole) int {
	switch role {
	case domain.MembershipRoleAdmin:
		return 3
	case domain.MembershipRoleManager:
		return 2
	case domain.MembershipRoleMember:
		return 1
	default:
		return 0
	}
}
