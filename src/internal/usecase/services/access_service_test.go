package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/memory"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/usecase/services"
)

func TestAccessServiceAdminBypassesMembership(t *testing.T) {
	store := memory.NewStore()
	svc := services.NewAccessService(store.Memberships())

	admin := domain.Requester{UserID: "admin-1", Role: domain.UserRoleAdmin}
	if err := svc.CheckAccountAccess(context.Background(), admin, "org-1"); err != nil {
		t.Fatalf("expected admin bypass, got %v", err)
	}
	if err := svc.RequireRole(context.Background(), admin, "org-1", domain.MembershipRoleAdmin); err != nil {
		t.Fatalf("expected admin bypass on RequireRole, got %v", err)
	}
}

func TestAccessServiceDeniesNonMember(t *testing.T) {
	store := memory.NewStore()
	svc := services.NewAccessService(store.Memberships())

	requester := domain.Requester{UserID: "user-1", Role: domain.UserRoleUser}
	if err := svc.CheckAccountAccess(context.Background(), requester, "org-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccessServiceAllowsMember(t *testing.T) {
	store := memory.NewStore()
	_, err := store.Memberships().Add(context.Background(), domain.Membership{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Role:           domain.MembershipRoleMember,
	})
	if err != nil {
		t.Fatalf("add membership: %v", err)
	}

	svc := services.NewAccessService(store.Memberships())
	requester := domain.Requester{UserID: "user-1", Role: domain.UserRoleUser}

	if err := svc.CheckAccountAccess(context.Background(), requester, "org-1"); err != nil {
		t.Fatalf("expected member access, got %v", err)
	}
}

func TestAccessServiceRoleOrdering(t *testing.T) {
	store := memory.NewStore()
	_, err := store.Memberships().Add(context.Background(), domain.Membership{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Role:           domain.MembershipRoleManager,
	})
	if err != nil {
		t.Fatalf("add membership: %v", err)
	}

	svc := services.NewAccessService(store.Memberships())
	requester := domain.Requester{UserID: "user-1", Role: domain.UserRoleUser}

	if err := svc.RequireRole(context.Background(), requester, "org-1", domain.MembershipRoleMember); err != nil {
		t.Fatalf("manager should satisfy MEMBER, got %v", err)
	}
	if err := svc.RequireRole(context.Background(), requester, "org-1", domain.MembershipRoleManager); err != nil {
		t.Fatalf("manager should satisfy MANAGER, got %v", err)
	}
	if err := svc.RequireRole(context.Background(), requester, "org-1", domain.MembershipRoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager must not satisfy ADMIN, got %v", err)
	}
}
