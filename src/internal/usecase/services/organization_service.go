package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type OrganizationService struct {
	organizationRepo repo_interfaces.OrganizationRepository
	membershipRepo   repo_interfaces.MembershipRepository
	accessService    *AccessService
}

func NewOrganizationService(
	organizationRepo repo_interfaces.OrganizationRepository,
	membershipRepo repo_interfaces.MembershipRepository,
	accessService *AccessService,
) *OrganizationService {
	return &OrganizationService{
		organizationRepo: organizationRepo,
		membershipRepo:   membershipRepo,
		accessService:    accessService,
	}
}

func (s *OrganizationService) CreateOrganization(ctx context.Context, requester domain.Requester, req models.CreateOrganizationRequest) (commons.Response[models.OrganizationResponse], error) {
	logger.Info("organization service create request", logger.Fields{
		"requesterId": requester.UserID,
		"payload":     logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.OrganizationResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	organization := domain.Organization{
		Name: strings.TrimSpace(req.Name),
	}
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		organization.Description = &trimmed
	}

	created, err := s.organizationRepo.Create(ctx, organization)
	if err != nil {
		logger.Error("organization service create failed", err, nil)
		return commons.ErrorResponse[models.OrganizationResponse]("failed to create organization", "Unable to create organization right now"), err
	}

	// The creator administers the new organization.
	if _, err := s.membershipRepo.Add(ctx, domain.Membership{
		OrganizationID: created.ID,
		UserID:         requester.UserID,
		Role:           domain.MembershipRoleAdmin,
	}); err != nil {
		logger.Error("organization service add creator membership failed", err, logger.Fields{
			"organizationId": created.ID,
			"userId":         requester.UserID,
		})
		return commons.ErrorResponse[models.OrganizationResponse]("failed to create organization", "Unable to create organization right now"), err
	}

	return commons.SuccessResponse("organization created successfully", mapOrganizationToResponse(created)), nil
}

func (s *OrganizationService) GetOrganization(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.OrganizationResponse], error) {
	organization, err := s.organizationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrganizationResponse]("Organization not found"), err
		}
		return commons.ErrorResponse[models.OrganizationResponse]("failed to get organization", "Unable to fetch organization right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organization.ID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.OrganizationResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.OrganizationResponse]("failed to get organization", "Unable to fetch organization right now"), err
	}

	return commons.SuccessResponse("organization fetched successfully", mapOrganizationToResponse(organization)), nil
}

func (s *OrganizationService) ListOrganizations(ctx context.Context, requester domain.Requester) (commons.Response[[]models.OrganizationResponse], error) {
	var organizations []domain.Organization
	var err error

	if requester.Role == domain.UserRoleAdmin {
		organizations, err = s.organizationRepo.List(ctx)
	} else {
		organizations, err = s.organizationRepo.ListByUserMembership(ctx, requester.UserID)
	}
	if err != nil {
		logger.Error("organization service list failed", err, logger.Fields{
			"requesterId": requester.UserID,
		})
		return commons.ErrorResponse[[]models.OrganizationResponse]("failed to list organizations", "Unable to fetch organizations right now"), err
	}

	responses := make([]models.OrganizationResponse, 0, len(organizations))
	for _, organization := range organizations {
		responses = append(responses, mapOrganizationToResponse(organization))
	}

	return commons.SuccessResponse("organizations fetched successfully", responses), nil
}

func (s *OrganizationService) UpdateOrganization(ctx context.Context, requester domain.Requester, id string, req models.UpdateOrganizationRequest) (commons.Response[models.OrganizationResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.OrganizationResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	organization, err := s.organizationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrganizationResponse]("Organization not found"), err
		}
		return commons.ErrorResponse[models.OrganizationResponse]("failed to update organization", "Unable to update organization right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organization.ID, domain.MembershipRoleAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.OrganizationResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.OrganizationResponse]("failed to update organization", "Unable to update organization right now"), err
	}

	if req.Name != nil {
		organization.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			organization.Description = &trimmed
		} else {
			organization.Description = nil
		}
	}

	updated, err := s.organizationRepo.Update(ctx, organization)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrganizationResponse]("Organization not found"), err
		}
		logger.Error("organization service update failed", err, logger.Fields{
			"organizationId": id,
		})
		return commons.ErrorResponse[models.OrganizationResponse]("failed to update organization", "Unable to update organization right now"), err
	}

	return commons.SuccessResponse("organization updated successfully", mapOrganizationToResponse(updated)), nil
}

func (s *OrganizationService) DeleteOrganization(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error) {
	organization, err := s.organizationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Organization not found"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete organization", "Unable to delete organization right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organization.ID, domain.MembershipRoleAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[struct{}]("Forbidden"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete organization", "Unable to delete organization right now"), err
	}

	if err := s.organizationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Organization not found"), err
		}
		logger.Error("organization service delete failed", err, logger.Fields{
			"organizationId": id,
		})
		return commons.ErrorResponse[struct{}]("failed to delete organization", "Unable to delete organization right now"), err
	}

	return commons.SuccessResponse("organization deleted successfully", struct{}{}), nil
}

func (s *OrganizationService) AddMember(ctx context.Context, requester domain.Requester, organizationID string, req models.AddMemberRequest) (commons.Response[models.MembershipResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.MembershipResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if _, err := s.organizationRepo.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MembershipResponse]("Organization not found"), err
		}
		return commons.ErrorResponse[models.MembershipResponse]("failed to add member", "Unable to add member right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organizationID, domain.MembershipRoleAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.MembershipResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.MembershipResponse]("failed to add member", "Unable to add member right now"), err
	}

	membership, err := s.membershipRepo.Add(ctx, domain.Membership{
		OrganizationID: organizationID,
		UserID:         strings.TrimSpace(req.UserID),
		Role:           domain.MembershipRole(strings.TrimSpace(req.Role)),
	})
	if err != nil {
		logger.Error("organization service add member failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return commons.ErrorResponse[models.MembershipResponse]("failed to add member", "Unable to add member right now"), err
	}

	response := models.MembershipResponse{
		ID:             membership.ID,
		OrganizationID: membership.OrganizationID,
		UserID:         membership.UserID,
		Role:           string(membership.Role),
		CreatedAt:      membership.CreatedAt.Format(time.RFC3339),
	}

	return commons.SuccessResponse("member added successfully", response), nil
}

func (s *OrganizationService) RemoveMember(ctx context.Context, requester domain.Requester, organizationID string, userID string) (commons.Response[struct{}], error) {
	if err := s.accessService.RequireRole(ctx, requester, organizationID, domain.MembershipRoleAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[struct{}]("Forbidden"), err
		}
		return commons.ErrorResponse[struct{}]("failed to remove member", "Unable to remove member right now"), err
	}

	if err := s.membershipRepo.Remove(ctx, organizationID, userID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Membership not found"), err
		}
		logger.Error("organization service remove member failed", err, logger.Fields{
			"organizationId": organizationID,
			"userId":         userID,
		})
		return commons.ErrorResponse[struct{}]("failed to remove member", "Unable to remove member right now"), err
	}

	return commons.SuccessResponse("member removed successfully", struct{}{}), nil
}

func mapOrganizationToResponse(organization domain.Organization) models.OrganizationResponse {
	return models.OrganizationResponse{
		ID:          organization.ID,
		Name:        organization.Name,
		Description: organization.Description,
		CreatedAt:   organization.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   organization.UpdatedAt.Format(time.RFC3339),
	}
}
