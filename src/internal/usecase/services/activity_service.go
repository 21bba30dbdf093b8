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

type ActivityService struct {
	activityRepo     repo_interfaces.ActivityRepository
	organizationRepo repo_interfaces.OrganizationRepository
	accessService    *AccessService
}

func NewActivityService(
	activityRepo repo_interfaces.ActivityRepository,
	organizationRepo repo_interfaces.OrganizationRepository,
	accessService *AccessService,
) *ActivityService {
	return &ActivityService{
		activityRepo:     activityRepo,
		organizationRepo: organizationRepo,
		accessService:    accessService,
	}
}

func (s *ActivityService) CreateActivity(ctx context.Context, requester domain.Requester, req models.CreateActivityRequest) (commons.Response[models.ActivityResponse], error) {
	logger.Info("activity service create request", logger.Fields{
		"requesterId": requester.UserID,
		"payload":     logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ActivityResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	organizationID := strings.TrimSpace(req.OrganizationID)
	if _, err := s.organizationRepo.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ActivityResponse]("Organization not found"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to create activity", "Unable to create activity right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organizationID, domain.MembershipRoleManager); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.ActivityResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to create activity", "Unable to create activity right now"), err
	}

	activity := domain.Activity{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(req.Name),
		Status:         domain.ActivityStatusPlanned,
	}
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		activity.Description = &trimmed
	}
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		activity.Status = domain.ActivityStatus(trimmed)
	}
	if trimmed := strings.TrimSpace(req.StartDate); trimmed != "" {
		parsed, _ := models.ParseDateTime(trimmed)
		activity.StartDate = &parsed
	}
	if trimmed := strings.TrimSpace(req.EndDate); trimmed != "" {
		parsed, _ := models.ParseDateTime(trimmed)
		activity.EndDate = &parsed
	}

	created, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		logger.Error("activity service create failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return commons.ErrorResponse[models.ActivityResponse]("failed to create activity", "Unable to create activity right now"), err
	}

	return commons.SuccessResponse("activity created successfully", mapActivityToResponse(created)), nil
}

func (s *ActivityService) GetActivity(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.ActivityResponse], error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ActivityResponse]("Activity not found"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to get activity", "Unable to fetch activity right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, activity.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.ActivityResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to get activity", "Unable to fetch activity right now"), err
	}

	return commons.SuccessResponse("activity fetched successfully", mapActivityToResponse(activity)), nil
}

func (s *ActivityService) ListActivities(ctx context.Context, requester domain.Requester, organizationID string) (commons.Response[[]models.ActivityResponse], error) {
	if strings.TrimSpace(organizationID) == "" {
		err := fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
		return commons.ErrorResponse[[]models.ActivityResponse]("validation failed", "organizationId is required"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[[]models.ActivityResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[[]models.ActivityResponse]("failed to list activities", "Unable to fetch activities right now"), err
	}

	activities, err := s.activityRepo.ListByOrganizationID(ctx, organizationID)
	if err != nil {
		logger.Error("activity service list failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return commons.ErrorResponse[[]models.ActivityResponse]("failed to list activities", "Unable to fetch activities right now"), err
	}

	responses := make([]models.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, mapActivityToResponse(activity))
	}

	return commons.SuccessResponse("activities fetched successfully", responses), nil
}

func (s *ActivityService) UpdateActivity(ctx context.Context, requester domain.Requester, id string, req models.UpdateActivityRequest) (commons.Response[models.ActivityResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ActivityResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ActivityResponse]("Activity not found"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to update activity", "Unable to update activity right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, activity.OrganizationID, domain.MembershipRoleManager); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.ActivityResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.ActivityResponse]("failed to update activity", "Unable to update activity right now"), err
	}

	if req.Name != nil {
		activity.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			activity.Description = &trimmed
		} else {
			activity.Description = nil
		}
	}
	if req.Status != nil {
		activity.Status = domain.ActivityStatus(strings.TrimSpace(*req.Status))
	}
	if req.StartDate != nil {
		parsed, _ := models.ParseDateTime(*req.StartDate)
		activity.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, _ := models.ParseDateTime(*req.EndDate)
		activity.EndDate = &parsed
	}

	updated, err := s.activityRepo.Update(ctx, activity)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ActivityResponse]("Activity not found"), err
		}
		logger.Error("activity service update failed", err, logger.Fields{
			"activityId": id,
		})
		return commons.ErrorResponse[models.ActivityResponse]("failed to update activity", "Unable to update activity right now"), err
	}

	return commons.SuccessResponse("activity updated successfully", mapActivityToResponse(updated)), nil
}

func (s *ActivityService) DeleteActivity(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Activity not found"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete activity", "Unable to delete activity right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, activity.OrganizationID, domain.MembershipRoleManager); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[struct{}]("Forbidden"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete activity", "Unable to delete activity right now"), err
	}

	if err := s.activityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Activity not found"), err
		}
		logger.Error("activity service delete failed", err, logger.Fields{
			"activityId": id,
		})
		return commons.ErrorResponse[struct{}]("failed to delete activity", "Unable to delete activity right now"), err
	}

	return commons.SuccessResponse("activity deleted successfully", struct{}{}), nil
}

func mapActivityToResponse(activity domain.Activity) models.ActivityResponse {
	response := models.ActivityResponse{
		ID:             activity.ID,
		OrganizationID: activity.OrganizationID,
		Name:           activity.Name,
		Description:    activity.Description,
		Status:         string(activity.Status),
		CreatedAt:      activity.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      activity.UpdatedAt.Format(time.RFC3339),
	}
	if activity.StartDate != nil {
		formatted := activity.StartDate.Format(time.RFC3339)
		response.StartDate = &formatted
	}
	if activity.EndDate != nil {
		formatted := activity.EndDate.Format(time.RFC3339)
		response.EndDate = &formatted
	}
	return response
}
