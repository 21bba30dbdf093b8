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

type TaskService struct {
	taskRepo      repo_interfaces.TaskRepository
	activityRepo  repo_interfaces.ActivityRepository
	accessService *AccessService
}

func NewTaskService(
	taskRepo repo_interfaces.TaskRepository,
	activityRepo repo_interfaces.ActivityRepository,
	accessService *AccessService,
) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		activityRepo:  activityRepo,
		accessService: accessService,
	}
}

// organizationForTask resolves the owning organization through the task's
// activity so membership checks work the same way at both levels.
func (s *TaskService) organizationForActivity(ctx context.Context, activityID string) (string, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return "", err
	}
	return activity.OrganizationID, nil
}

func (s *TaskService) CreateTask(ctx context.Context, requester domain.Requester, req models.CreateTaskRequest) (commons.Response[models.TaskResponse], error) {
	logger.Info("task service create request", logger.Fields{
		"requesterId": requester.UserID,
		"payload":     logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TaskResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	activityID := strings.TrimSpace(req.ActivityID)
	organizationID, err := s.organizationForActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TaskResponse]("Activity not found"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to create task", "Unable to create task right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TaskResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to create task", "Unable to create task right now"), err
	}

	task := domain.Task{
		ActivityID: activityID,
		Title:      strings.TrimSpace(req.Title),
		Status:     domain.TaskStatusTodo,
	}
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		task.Description = &trimmed
	}
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		task.Status = domain.TaskStatus(trimmed)
	}
	if trimmed := strings.TrimSpace(req.AssigneeID); trimmed != "" {
		task.AssigneeID = &trimmed
	}
	if trimmed := strings.TrimSpace(req.DueDate); trimmed != "" {
		parsed, _ := models.ParseDateTime(trimmed)
		task.DueDate = &parsed
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		logger.Error("task service create failed", err, logger.Fields{
			"activityId": activityID,
		})
		return commons.ErrorResponse[models.TaskResponse]("failed to create task", "Unable to create task right now"), err
	}

	return commons.SuccessResponse("task created successfully", mapTaskToResponse(created)), nil
}

func (s *TaskService) GetTask(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.TaskResponse], error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TaskResponse]("Task not found"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to get task", "Unable to fetch task right now"), err
	}

	organizationID, err := s.organizationForActivity(ctx, task.ActivityID)
	if err != nil {
		return commons.ErrorResponse[models.TaskResponse]("failed to get task", "Unable to fetch task right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TaskResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to get task", "Unable to fetch task right now"), err
	}

	return commons.SuccessResponse("task fetched successfully", mapTaskToResponse(task)), nil
}

func (s *TaskService) ListTasks(ctx context.Context, requester domain.Requester, activityID string) (commons.Response[[]models.TaskResponse], error) {
	if strings.TrimSpace(activityID) == "" {
		err := fmt.Errorf("%w: activityId is required", domain.ErrInvalidInput)
		return commons.ErrorResponse[[]models.TaskResponse]("validation failed", "activityId is required"), err
	}

	organizationID, err := s.organizationForActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.TaskResponse]("Activity not found"), err
		}
		return commons.ErrorResponse[[]models.TaskResponse]("failed to list tasks", "Unable to fetch tasks right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[[]models.TaskResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[[]models.TaskResponse]("failed to list tasks", "Unable to fetch tasks right now"), err
	}

	tasks, err := s.taskRepo.ListByActivityID(ctx, activityID)
	if err != nil {
		logger.Error("task service list failed", err, logger.Fields{
			"activityId": activityID,
		})
		return commons.ErrorResponse[[]models.TaskResponse]("failed to list tasks", "Unable to fetch tasks right now"), err
	}

	responses := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, mapTaskToResponse(task))
	}

	return commons.SuccessResponse("tasks fetched successfully", responses), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, requester domain.Requester, id string, req models.UpdateTaskRequest) (commons.Response[models.TaskResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TaskResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TaskResponse]("Task not found"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to update task", "Unable to update task right now"), err
	}

	organizationID, err := s.organizationForActivity(ctx, task.ActivityID)
	if err != nil {
		return commons.ErrorResponse[models.TaskResponse]("failed to update task", "Unable to update task right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, organizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TaskResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TaskResponse]("failed to update task", "Unable to update task right now"), err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			task.Description = &trimmed
		} else {
			task.Description = nil
		}
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(strings.TrimSpace(*req.Status))
	}
	if req.AssigneeID != nil {
		if trimmed := strings.TrimSpace(*req.AssigneeID); trimmed != "" {
			task.AssigneeID = &trimmed
		} else {
			task.AssigneeID = nil
		}
	}
	if req.DueDate != nil {
		parsed, _ := models.ParseDateTime(*req.DueDate)
		task.DueDate = &parsed
	}

	updated, err := s.taskRepo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TaskResponse]("Task not found"), err
		}
		logger.Error("task service update failed", err, logger.Fields{
			"taskId": id,
		})
		return commons.ErrorResponse[models.TaskResponse]("failed to update task", "Unable to update task right now"), err
	}

	return commons.SuccessResponse("task updated successfully", mapTaskToResponse(updated)), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Task not found"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete task", "Unable to delete task right now"), err
	}

	organizationID, err := s.organizationForActivity(ctx, task.ActivityID)
	if err != nil {
		return commons.ErrorResponse[struct{}]("failed to delete task", "Unable to delete task right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organizationID, domain.MembershipRoleManager); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[struct{}]("Forbidden"), err
		}
		return commons.ErrorResponse[struct{}]("failed to delete task", "Unable to delete task right now"), err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("Task not found"), err
		}
		logger.Error("task service delete failed", err, logger.Fields{
			"taskId": id,
		})
		return commons.ErrorResponse[struct{}]("failed to delete task", "Unable to delete task right now"), err
	}

	return commons.SuccessResponse("task deleted successfully", struct{}{}), nil
}

func mapTaskToResponse(task domain.Task) models.TaskResponse {
	response := models.TaskResponse{
		ID:          task.ID,
		ActivityID:  task.ActivityID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		formatted := task.DueDate.Format(time.RFC3339)
		response.DueDate = &formatted
	}
	return response
}
