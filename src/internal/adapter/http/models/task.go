package models

import (
	"errors"
	"strings"

	"github.com/orgbook/orgbook-api/src/internal/domain"
)

type CreateTaskRequest struct {
	ActivityID  string `json:"activityId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssigneeID  string `json:"assigneeId"`
	DueDate     string `json:"dueDate"`
}

func (r CreateTaskRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ActivityID) == "" {
		errs = append(errs, "activityId is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if trimmed := strings.TrimSpace(r.Status); trimmed != "" && !domain.TaskStatus(trimmed).Valid() {
		errs = append(errs, "status must be one of TODO, IN_PROGRESS, DONE")
	}
	if trimmed := strings.TrimSpace(r.DueDate); trimmed != "" {
		if _, err := ParseDateTime(trimmed); err != nil {
			errs = append(errs, "dueDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

func (r UpdateTaskRequest) Validate() error {
	var errs []string

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if r.Status != nil && !domain.TaskStatus(strings.TrimSpace(*r.Status)).Valid() {
		errs = append(errs, "status must be one of TODO, IN_PROGRESS, DONE")
	}
	if r.DueDate != nil {
		if _, err := ParseDateTime(*r.DueDate); err != nil {
			errs = append(errs, "dueDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TaskResponse struct {
	ID          string  `json:"id"`
	ActivityID  string  `json:"activityId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
