package models

import (
	"errors"
	"strings"

	"github.com/orgbook/orgbook-api/src/internal/domain"
)

type CreateActivityRequest struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}

func (r CreateActivityRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if trimmed := strings.TrimSpace(r.Status); trimmed != "" && !domain.ActivityStatus(trimmed).Valid() {
		errs = append(errs, "status must be one of PLANNED, ACTIVE, COMPLETED, CANCELLED")
	}
	if trimmed := strings.TrimSpace(r.StartDate); trimmed != "" {
		if _, err := ParseDateTime(trimmed); err != nil {
			errs = append(errs, "startDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}
	if trimmed := strings.TrimSpace(r.EndDate); trimmed != "" {
		if _, err := ParseDateTime(trimmed); err != nil {
			errs = append(errs, "endDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdateActivityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (r UpdateActivityRequest) Validate() error {
	var errs []string

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if r.Status != nil && !domain.ActivityStatus(strings.TrimSpace(*r.Status)).Valid() {
		errs = append(errs, "status must be one of PLANNED, ACTIVE, COMPLETED, CANCELLED")
	}
	if r.StartDate != nil {
		if _, err := ParseDateTime(*r.StartDate); err != nil {
			errs = append(errs, "startDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}
	if r.EndDate != nil {
		if _, err := ParseDateTime(*r.EndDate); err != nil {
			errs = append(errs, "endDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ActivityResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organizationId"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Status         string  `json:"status"`
	StartDate      *string `json:"startDate,omitempty"`
	EndDate        *string `json:"endDate,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}
