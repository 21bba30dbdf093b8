package models

import (
	"errors"
	"strings"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	AccountType    string `json:"accountType"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	switch domain.AccountType(strings.TrimSpace(r.AccountType)) {
	case domain.AccountTypeOperating, domain.AccountTypeSavings, domain.AccountTypeProject:
	default:
		errs = append(errs, "accountType must be one of OPERATING, SAVINGS, PROJECT")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}
