package models

import (
	"errors"
	"strings"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	TransactionDate string          `json:"transactionDate"`
	TransactionCode string          `json:"transactionCode"`
	Description     string          `json:"description"`
}

func (r CreateTransactionRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if !domain.TransactionType(strings.TrimSpace(r.TransactionType)).Valid() {
		errs = append(errs, "transactionType must be one of DEPOSIT, WITHDRAWAL, PAYMENT, INCOME")
	}
	if _, err := ParseDateTime(r.TransactionDate); err != nil {
		errs = append(errs, "transactionDate must be in YYYY-MM-DD or RFC3339 format")
	}
	if strings.TrimSpace(r.TransactionCode) == "" {
		errs = append(errs, "transactionCode is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdateTransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	TransactionType *string          `json:"transactionType"`
	Description     *string          `json:"description"`
	TransactionDate *string          `json:"transactionDate"`
	TransactionCode *string          `json:"transactionCode"`
}

func (r UpdateTransactionRequest) Validate() error {
	var errs []string

	if r.Amount != nil && r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if r.TransactionType != nil && !domain.TransactionType(strings.TrimSpace(*r.TransactionType)).Valid() {
		errs = append(errs, "transactionType must be one of DEPOSIT, WITHDRAWAL, PAYMENT, INCOME")
	}
	if r.TransactionDate != nil {
		if _, err := ParseDateTime(*r.TransactionDate); err != nil {
			errs = append(errs, "transactionDate must be in YYYY-MM-DD or RFC3339 format")
		}
	}
	if r.TransactionCode != nil && strings.TrimSpace(*r.TransactionCode) == "" {
		errs = append(errs, "transactionCode cannot be empty")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ListTransactionsQuery carries the raw listing filters as received on the
// query string; the ledger service parses and validates them.
type ListTransactionsQuery struct {
	AccountID       string
	OrganizationID  string
	TransactionType string
	StartDate       string
	EndDate         string
	MinAmount       string
	MaxAmount       string
	Page            int
	Limit           int
}

type AccountSummary struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
}

type TransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	TransactionCode string          `json:"transactionCode"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	Account         *AccountSummary `json:"account,omitempty"`
}

type TransactionSummaryResponse struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Payments    decimal.Decimal `json:"payments"`
	Income      decimal.Decimal `json:"income"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type ListTransactionsResponse struct {
	Items    []TransactionResponse      `json:"items"`
	Total    int64                      `json:"total"`
	PageInfo PageInfo                   `json:"pageInfo"`
	Summary  TransactionSummaryResponse `json:"summary"`
}

type DeleteTransactionResponse struct {
	TransactionID string `json:"transactionId"`
}

// ParseDateTime accepts either a bare date or a full RFC3339 timestamp.
func ParseDateTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", trimmed)
}
