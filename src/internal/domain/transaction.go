package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypePayment    TransactionType = "PAYMENT"
	TransactionTypeIncome     TransactionType = "INCOME"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypePayment, TransactionTypeIncome:
		return true
	default:
		return false
	}
}

// Inflow reports whether the type increases the account balance.
func (t TransactionType) Inflow() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeIncome
}

type Transaction struct {
	ID              string
	AccountID       string
	Amount          decimal.Decimal
	TransactionType TransactionType
	Description     *string
	TransactionDate time.Time
	TransactionCode string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionFilter narrows listing and summary queries. Zero values mean
// "not filtered". The same filter value must back both the page query and the
// summary query of one listing call.
type TransactionFilter struct {
	AccountID       string
	OrganizationID  string
	TransactionType TransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
}

// TransactionSummary is the per-type bucketed view of a filtered transaction
// set. TotalAmount is the sum of all buckets.
type TransactionSummary struct {
	TotalAmount decimal.Decimal
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
	Payments    decimal.Decimal
	Income      decimal.Decimal
}
