package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeOperating AccountType = "OPERATING"
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeProject   AccountType = "PROJECT"
)

// Account holds the funds of exactly one organization. Balance must always
// equal the sum of signed deltas of the account's persisted transactions and
// is only ever written through the ledger balance mutator.
type Account struct {
	ID             string
	OrganizationID string
	Name           string
	AccountType    AccountType
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
