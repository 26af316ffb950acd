package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a node in the chart of accounts. Group accounts hold children and
// cannot be posted to.
type Account struct {
	AccountID       string          `json:"accountID"`
	WorkplaceID     string          `json:"workplaceID"`
	Code            string          `json:"code"` // unique per workplace
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	IsGroup         bool            `json:"isGroup"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	Level           int             `json:"level"` // 1 for roots, parent.Level+1 otherwise
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"` // signed by account type, computed on read
	AuditFields
}
