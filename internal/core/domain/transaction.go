package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates which side of a posting an account sits on.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// LedgerTransaction posts Amount as a debit to one account and a credit to another.
type LedgerTransaction struct {
	TransactionID   string          `json:"transactionID"`
	WorkplaceID     string          `json:"workplaceID"`
	TransactionDate time.Time       `json:"transactionDate"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	AuditFields
}

// SideFor returns the side accountID is on in this posting, or false if it is not involved.
func (t LedgerTransaction) SideFor(accountID string) (TransactionType, bool) {
	switch accountID {
	case t.DebitAccountID:
		return Debit, true
	case t.CreditAccountID:
		return Credit, true
	}
	return "", false
}
