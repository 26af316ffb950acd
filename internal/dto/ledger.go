package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostTransactionRequest posts an amount from one account to another.
type PostTransactionRequest struct {
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required,nefield=DebitAccountID"`
	Amount          decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"` // e.g. an invoice or payment id
}

// LedgerTransactionResponse defines the data returned for a posting.
type LedgerTransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	TransactionDate time.Time       `json:"transactionDate"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ListAccountTransactionsParams defines query parameters for an account's postings.
type ListAccountTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListAccountTransactionsResponse wraps a page of postings for one account.
type ListAccountTransactionsResponse struct {
	Transactions []LedgerTransactionResponse `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

// ToLedgerTransactionResponse converts a domain.LedgerTransaction to its response DTO.
func ToLedgerTransactionResponse(txn *domain.LedgerTransaction) LedgerTransactionResponse {
	return LedgerTransactionResponse{
		TransactionID:   txn.TransactionID,
		TransactionDate: txn.TransactionDate,
		DebitAccountID:  txn.DebitAccountID,
		CreditAccountID: txn.CreditAccountID,
		Amount:          txn.Amount,
		Description:     txn.Description,
		Reference:       txn.Reference,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToListAccountTransactionsResponse converts a page of postings.
func ToListAccountTransactionsResponse(txns []domain.LedgerTransaction, nextToken *string) ListAccountTransactionsResponse {
	res := ListAccountTransactionsResponse{
		Transactions: make([]LedgerTransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		res.Transactions[i] = ToLedgerTransactionResponse(&txns[i])
	}
	return res
}
