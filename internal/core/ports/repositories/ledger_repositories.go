package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTransactionReader defines read operations for ledger postings
type LedgerTransactionReader interface {
	CountTransactionsForAccount(ctx context.Context, workplaceID, accountID string) (int, error)

	// ListTransactionsByAccount returns postings touching accountID, newest first, with token-based pagination.
	ListTransactionsByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)

	// SumAccountActivity returns the total debited to and credited from accountID.
	SumAccountActivity(ctx context.Context, workplaceID, accountID string) (debit, credit decimal.Decimal, err error)
}

// LedgerTransactionWriter defines write operations for ledger postings
type LedgerTransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error
}

// LedgerTransactionRepositoryFacade combines posting reads and writes
type LedgerTransactionRepositoryFacade interface {
	LedgerTransactionReader
	LedgerTransactionWriter
}
