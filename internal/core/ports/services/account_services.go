package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, workplaceID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given workplace.
	ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no postings.
	DeleteAccount(ctx context.Context, workplaceID string, accountID string, actor domain.Actor) error
}

// AccountCalculatorSvc defines calculation operations for account data
type AccountCalculatorSvc interface {
	// CalculateAccountBalance calculates the current balance of an account.
	CalculateAccountBalance(ctx context.Context, workplaceID string, accountID string) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCalculatorSvc
}

// LedgerSvcFacade posts and lists double-entry ledger transactions.
type LedgerSvcFacade interface {
	PostTransaction(ctx context.Context, workplaceID string, req dto.PostTransactionRequest, actor domain.Actor) (*domain.LedgerTransaction, error)
	ListAccountTransactions(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)
}
