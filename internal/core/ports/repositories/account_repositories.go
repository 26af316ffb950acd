package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code.
	FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts ordered by code.
	ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error)

	// CountChildAccounts counts accounts whose parent is accountID.
	CountChildAccounts(ctx context.Context, workplaceID, accountID string) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A taken code is reported as apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes the account row.
	DeleteAccount(ctx context.Context, workplaceID, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
