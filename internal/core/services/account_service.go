package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(store portsrepo.Store, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{BaseService: newBaseService(store)}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account. Child accounts must hang off a group account.
func (s *accountService) CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	account := domain.Account{
		AccountID:       newID(),
		WorkplaceID:     workplaceID,
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		IsGroup:         req.IsGroup,
		ParentAccountID: req.ParentAccountID,
		Level:           1,
		Description:     req.Description,
		IsActive:        true, // Default to active on creation
		Balance:         decimal.Zero,
		AuditFields:     domain.NewAuditFields(actor.UserID, s.Now()),
	}

	err := s.RunInTx(ctx, "create account", func(ctx context.Context, repos portsrepo.Repositories) error {
		if _, err := repos.Accounts().FindAccountByCode(ctx, workplaceID, code); err == nil {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrConflict, code)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return storeError(err, "check account code")
		}

		if req.ParentAccountID != nil && *req.ParentAccountID != "" {
			parent, err := repos.Accounts().FindAccountByID(ctx, workplaceID, *req.ParentAccountID)
			if err != nil {
				return storeError(err, "find parent account")
			}
			if !parent.IsGroup {
				return fmt.Errorf("%w: parent account %s is not a group account", apperrors.ErrValidation, parent.Code)
			}
			account.Level = parent.Level + 1
		} else {
			account.ParentAccountID = nil
		}

		if err := repos.Accounts().SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return fmt.Errorf("%w: account code %s already exists", apperrors.ErrConflict, code)
			}
			return storeError(err, "save account")
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("workplace_id", workplaceID), slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, workplaceID string, accountID string) (*domain.Account, error) {
	account, err := s.Store.Accounts().FindAccountByID(ctx, workplaceID, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, storeError(err, "find account")
	}
	balance, err := s.balanceOf(ctx, s.Store, account)
	if err != nil {
		return nil, err
	}
	account.Balance = balance
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().ListAccounts(ctx, workplaceID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "list accounts")
	}
	return accounts, nil
}

// DeleteAccount removes an account without children or postings.
func (s *accountService) DeleteAccount(ctx context.Context, workplaceID string, accountID string, actor domain.Actor) error {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return err
	}
	err := s.RunInTx(ctx, "delete account", func(ctx context.Context, repos portsrepo.Repositories) error {
		if _, err := repos.Accounts().FindAccountByID(ctx, workplaceID, accountID); err != nil {
			return storeError(err, "find account")
		}
		children, err := repos.Accounts().CountChildAccounts(ctx, workplaceID, accountID)
		if err != nil {
			return storeError(err, "count child accounts")
		}
		if children > 0 {
			return fmt.Errorf("%w: account has %d child account(s)", apperrors.ErrInvalidState, children)
		}
		postings, err := repos.LedgerTransactions().CountTransactionsForAccount(ctx, workplaceID, accountID)
		if err != nil {
			return storeError(err, "count account postings")
		}
		if postings > 0 {
			return fmt.Errorf("%w: account is referenced by %d posting(s)", apperrors.ErrInvalidState, postings)
		}
		return storeError(repos.Accounts().DeleteAccount(ctx, workplaceID, accountID), "delete account")
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// CalculateAccountBalance calculates the current balance of an account.
func (s *accountService) CalculateAccountBalance(ctx context.Context, workplaceID string, accountID string) (decimal.Decimal, error) {
	account, err := s.Store.Accounts().FindAccountByID(ctx, workplaceID, accountID)
	if err != nil {
		return decimal.Zero, storeError(err, "find account")
	}
	return s.balanceOf(ctx, s.Store, account)
}

func (s *accountService) balanceOf(ctx context.Context, repos portsrepo.Repositories, account *domain.Account) (decimal.Decimal, error) {
	debit, credit, err := repos.LedgerTransactions().SumAccountActivity(ctx, account.WorkplaceID, account.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account activity", slog.String("account_id", account.AccountID))
		return decimal.Zero, storeError(err, "sum account activity")
	}
	balance, err := accounting.SignedBalance(debit, credit, account.AccountType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return balance, nil
}
