package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

// ledgerService posts double-entry transactions between accounts.
type ledgerService struct {
	BaseService
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store portsrepo.Store, options ...ServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{BaseService: newBaseService(store)}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostTransaction debits one active, non-group account and credits another.
func (s *ledgerService) PostTransaction(ctx context.Context, workplaceID string, req dto.PostTransactionRequest, actor domain.Actor) (*domain.LedgerTransaction, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if req.DebitAccountID == "" || req.CreditAccountID == "" {
		return nil, fmt.Errorf("%w: debit and credit accounts are required", apperrors.ErrValidation)
	}
	if req.DebitAccountID == req.CreditAccountID {
		return nil, fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	}
	if req.TransactionDate.IsZero() {
		return nil, fmt.Errorf("%w: transactionDate is required", apperrors.ErrValidation)
	}

	txn := domain.LedgerTransaction{
		TransactionID:   newID(),
		WorkplaceID:     workplaceID,
		TransactionDate: req.TransactionDate.UTC(),
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		Description:     req.Description,
		Reference:       req.Reference,
		AuditFields:     domain.NewAuditFields(actor.UserID, s.Now()),
	}
	err := s.RunInTx(ctx, "post transaction", func(ctx context.Context, repos portsrepo.Repositories) error {
		for _, id := range []string{txn.DebitAccountID, txn.CreditAccountID} {
			account, err := repos.Accounts().FindAccountByID(ctx, workplaceID, id)
			if err != nil {
				return storeError(err, "find account")
			}
			if account.IsGroup {
				return fmt.Errorf("%w: cannot post to group account %s", apperrors.ErrValidation, account.Code)
			}
			if !account.IsActive {
				return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
			}
		}
		return storeError(repos.LedgerTransactions().SaveTransaction(ctx, txn), "save transaction")
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction", slog.String("workplace_id", workplaceID))
		return nil, err
	}

	s.invalidateReports(ctx, workplaceID)
	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// ListAccountTransactions pages through the postings touching an account.
func (s *ledgerService) ListAccountTransactions(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	if _, err := s.Store.Accounts().FindAccountByID(ctx, workplaceID, accountID); err != nil {
		return nil, nil, storeError(err, "find account")
	}
	txns, next, err := s.Store.LedgerTransactions().ListTransactionsByAccount(ctx, workplaceID, accountID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account transactions", slog.String("account_id", accountID))
		return nil, nil, storeError(err, "list account transactions")
	}
	return txns, next, nil
}
