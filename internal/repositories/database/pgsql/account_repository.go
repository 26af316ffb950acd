package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db querier
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

const accountColumns = `account_id, workplace_id, code, name, account_type, is_group, parent_account_id, level, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.AccountID, &a.WorkplaceID, &a.Code, &a.Name, &a.AccountType, &a.IsGroup, &a.ParentAccountID,
		&a.Level, &a.Description, &a.IsActive, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	a.Balance = decimal.Zero
	return a, err
}

// FindAccountByID retrieves an account by its ID.
func (r *accountRepository) FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE workplace_id = $1 AND account_id = $2`
	a, err := scanAccount(r.db.QueryRow(ctx, query, workplaceID, accountID))
	if err != nil {
		return nil, notFoundOr(err, "account", "find account")
	}
	return &a, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE workplace_id = $1 AND code = $2`
	a, err := scanAccount(r.db.QueryRow(ctx, query, workplaceID, code))
	if err != nil {
		return nil, notFoundOr(err, "account", "find account by code")
	}
	return &a, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE workplace_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, workplaceID, limitArg(limit), offset)
	if err != nil {
		return nil, translateError(err, "list accounts")
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, translateError(err, "scan accounts")
	}
	return accounts, nil
}

func (r *accountRepository) CountChildAccounts(ctx context.Context, workplaceID, accountID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE workplace_id = $1 AND parent_account_id = $2`,
		workplaceID, accountID).Scan(&n)
	if err != nil {
		return 0, translateError(err, "count child accounts")
	}
	return n, nil
}

// SaveAccount inserts a new account.
func (r *accountRepository) SaveAccount(ctx context.Context, a domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query, a.AccountID, a.WorkplaceID, a.Code, a.Name, a.AccountType, a.IsGroup, a.ParentAccountID,
		a.Level, a.Description, a.IsActive, a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	return translateError(err, "save account")
}

func (r *accountRepository) DeleteAccount(ctx context.Context, workplaceID, accountID string) error {
	return execAffecting(ctx, r.db, "account", "delete account",
		`DELETE FROM accounts WHERE workplace_id = $1 AND account_id = $2`, workplaceID, accountID)
}

type ledgerRepository struct {
	db querier
}

var _ portsrepo.LedgerTransactionRepositoryFacade = (*ledgerRepository)(nil)

const ledgerColumns = `transaction_id, workplace_id, transaction_date, debit_account_id, credit_account_id, amount, description, reference, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerTransaction(row pgx.Row) (domain.LedgerTransaction, error) {
	var t domain.LedgerTransaction
	err := row.Scan(&t.TransactionID, &t.WorkplaceID, &t.TransactionDate, &t.DebitAccountID, &t.CreditAccountID, &t.Amount,
		&t.Description, &t.Reference, &t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy)
	return t, err
}

func (r *ledgerRepository) CountTransactionsForAccount(ctx context.Context, workplaceID, accountID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM ledger_transactions
		WHERE workplace_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2)`,
		workplaceID, accountID).Scan(&n)
	if err != nil {
		return 0, translateError(err, "count account transactions")
	}
	return n, nil
}

// ListTransactionsByAccount retrieves a paginated list of postings for an account using token-based pagination.
func (r *ledgerRepository) ListTransactionsByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	args := []any{workplaceID, accountID, limitArg(limit)}
	keyset := ""
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.DocumentDate, cursor.CreatedAt, cursor.ID)
		keyset = ` AND (transaction_date, created_at, transaction_id) < ($4, $5, $6)`
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_transactions
		WHERE workplace_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2)` + keyset + `
		ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "list account transactions")
	}
	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerTransaction, error) {
		return scanLedgerTransaction(row)
	})
	if err != nil {
		return nil, nil, translateError(err, "scan account transactions")
	}

	var next *string
	if n := len(txns); n > 0 {
		last := txns[n-1]
		next = pagination.NextToken(n, limit, pagination.Cursor{DocumentDate: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	}
	return txns, next, nil
}

func (r *ledgerRepository) SumAccountActivity(ctx context.Context, workplaceID, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE debit_account_id = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE credit_account_id = $2), 0)
		FROM ledger_transactions
		WHERE workplace_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2)`,
		workplaceID, accountID).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, translateError(err, "sum account activity")
	}
	return debit, credit, nil
}

func (r *ledgerRepository) SaveTransaction(ctx context.Context, t domain.LedgerTransaction) error {
	query := `
		INSERT INTO ledger_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query, t.TransactionID, t.WorkplaceID, t.TransactionDate, t.DebitAccountID, t.CreditAccountID, t.Amount,
		t.Description, t.Reference, t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
	return translateError(err, "save ledger transaction")
}
