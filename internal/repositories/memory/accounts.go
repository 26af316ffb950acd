package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (r *repos) FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	st, done := r.acquire()
	defer done()
	a, ok := st.accounts[accountID]
	if !ok || a.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &a, nil
}

func (r *repos) FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	st, done := r.acquire()
	defer done()
	for _, a := range st.accounts {
		if a.WorkplaceID == workplaceID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account code " + code)
}

func (r *repos) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	st, done := r.acquire()
	defer done()
	out := []domain.Account{}
	for _, a := range st.accounts {
		if a.WorkplaceID == workplaceID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	from, to := page(len(out), limit, offset)
	return out[from:to], nil
}

func (r *repos) CountChildAccounts(ctx context.Context, workplaceID, accountID string) (int, error) {
	st, done := r.acquire()
	defer done()
	n := 0
	for _, a := range st.accounts {
		if a.WorkplaceID == workplaceID && a.ParentAccountID != nil && *a.ParentAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *repos) SaveAccount(ctx context.Context, account domain.Account) error {
	st, done := r.acquire()
	defer done()
	for _, a := range st.accounts {
		if a.WorkplaceID == account.WorkplaceID && a.Code == account.Code && a.AccountID != account.AccountID {
			return apperrors.ErrDuplicate
		}
	}
	st.accounts[account.AccountID] = account
	return nil
}

func (r *repos) DeleteAccount(ctx context.Context, workplaceID, accountID string) error {
	st, done := r.acquire()
	defer done()
	a, ok := st.accounts[accountID]
	if !ok || a.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	delete(st.accounts, accountID)
	return nil
}

func (st *state) postingsFor(workplaceID, accountID string) []domain.LedgerTransaction {
	out := []domain.LedgerTransaction{}
	for _, t := range st.postings {
		if t.WorkplaceID != workplaceID {
			continue
		}
		if _, ok := t.SideFor(accountID); ok {
			out = append(out, t)
		}
	}
	return out
}

func (r *repos) CountTransactionsForAccount(ctx context.Context, workplaceID, accountID string) (int, error) {
	st, done := r.acquire()
	defer done()
	return len(st.postingsFor(workplaceID, accountID)), nil
}

func postingCursor(t domain.LedgerTransaction) pagination.Cursor {
	return pagination.Cursor{DocumentDate: t.TransactionDate, CreatedAt: t.CreatedAt, ID: t.TransactionID}
}

func (r *repos) ListTransactionsByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	st, done := r.acquire()
	defer done()
	out := []domain.LedgerTransaction{}
	for _, t := range st.postingsFor(workplaceID, accountID) {
		if cursor == nil || cursor.After(postingCursor(t)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return postingCursor(out[i]).After(postingCursor(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	var next *string
	if len(out) > 0 {
		next = pagination.NextToken(len(out), limit, postingCursor(out[len(out)-1]))
	}
	return out, next, nil
}

func (r *repos) SumAccountActivity(ctx context.Context, workplaceID, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	st, done := r.acquire()
	defer done()
	debit, credit := decimal.Zero, decimal.Zero
	for _, t := range st.postingsFor(workplaceID, accountID) {
		if side, _ := t.SideFor(accountID); side == domain.Debit {
			debit = debit.Add(t.Amount)
		} else {
			credit = credit.Add(t.Amount)
		}
	}
	return debit, credit, nil
}

func (r *repos) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error {
	st, done := r.acquire()
	defer done()
	st.postings[txn.TransactionID] = txn
	return nil
}
