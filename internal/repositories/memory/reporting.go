package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (r *repos) ListPartnerEvents(ctx context.Context, workplaceID, contactID string, to *time.Time) ([]domain.PartnerLedgerEvent, error) {
	st, done := r.acquire()
	defer done()
	events := []domain.PartnerLedgerEvent{}
	counted := map[string]domain.Invoice{}
	for _, inv := range st.invoices {
		if inv.WorkplaceID != workplaceID || inv.ContactID != contactID || !inv.IsCounted() {
			continue
		}
		counted[inv.InvoiceID] = inv
		if to != nil && inv.InvoiceDate.After(*to) {
			continue
		}
		events = append(events, domain.PartnerLedgerEvent{
			Kind:        domain.LedgerEventInvoice,
			DocumentID:  inv.InvoiceID,
			Number:      inv.InvoiceNumber,
			Date:        inv.InvoiceDate,
			InvoiceType: inv.InvoiceType,
			Amount:      inv.TotalAmount,
			CreatedAt:   inv.CreatedAt,
		})
	}
	for _, p := range st.payments {
		inv, ok := counted[p.InvoiceID]
		if !ok || p.WorkplaceID != workplaceID {
			continue
		}
		if to != nil && p.PaymentDate.After(*to) {
			continue
		}
		events = append(events, domain.PartnerLedgerEvent{
			Kind:        domain.LedgerEventPayment,
			DocumentID:  p.PaymentID,
			Number:      p.PaymentNumber,
			Date:        p.PaymentDate,
			InvoiceType: inv.InvoiceType,
			Amount:      p.Amount,
			CreatedAt:   p.CreatedAt,
		})
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *repos) ListProductMovements(ctx context.Context, workplaceID string) ([]domain.ProductMovement, error) {
	st, done := r.acquire()
	defer done()
	byProduct := map[string]*domain.ProductMovement{}
	movements := []*domain.ProductMovement{}
	for _, p := range st.products {
		if p.WorkplaceID != workplaceID {
			continue
		}
		m := &domain.ProductMovement{Product: p, PurchasedQty: decimal.Zero, SoldQty: decimal.Zero}
		byProduct[p.ProductID] = m
		movements = append(movements, m)
	}
	for _, it := range st.items {
		if it.WorkplaceID != workplaceID || !it.Parent.IsInvoice() {
			continue
		}
		inv, ok := st.invoices[it.Parent.ID]
		if !ok || !inv.IsCounted() {
			continue
		}
		m, ok := byProduct[it.ProductID]
		if !ok {
			continue
		}
		if inv.InvoiceType == domain.InvoiceTypePurchase {
			m.PurchasedQty = m.PurchasedQty.Add(it.Quantity)
		} else {
			m.SoldQty = m.SoldQty.Add(it.Quantity)
		}
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].Product.Name < movements[j].Product.Name })
	out := make([]domain.ProductMovement, len(movements))
	for i, m := range movements {
		out[i] = *m
	}
	return out, nil
}

func (r *repos) SumInvoiceTotals(ctx context.Context, workplaceID string, from, to time.Time) (domain.PeriodTotals, error) {
	st, done := r.acquire()
	defer done()
	totals := domain.PeriodTotals{Revenue: decimal.Zero, Expenses: decimal.Zero}
	for _, inv := range st.invoices {
		if inv.WorkplaceID != workplaceID || !inv.IsCounted() {
			continue
		}
		if !inv.InvoiceDate.After(from) || inv.InvoiceDate.After(to) {
			continue
		}
		if inv.InvoiceType == domain.InvoiceTypePurchase {
			totals.Expenses = totals.Expenses.Add(inv.TotalAmount)
			totals.PurchaseCount++
		} else {
			totals.Revenue = totals.Revenue.Add(inv.TotalAmount)
			totals.SalesCount++
		}
	}
	return totals, nil
}

func (r *repos) SumOutstanding(ctx context.Context, workplaceID string) (decimal.Decimal, decimal.Decimal, error) {
	st, done := r.acquire()
	defer done()
	receivable, payable := decimal.Zero, decimal.Zero
	for _, inv := range st.invoices {
		if inv.WorkplaceID != workplaceID || !inv.IsCounted() {
			continue
		}
		if inv.InvoiceType == domain.InvoiceTypePurchase {
			payable = payable.Add(inv.BalanceAmount)
		} else {
			receivable = receivable.Add(inv.BalanceAmount)
		}
	}
	return receivable, payable, nil
}

func (r *repos) GetTrialBalanceData(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	st, done := r.acquire()
	defer done()
	rows := map[string]*domain.TrialBalanceRow{}
	row := func(accountID string) *domain.TrialBalanceRow {
		if existing, ok := rows[accountID]; ok {
			return existing
		}
		a := st.accounts[accountID]
		created := &domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		rows[accountID] = created
		return created
	}
	for _, t := range st.postings {
		if t.WorkplaceID != workplaceID || t.TransactionDate.After(asOf) {
			continue
		}
		debit := row(t.DebitAccountID)
		debit.Debit = debit.Debit.Add(t.Amount)
		credit := row(t.CreditAccountID)
		credit.Credit = credit.Credit.Add(t.Amount)
	}
	out := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, tb := range rows {
		out = append(out, *tb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}
