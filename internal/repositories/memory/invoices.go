package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
)

// likePrefix turns a trailing-wildcard LIKE pattern into a plain prefix.
func likePrefix(pattern string) string {
	return strings.TrimSuffix(pattern, "%")
}

func invoiceCursor(inv domain.Invoice) pagination.Cursor {
	return pagination.Cursor{DocumentDate: inv.InvoiceDate, CreatedAt: inv.CreatedAt, ID: inv.InvoiceID}
}

func (r *repos) FindInvoiceByID(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error) {
	st, done := r.acquire()
	defer done()
	inv, ok := st.invoices[invoiceID]
	if !ok || inv.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	inv.Items = st.itemsOf(workplaceID, inv.Ref())
	return &inv, nil
}

func (r *repos) FindInvoiceByIDForUpdate(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error) {
	return r.FindInvoiceByID(ctx, workplaceID, invoiceID)
}

func (r *repos) FindActiveInvoiceForOrder(ctx context.Context, workplaceID, orderID string, invoiceType domain.InvoiceType) (*domain.Invoice, error) {
	st, done := r.acquire()
	defer done()
	if inv, ok := st.activeConversion(workplaceID, orderID, invoiceType, ""); ok {
		return &inv, nil
	}
	return nil, apperrors.NewNotFoundError("invoice for order " + orderID)
}

func (st *state) activeConversion(workplaceID, orderID string, invoiceType domain.InvoiceType, exceptID string) (domain.Invoice, bool) {
	for _, inv := range st.invoices {
		if inv.WorkplaceID == workplaceID && inv.InvoiceType == invoiceType &&
			inv.OrderID != nil && *inv.OrderID == orderID &&
			inv.Status != domain.InvoiceStatusCancelled && inv.InvoiceID != exceptID {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

func matchesFilter(inv domain.Invoice, f domain.InvoiceFilter) bool {
	switch {
	case f.InvoiceType != nil && inv.InvoiceType != *f.InvoiceType:
		return false
	case f.Status != nil && inv.Status != *f.Status:
		return false
	case f.ContactID != nil && inv.ContactID != *f.ContactID:
		return false
	case f.OrderID != nil && (inv.OrderID == nil || *inv.OrderID != *f.OrderID):
		return false
	case f.From != nil && inv.InvoiceDate.Before(*f.From):
		return false
	case f.To != nil && inv.InvoiceDate.After(*f.To):
		return false
	}
	return true
}

func (r *repos) ListInvoices(ctx context.Context, workplaceID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
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
	out := []domain.Invoice{}
	for _, inv := range st.invoices {
		if inv.WorkplaceID != workplaceID || !matchesFilter(inv, filter) {
			continue
		}
		if cursor != nil && !cursor.After(invoiceCursor(inv)) {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		return invoiceCursor(out[i]).After(invoiceCursor(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	var next *string
	if len(out) > 0 {
		next = pagination.NextToken(len(out), limit, invoiceCursor(out[len(out)-1]))
	}
	return out, next, nil
}

func (r *repos) ListOpenInvoicesDueBefore(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.Invoice, error) {
	st, done := r.acquire()
	defer done()
	out := []domain.Invoice{}
	for _, inv := range st.invoices {
		if inv.WorkplaceID == workplaceID && inv.IsOverdueAt(asOf) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (r *repos) LatestInvoiceNumber(ctx context.Context, workplaceID string, invoiceType domain.InvoiceType, pattern string) (string, bool, error) {
	st, done := r.acquire()
	defer done()
	prefix := likePrefix(pattern)
	var latest *domain.Invoice
	for _, inv := range st.invoices {
		if inv.WorkplaceID != workplaceID || inv.InvoiceType != invoiceType || !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) ||
			(inv.CreatedAt.Equal(latest.CreatedAt) && inv.InvoiceNumber > latest.InvoiceNumber) {
			candidate := inv
			latest = &candidate
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return latest.InvoiceNumber, true, nil
}

func (r *repos) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	st, done := r.acquire()
	defer done()
	for _, inv := range st.invoices {
		if inv.WorkplaceID == invoice.WorkplaceID && inv.InvoiceNumber == invoice.InvoiceNumber && inv.InvoiceID != invoice.InvoiceID {
			return fmt.Errorf("%w: invoice number %s is taken", apperrors.ErrConcurrentUpdate, invoice.InvoiceNumber)
		}
	}
	if invoice.OrderID != nil && invoice.Status != domain.InvoiceStatusCancelled {
		if _, ok := st.activeConversion(invoice.WorkplaceID, *invoice.OrderID, invoice.InvoiceType, invoice.InvoiceID); ok {
			return fmt.Errorf("%w: order %s already has an active invoice", apperrors.ErrConflict, *invoice.OrderID)
		}
	}
	invoice.Items = nil
	st.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (r *repos) UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice) error {
	st, done := r.acquire()
	defer done()
	inv, ok := st.invoices[invoice.InvoiceID]
	if !ok || inv.WorkplaceID != invoice.WorkplaceID {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID)
	}
	inv.PaidAmount = invoice.PaidAmount
	inv.BalanceAmount = invoice.BalanceAmount
	inv.Status = invoice.Status
	inv.AuditFields = invoice.AuditFields
	st.invoices[inv.InvoiceID] = inv
	return nil
}

func (r *repos) UpdateInvoiceStatus(ctx context.Context, workplaceID, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error {
	st, done := r.acquire()
	defer done()
	inv, ok := st.invoices[invoiceID]
	if !ok || inv.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	inv.Status = status
	inv.Touch(userID, now)
	st.invoices[invoiceID] = inv
	return nil
}
