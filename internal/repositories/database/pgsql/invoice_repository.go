package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type invoiceRepository struct {
	db    querier
	items *orderItemRepository
}

var _ portsrepo.InvoiceRepositoryFacade = (*invoiceRepository)(nil)

const invoiceColumns = `invoice_id, workplace_id, invoice_type, invoice_number, contact_id, order_id, invoice_date, due_date, terms, notes, status,
	sub_total, tax_amount, discount_amount, total_amount, paid_amount, balance_amount,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.InvoiceID, &inv.WorkplaceID, &inv.InvoiceType, &inv.InvoiceNumber, &inv.ContactID, &inv.OrderID,
		&inv.InvoiceDate, &inv.DueDate, &inv.Terms, &inv.Notes, &inv.Status,
		&inv.SubTotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount, &inv.PaidAmount, &inv.BalanceAmount,
		&inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy)
	return inv, err
}

func collectInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invoice, error) {
		return scanInvoice(row)
	})
}

func (r *invoiceRepository) findInvoice(ctx context.Context, workplaceID, invoiceID string, lock bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE workplace_id = $1 AND invoice_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, workplaceID, invoiceID))
	if err != nil {
		return nil, notFoundOr(err, "invoice", "find invoice")
	}
	items, err := r.items.ListItems(ctx, workplaceID, inv.Ref())
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *invoiceRepository) FindInvoiceByID(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, workplaceID, invoiceID, false)
}

func (r *invoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, workplaceID, invoiceID, true)
}

func (r *invoiceRepository) FindActiveInvoiceForOrder(ctx context.Context, workplaceID, orderID string, invoiceType domain.InvoiceType) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE workplace_id = $1 AND order_id = $2 AND invoice_type = $3 AND status <> 'CANCELLED'
		LIMIT 1`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, workplaceID, orderID, invoiceType))
	if err != nil {
		return nil, notFoundOr(err, "invoice for order", "find order invoice")
	}
	return &inv, nil
}

// ListInvoices pages with a keyset on (invoice_date, created_at, invoice_id).
func (r *invoiceRepository) ListInvoices(ctx context.Context, workplaceID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	conditions := []string{"workplace_id = $1"}
	args := []any{workplaceID}
	add := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = len(args)
		}
		conditions = append(conditions, fmt.Sprintf(format, placeholders...))
	}

	if filter.InvoiceType != nil {
		add("invoice_type = $%d", *filter.InvoiceType)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.ContactID != nil {
		add("contact_id = $%d", *filter.ContactID)
	}
	if filter.OrderID != nil {
		add("order_id = $%d", *filter.OrderID)
	}
	if filter.From != nil {
		add("invoice_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("invoice_date <= $%d", *filter.To)
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		add("(invoice_date, created_at, invoice_id) < ($%d, $%d, $%d)", cursor.DocumentDate, cursor.CreatedAt, cursor.ID)
	}

	args = append(args, limitArg(limit))
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices
		WHERE %s
		ORDER BY invoice_date DESC, created_at DESC, invoice_id DESC
		LIMIT $%d`, invoiceColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "list invoices")
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, nil, translateError(err, "scan invoices")
	}

	var next *string
	if n := len(invoices); n > 0 {
		last := invoices[n-1]
		next = pagination.NextToken(n, limit, pagination.Cursor{DocumentDate: last.InvoiceDate, CreatedAt: last.CreatedAt, ID: last.InvoiceID})
	}
	return invoices, next, nil
}

func (r *invoiceRepository) ListOpenInvoicesDueBefore(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE workplace_id = $1 AND status IN ('UNPAID', 'PARTIAL')
		  AND due_date IS NOT NULL AND due_date < $2 AND balance_amount > 0
		ORDER BY invoice_number`
	rows, err := r.db.Query(ctx, query, workplaceID, asOf)
	if err != nil {
		return nil, translateError(err, "list overdue invoices")
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, translateError(err, "scan invoices")
	}
	return invoices, nil
}

func (r *invoiceRepository) LatestInvoiceNumber(ctx context.Context, workplaceID string, invoiceType domain.InvoiceType, pattern string) (string, bool, error) {
	var number string
	err := r.db.QueryRow(ctx, `
		SELECT invoice_number FROM invoices
		WHERE workplace_id = $1 AND invoice_type = $2 AND starts_with(invoice_number, $3)
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT 1`,
		workplaceID, invoiceType, likePrefix(pattern)).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translateError(err, "find latest invoice number")
	}
	return number, true, nil
}

func (r *invoiceRepository) SaveInvoice(ctx context.Context, inv domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.db.Exec(ctx, query, inv.InvoiceID, inv.WorkplaceID, inv.InvoiceType, inv.InvoiceNumber, inv.ContactID, inv.OrderID,
		inv.InvoiceDate, inv.DueDate, inv.Terms, inv.Notes, inv.Status,
		inv.SubTotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount, inv.PaidAmount, inv.BalanceAmount,
		inv.CreatedAt, inv.CreatedBy, inv.LastUpdatedAt, inv.LastUpdatedBy)
	return translateError(err, "save invoice")
}

func (r *invoiceRepository) UpdateInvoiceSettlement(ctx context.Context, inv domain.Invoice) error {
	return execAffecting(ctx, r.db, "invoice", "update invoice settlement", `
		UPDATE invoices
		SET paid_amount = $3, balance_amount = $4, status = $5, last_updated_at = $6, last_updated_by = $7
		WHERE workplace_id = $1 AND invoice_id = $2`,
		inv.WorkplaceID, inv.InvoiceID, inv.PaidAmount, inv.BalanceAmount, inv.Status, inv.LastUpdatedAt, inv.LastUpdatedBy)
}

func (r *invoiceRepository) UpdateInvoiceStatus(ctx context.Context, workplaceID, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error {
	return execAffecting(ctx, r.db, "invoice", "update invoice status", `
		UPDATE invoices SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND invoice_id = $2`,
		workplaceID, invoiceID, status, now, userID)
}
