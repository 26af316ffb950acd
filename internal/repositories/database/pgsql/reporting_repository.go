package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// reportingRepository aggregates over counted invoices only, i.e. status not DRAFT or CANCELLED.
type reportingRepository struct {
	db querier
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) ListPartnerEvents(ctx context.Context, workplaceID, contactID string, to *time.Time) ([]domain.PartnerLedgerEvent, error) {
	query := `
		WITH counted AS (
			SELECT invoice_id, invoice_number, invoice_date, invoice_type, total_amount, created_at
			FROM invoices
			WHERE workplace_id = $1 AND contact_id = $2 AND status NOT IN ('DRAFT', 'CANCELLED')
		)
		SELECT kind, document_id, number, event_date, invoice_type, amount, created_at FROM (
			SELECT 'INVOICE' AS kind, c.invoice_id AS document_id, c.invoice_number AS number,
			       c.invoice_date AS event_date, c.invoice_type, c.total_amount AS amount, c.created_at
			FROM counted c
			UNION ALL
			SELECT 'PAYMENT', p.payment_id, p.payment_number, p.payment_date, c.invoice_type, p.amount, p.created_at
			FROM payments p
			JOIN counted c ON c.invoice_id = p.invoice_id
			WHERE p.workplace_id = $1
		) events
		WHERE $3::timestamptz IS NULL OR event_date <= $3
		ORDER BY event_date, created_at`
	rows, err := r.db.Query(ctx, query, workplaceID, contactID, to)
	if err != nil {
		return nil, translateError(err, "list partner events")
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PartnerLedgerEvent, error) {
		var e domain.PartnerLedgerEvent
		err := row.Scan(&e.Kind, &e.DocumentID, &e.Number, &e.Date, &e.InvoiceType, &e.Amount, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, translateError(err, "scan partner events")
	}
	return events, nil
}

func (r *reportingRepository) ListProductMovements(ctx context.Context, workplaceID string) ([]domain.ProductMovement, error) {
	query := `
		SELECT ` + prefixed("p.", productColumns) + `,
		       COALESCE(SUM(oi.quantity) FILTER (WHERE i.invoice_type = 'PURCHASE'), 0) AS purchased_qty,
		       COALESCE(SUM(oi.quantity) FILTER (WHERE i.invoice_type = 'SALES'), 0) AS sold_qty
		FROM products p
		LEFT JOIN order_items oi
		       ON oi.product_id = p.product_id AND oi.workplace_id = p.workplace_id AND oi.parent_type = 'INVOICE'
		LEFT JOIN invoices i
		       ON i.invoice_id = oi.parent_id AND i.status NOT IN ('DRAFT', 'CANCELLED')
		WHERE p.workplace_id = $1
		GROUP BY p.product_id
		ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, workplaceID)
	if err != nil {
		return nil, translateError(err, "list product movements")
	}
	movements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductMovement, error) {
		var m domain.ProductMovement
		var minStock decimal.NullDecimal
		p := &m.Product
		err := row.Scan(&p.ProductID, &p.WorkplaceID, &p.SKU, &p.Name, &p.Category, &p.UnitPrice, &minStock,
			&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy, &m.PurchasedQty, &m.SoldQty)
		if minStock.Valid {
			p.MinStockLevel = &minStock.Decimal
		}
		return m, err
	})
	if err != nil {
		return nil, translateError(err, "scan product movements")
	}
	return movements, nil
}

func (r *reportingRepository) SumInvoiceTotals(ctx context.Context, workplaceID string, from, to time.Time) (domain.PeriodTotals, error) {
	var t domain.PeriodTotals
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE invoice_type = 'SALES'), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE invoice_type = 'PURCHASE'), 0),
			COUNT(*) FILTER (WHERE invoice_type = 'SALES'),
			COUNT(*) FILTER (WHERE invoice_type = 'PURCHASE')
		FROM invoices
		WHERE workplace_id = $1 AND status NOT IN ('DRAFT', 'CANCELLED')
		  AND invoice_date > $2 AND invoice_date <= $3`,
		workplaceID, from, to).Scan(&t.Revenue, &t.Expenses, &t.SalesCount, &t.PurchaseCount)
	if err != nil {
		return domain.PeriodTotals{}, translateError(err, "sum invoice totals")
	}
	return t, nil
}

func (r *reportingRepository) SumOutstanding(ctx context.Context, workplaceID string) (decimal.Decimal, decimal.Decimal, error) {
	var receivable, payable decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(balance_amount) FILTER (WHERE invoice_type = 'SALES'), 0),
			COALESCE(SUM(balance_amount) FILTER (WHERE invoice_type = 'PURCHASE'), 0)
		FROM invoices
		WHERE workplace_id = $1 AND status NOT IN ('DRAFT', 'CANCELLED')`,
		workplaceID).Scan(&receivable, &payable)
	if err != nil {
		return decimal.Zero, decimal.Zero, translateError(err, "sum outstanding balances")
	}
	return receivable, payable, nil
}

// GetTrialBalanceData retrieves trial balance data as of a specific date
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		WITH sides AS (
			SELECT debit_account_id AS account_id, amount AS debit, 0::numeric AS credit
			FROM ledger_transactions
			WHERE workplace_id = $1 AND transaction_date <= $2
			UNION ALL
			SELECT credit_account_id, 0::numeric, amount
			FROM ledger_transactions
			WHERE workplace_id = $1 AND transaction_date <= $2
		)
		SELECT a.account_id, a.code, a.name, a.account_type, SUM(s.debit), SUM(s.credit)
		FROM sides s
		JOIN accounts a ON a.account_id = s.account_id
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code`
	rows, err := r.db.Query(ctx, query, workplaceID, asOf)
	if err != nil {
		return nil, translateError(err, "query trial balance")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrialBalanceRow, error) {
		var tb domain.TrialBalanceRow
		err := row.Scan(&tb.AccountID, &tb.AccountCode, &tb.AccountName, &tb.AccountType, &tb.Debit, &tb.Credit)
		return tb, err
	})
	if err != nil {
		return nil, translateError(err, "scan trial balance")
	}
	return out, nil
}
