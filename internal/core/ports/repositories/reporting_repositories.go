package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines operations for retrieving report data. Draft and
// cancelled invoices, and payments against them, are never returned.
type ReportingRepository interface {
	// ListPartnerEvents returns the invoices and payments of a contact dated on or before
	// to (all when nil), ordered by date then creation time.
	ListPartnerEvents(ctx context.Context, workplaceID, contactID string, to *time.Time) ([]domain.PartnerLedgerEvent, error)

	// ListProductMovements returns purchased and sold invoice quantities for every product.
	ListProductMovements(ctx context.Context, workplaceID string) ([]domain.ProductMovement, error)

	// SumInvoiceTotals sums invoice totals with from < invoiceDate <= to.
	SumInvoiceTotals(ctx context.Context, workplaceID string, from, to time.Time) (domain.PeriodTotals, error)

	// SumOutstanding returns open balances of sales invoices and purchase bills.
	SumOutstanding(ctx context.Context, workplaceID string) (receivable, payable decimal.Decimal, err error)

	// GetTrialBalanceData retrieves trial balance data as of a specific date
	GetTrialBalanceData(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
