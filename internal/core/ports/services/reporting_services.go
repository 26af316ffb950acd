package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// ReportingService defines operations for generating reports. All reports exclude
// DRAFT and CANCELLED invoices.
type ReportingService interface {
	// GetPartnerLedger builds the running-balance statement of one contact.
	GetPartnerLedger(ctx context.Context, workplaceID, contactID string, params dto.PartnerLedgerParams, scope domain.Scope) (*domain.PartnerLedger, error)

	// GetStockReport derives stock levels from purchase and sales invoice quantities.
	GetStockReport(ctx context.Context, workplaceID string, query domain.StockQuery) (*domain.StockReport, error)

	// GetFinancialSummary compares the window ending at now with the one before it.
	GetFinancialSummary(ctx context.Context, workplaceID string, period domain.SummaryPeriod, now time.Time) (*domain.FinancialSummary, error)

	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// InvalidateReports drops cached reports of the workplace after a mutation.
	InvalidateReports(ctx context.Context, workplaceID string)
}
