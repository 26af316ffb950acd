package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const dateKeyFormat = "2006-01-02"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	cache    portsrepo.ReportCache
	cacheTTL time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache caches computed reports for ttl. A zero ttl leaves caching off.
func WithReportCache(cache portsrepo.ReportCache, ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		if ttl > 0 {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(store portsrepo.Store, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{BaseService: newBaseService(store)}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetPartnerLedger builds the chronological statement of a contact. Entries before
// params.From are folded into the opening balance only when CarryForward is set.
func (s *reportingService) GetPartnerLedger(ctx context.Context, workplaceID, contactID string, params dto.PartnerLedgerParams, scope domain.Scope) (*domain.PartnerLedger, error) {
	if !scope.Allows(contactID) {
		return nil, apperrors.NewNotFoundError("contact " + contactID)
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, fmt.Errorf("%w: 'to' must not be before 'from'", apperrors.ErrValidation)
	}

	key := fmt.Sprintf("ledger:%s:%s:%s:%t", contactID, dateKey(params.From), dateKey(params.To), params.CarryForward)
	var cached domain.PartnerLedger
	if s.cacheGet(ctx, workplaceID, key, &cached) {
		return &cached, nil
	}

	contact, err := s.Store.Contacts().FindContactByID(ctx, workplaceID, contactID)
	if err != nil {
		return nil, storeError(err, "find contact")
	}
	events, err := s.Store.Reporting().ListPartnerEvents(ctx, workplaceID, contactID, params.To)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve partner events", slog.String("contact_id", contactID))
		return nil, storeError(err, "list partner events")
	}

	ledger := BuildPartnerLedger(*contact, events, params.From, params.To, params.CarryForward)

	s.cacheSet(ctx, workplaceID, key, ledger)
	s.LogInfo(ctx, "Partner ledger generated",
		slog.String("contact_id", contactID),
		slog.Int("entries", len(ledger.Entries)),
		slog.String("closing", ledger.ClosingBalance.String()))
	return &ledger, nil
}

// BuildPartnerLedger runs balances over events. Events must all be dated on or before to.
func BuildPartnerLedger(contact domain.Contact, events []domain.PartnerLedgerEvent, from, to *time.Time, carryForward bool) domain.PartnerLedger {
	sorted := make([]domain.PartnerLedgerEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	ledger := domain.PartnerLedger{
		Contact:        contact,
		From:           from,
		To:             to,
		OpeningBalance: decimal.Zero,
		Entries:        []domain.PartnerLedgerEntry{},
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	for _, ev := range sorted {
		debit, credit := decimal.Zero, decimal.Zero
		if ev.Side() == domain.Debit {
			debit = ev.Amount
		} else {
			credit = ev.Amount
		}
		if from != nil && ev.Date.Before(*from) {
			if carryForward {
				ledger.OpeningBalance = ledger.OpeningBalance.Add(debit).Sub(credit)
			}
			continue
		}
		ledger.TotalDebit = ledger.TotalDebit.Add(debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(credit)
		ledger.Entries = append(ledger.Entries, domain.PartnerLedgerEntry{
			Date:           ev.Date,
			Kind:           ev.Kind,
			DocumentID:     ev.DocumentID,
			DocumentNumber: ev.Number,
			Debit:          debit,
			Credit:         credit,
			RunningBalance: ledger.OpeningBalance.Add(ledger.TotalDebit).Sub(ledger.TotalCredit),
		})
	}
	ledger.ClosingBalance = ledger.OpeningBalance.Add(ledger.TotalDebit).Sub(ledger.TotalCredit)
	return ledger
}

// GetStockReport derives per-product stock from invoice quantities.
func (s *reportingService) GetStockReport(ctx context.Context, workplaceID string, query domain.StockQuery) (*domain.StockReport, error) {
	if query.Sort == "" {
		query.Sort = domain.StockSortName
	}
	switch query.Sort {
	case domain.StockSortName, domain.StockSortStock, domain.StockSortStatus:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", apperrors.ErrValidation, query.Sort)
	}

	key := fmt.Sprintf("stock:%s:%s:%s:%t", strings.ToLower(query.Search), strings.ToLower(query.Category), query.Sort, query.Desc)
	var cached domain.StockReport
	if s.cacheGet(ctx, workplaceID, key, &cached) {
		return &cached, nil
	}

	movements, err := s.Store.Reporting().ListProductMovements(ctx, workplaceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve product movements", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "list product movements")
	}

	report := BuildStockReport(movements, query)

	s.cacheSet(ctx, workplaceID, key, report)
	s.LogInfo(ctx, "Stock report generated",
		slog.String("workplace_id", workplaceID),
		slog.Int("products", report.Summary.TotalProducts),
		slog.Int("alerts", len(report.Alerts)))
	return &report, nil
}

var stockStatusRank = map[domain.StockStatus]int{
	domain.StockOutOfStock: 0,
	domain.StockCritical:   1,
	domain.StockLow:        2,
	domain.StockGood:       3,
}

// BuildStockReport filters, sorts and summarises stock levels.
func BuildStockReport(movements []domain.ProductMovement, query domain.StockQuery) domain.StockReport {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.ToLower(strings.TrimSpace(query.Category))

	report := domain.StockReport{
		Items:   []domain.StockLevel{},
		Alerts:  []domain.StockLevel{},
		Summary: domain.StockSummary{TotalStockValue: decimal.Zero},
	}
	for _, m := range movements {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Product.Name), search) &&
			!strings.Contains(strings.ToLower(m.Product.SKU), search) {
			continue
		}
		if category != "" && strings.ToLower(m.Product.Category) != category {
			continue
		}
		report.Items = append(report.Items, domain.NewStockLevel(m))
	}

	less := func(a, b domain.StockLevel) bool {
		switch query.Sort {
		case domain.StockSortStock:
			if !a.CurrentStock.Equal(b.CurrentStock) {
				return a.CurrentStock.LessThan(b.CurrentStock)
			}
		case domain.StockSortStatus:
			if stockStatusRank[a.Status] != stockStatusRank[b.Status] {
				return stockStatusRank[a.Status] < stockStatusRank[b.Status]
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		if query.Desc {
			return less(report.Items[j], report.Items[i])
		}
		return less(report.Items[i], report.Items[j])
	})

	for _, item := range report.Items {
		report.Summary.TotalProducts++
		report.Summary.TotalStockValue = report.Summary.TotalStockValue.Add(item.StockValue)
		switch item.Status {
		case domain.StockOutOfStock:
			report.Summary.OutOfStockCount++
		case domain.StockCritical:
			report.Summary.CriticalCount++
		case domain.StockLow:
			report.Summary.LowCount++
		default:
			report.Summary.GoodCount++
		}
		if item.Status != domain.StockGood {
			report.Alerts = append(report.Alerts, item)
		}
	}
	return report
}

// GetFinancialSummary compares the window (now-d, now] with (now-2d, now-d].
func (s *reportingService) GetFinancialSummary(ctx context.Context, workplaceID string, period domain.SummaryPeriod, now time.Time) (*domain.FinancialSummary, error) {
	d, err := period.Duration()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	now = now.UTC()

	key := fmt.Sprintf("summary:%s:%s", period, now.Truncate(time.Minute).Format(time.RFC3339))
	var cached domain.FinancialSummary
	if s.cacheGet(ctx, workplaceID, key, &cached) {
		return &cached, nil
	}

	from := now.Add(-d)
	current, err := s.Store.Reporting().SumInvoiceTotals(ctx, workplaceID, from, now)
	if err != nil {
		return nil, storeError(err, "sum current period")
	}
	previous, err := s.Store.Reporting().SumInvoiceTotals(ctx, workplaceID, from.Add(-d), from)
	if err != nil {
		return nil, storeError(err, "sum previous period")
	}
	receivable, payable, err := s.Store.Reporting().SumOutstanding(ctx, workplaceID)
	if err != nil {
		return nil, storeError(err, "sum outstanding balances")
	}

	summary := domain.FinancialSummary{
		Period:                period,
		From:                  from,
		To:                    now,
		Revenue:               domain.NewMetric(current.Revenue, previous.Revenue),
		Expenses:              domain.NewMetric(current.Expenses, previous.Expenses),
		NetProfit:             domain.NewMetric(current.Revenue.Sub(current.Expenses), previous.Revenue.Sub(previous.Expenses)),
		SalesInvoiceCount:     current.SalesCount,
		PurchaseBillCount:     current.PurchaseCount,
		OutstandingReceivable: receivable,
		OutstandingPayable:    payable,
	}

	s.cacheSet(ctx, workplaceID, key, summary)
	s.LogInfo(ctx, "Financial summary generated",
		slog.String("workplace_id", workplaceID),
		slog.String("period", string(period)),
		slog.String("revenue", current.Revenue.String()))
	return &summary, nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	key := "trial-balance:" + asOf.UTC().Format(dateKeyFormat)
	var cached []domain.TrialBalanceRow
	if s.cacheGet(ctx, workplaceID, key, &cached) {
		return cached, nil
	}

	rows, err := s.Store.Reporting().GetTrialBalanceData(ctx, workplaceID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("workplace_id", workplaceID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, storeError(err, "retrieve trial balance data")
	}
	for i := range rows {
		balance, err := accounting.SignedBalance(rows[i].Debit, rows[i].Credit, rows[i].AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", apperrors.ErrInternal, rows[i].AccountID, err)
		}
		rows[i].Balance = balance
	}

	s.cacheSet(ctx, workplaceID, key, rows)
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("workplace_id", workplaceID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// InvalidateReports drops cached reports of the workplace. Failures are logged only;
// entries still expire with their TTL.
func (s *reportingService) InvalidateReports(ctx context.Context, workplaceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWorkplace(ctx, workplaceID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate cached reports", slog.String("workplace_id", workplaceID))
	}
}

func (s *reportingService) cacheGet(ctx context.Context, workplaceID, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, workplaceID, key, dest)
	if err != nil {
		s.LogDebug(ctx, "Report cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return found
}

func (s *reportingService) cacheSet(ctx context.Context, workplaceID, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, workplaceID, key, value, s.cacheTTL); err != nil {
		s.LogDebug(ctx, "Report cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(dateKeyFormat)
}
