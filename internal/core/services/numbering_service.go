package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// maxTakenSkips bounds how many occupied numbers one allocation steps over.
const maxTakenSkips = 1000

// DocumentPrefixes configures the textual prefix of every numbered document type.
type DocumentPrefixes struct {
	Invoice       string
	Bill          string
	SalesOrder    string
	PurchaseOrder string
}

// DefaultDocumentPrefixes are used when none are configured.
var DefaultDocumentPrefixes = DocumentPrefixes{Invoice: "INV", Bill: "BILL", SalesOrder: "SO", PurchaseOrder: "PO"}

func (p DocumentPrefixes) forType(docType domain.DocumentType) string {
	switch docType {
	case domain.DocSalesInvoice:
		return p.Invoice
	case domain.DocPurchaseInvoice:
		return p.Bill
	case domain.DocSalesOrder:
		return p.SalesOrder
	case domain.DocPurchaseOrder:
		return p.PurchaseOrder
	}
	return "" // payments carry no prefix
}

// numberingService allocates document numbers from per-period counter rows.
type numberingService struct {
	BaseService
	prefixes DocumentPrefixes
}

// NewNumberingService creates a numbering service. The store is not used directly:
// sequences are always advanced on the caller's transaction.
func NewNumberingService(prefixes DocumentPrefixes, options ...ServiceOption) portssvc.NumberingSvc {
	svc := &numberingService{BaseService: newBaseService(nil), prefixes: prefixes}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

// NextNumber allocates the next number in the period of date. A missing counter is
// seeded from the latest document already numbered in that period.
func (s *numberingService) NextNumber(ctx context.Context, repos portsrepo.Repositories, workplaceID string, docType domain.DocumentType, date time.Time) (string, error) {
	if docType != domain.DocPayment && !docType.IsMonthly() {
		return "", fmt.Errorf("%w: document type %s is not sequence numbered", apperrors.ErrValidation, docType)
	}
	prefix := s.prefixes.forType(docType)
	key := domain.SequenceKeyFor(workplaceID, docType, date)

	exists, err := repos.Sequences().SequenceExists(ctx, key)
	if err != nil {
		return "", storeError(err, "check document sequence")
	}
	if !exists {
		seed, err := s.seedValue(ctx, repos, key, prefix)
		if err != nil {
			return "", err
		}
		if err := repos.Sequences().SeedSequence(ctx, key, seed); err != nil {
			return "", storeError(err, "seed document sequence")
		}
	}

	var number string
	for skipped := 0; ; skipped++ {
		next, err := repos.Sequences().NextSequenceValue(ctx, key)
		if err != nil {
			return "", storeError(err, "advance document sequence")
		}
		number = domain.FormatDocumentNumber(prefix, key, next)
		taken, err := s.numberTaken(ctx, repos, workplaceID, docType, number)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
		// a client-supplied number already occupies this slot
		if skipped >= maxTakenSkips {
			return "", fmt.Errorf("%w: %d consecutive %s numbers are already taken", apperrors.ErrInternal, maxTakenSkips, docType)
		}
	}
	s.LogDebug(ctx, "Allocated document number",
		slog.String("workplace_id", workplaceID),
		slog.String("document_type", string(docType)),
		slog.String("number", number))
	return number, nil
}

// numberTaken reports whether number is already used. Only payment numbers can be
// supplied by clients, so other types are never taken outside the counter.
func (s *numberingService) numberTaken(ctx context.Context, repos portsrepo.Repositories, workplaceID string, docType domain.DocumentType, number string) (bool, error) {
	if docType != domain.DocPayment {
		return false, nil
	}
	taken, err := repos.Payments().PaymentNumberExists(ctx, workplaceID, number)
	if err != nil {
		return false, storeError(err, "check payment number")
	}
	return taken, nil
}

func (s *numberingService) seedValue(ctx context.Context, repos portsrepo.Repositories, key domain.SequenceKey, prefix string) (int64, error) {
	pattern := key.NumberPattern(prefix)

	var (
		latest string
		found  bool
		err    error
	)
	switch key.DocumentType {
	case domain.DocSalesInvoice:
		latest, found, err = repos.Invoices().LatestInvoiceNumber(ctx, key.WorkplaceID, domain.InvoiceTypeSales, pattern)
	case domain.DocPurchaseInvoice:
		latest, found, err = repos.Invoices().LatestInvoiceNumber(ctx, key.WorkplaceID, domain.InvoiceTypePurchase, pattern)
	case domain.DocPayment:
		latest, found, err = repos.Payments().LatestPaymentNumber(ctx, key.WorkplaceID, pattern)
	}
	if err != nil {
		return 0, storeError(err, "look up latest document number")
	}
	if !found {
		return 0, nil
	}

	seq, err := domain.ParseTrailingSequence(latest)
	if err != nil {
		s.LogError(ctx, err, "Cannot seed document sequence from existing number",
			slog.String("workplace_id", key.WorkplaceID),
			slog.String("document_type", string(key.DocumentType)),
			slog.String("latest", latest))
		return 0, fmt.Errorf("%w: cannot continue numbering after %q", apperrors.ErrInternal, latest)
	}
	return seq, nil
}

// OrderNumber renders a clock-based order number such as SO-1718409600000.
func (s *numberingService) OrderNumber(orderType domain.OrderType) string {
	docType := domain.DocSalesOrder
	if orderType == domain.OrderTypePurchase {
		docType = domain.DocPurchaseOrder
	}
	return domain.FormatOrderNumber(s.prefixes.forType(docType), s.Now())
}
