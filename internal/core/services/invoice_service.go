package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

type invoiceService struct {
	BaseService
	numbering portssvc.NumberingSvc
}

// NewInvoiceService creates the invoice service.
func NewInvoiceService(store portsrepo.Store, numbering portssvc.NumberingSvc, options ...ServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{BaseService: newBaseService(store), numbering: numbering}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice creates an invoice that did not come from an order.
func (s *invoiceService) CreateInvoice(ctx context.Context, workplaceID string, req dto.CreateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if !req.InvoiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice type %q", apperrors.ErrValidation, req.InvoiceType)
	}
	if req.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("%w: invoiceDate is required", apperrors.ErrValidation)
	}
	if req.DueDate != nil && req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: dueDate must not be before invoiceDate", apperrors.ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an invoice needs at least one item", apperrors.ErrValidation)
	}
	items := make([]domain.OrderItem, len(req.Items))
	for i, r := range req.Items {
		items[i] = r.ToDomain()
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", apperrors.ErrValidation, i+1, err)
		}
	}

	status := domain.InvoiceStatusUnpaid
	if req.Draft {
		status = domain.InvoiceStatusDraft
	}
	invoiceDate := req.InvoiceDate.UTC()
	var dueDate *time.Time
	if req.DueDate != nil {
		d := req.DueDate.UTC()
		dueDate = &d
	}

	var created domain.Invoice
	err := s.RunInTx(ctx, "create invoice", func(ctx context.Context, repos portsrepo.Repositories) error {
		contact, err := repos.Contacts().FindContactByID(ctx, workplaceID, req.ContactID)
		if err != nil {
			return storeError(err, "find contact")
		}
		if !contact.CanTradeAs(req.InvoiceType.OrderType()) {
			return fmt.Errorf("%w: contact %s is a %s and cannot receive %s invoices",
				apperrors.ErrValidation, contact.ContactID, contact.ContactType, req.InvoiceType)
		}
		for _, it := range items {
			if _, err := repos.Products().FindProductByID(ctx, workplaceID, it.ProductID); err != nil {
				return storeError(err, "find product")
			}
		}

		number, err := s.numbering.NextNumber(ctx, repos, workplaceID, req.InvoiceType.DocumentType(), invoiceDate)
		if err != nil {
			return err
		}
		audit := domain.NewAuditFields(actor.UserID, s.Now())
		inv := domain.Invoice{
			InvoiceID:     newID(),
			WorkplaceID:   workplaceID,
			InvoiceType:   req.InvoiceType,
			InvoiceNumber: number,
			ContactID:     contact.ContactID,
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			Terms:         req.Terms,
			Notes:         req.Notes,
			Status:        status,
			AuditFields:   audit,
		}
		lines := make([]domain.OrderItem, len(items))
		for i, it := range items {
			lines[i] = it.CopyTo(inv.Ref(), newID(), audit)
			lines[i].WorkplaceID = workplaceID
		}
		inv.SetTotalsFromItems(lines)

		if err := repos.Invoices().SaveInvoice(ctx, inv); err != nil {
			return storeError(err, "save invoice")
		}
		if err := repos.OrderItems().SaveItems(ctx, lines); err != nil {
			return storeError(err, "save invoice items")
		}
		inv.Items = lines
		created = inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("workplace_id", workplaceID))
		return nil, err
	}
	s.invalidateReports(ctx, workplaceID)
	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", created.InvoiceID),
		slog.String("invoice_number", created.InvoiceNumber),
		slog.String("status", string(created.Status)))
	return &created, nil
}

// IssueInvoice moves a DRAFT invoice to UNPAID.
func (s *invoiceService) IssueInvoice(ctx context.Context, workplaceID, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	return s.changeStatus(ctx, workplaceID, invoiceID, actor, "issue invoice",
		func(_ context.Context, _ portsrepo.Repositories, inv *domain.Invoice) (domain.InvoiceStatus, error) {
			if inv.Status != domain.InvoiceStatusDraft {
				return "", fmt.Errorf("%w: only DRAFT invoices can be issued (status %s)", apperrors.ErrInvalidState, inv.Status)
			}
			return domain.InvoiceStatusUnpaid, nil
		})
}

// CancelInvoice cancels an invoice that has no payments.
func (s *invoiceService) CancelInvoice(ctx context.Context, workplaceID, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	return s.changeStatus(ctx, workplaceID, invoiceID, actor, "cancel invoice",
		func(ctx context.Context, repos portsrepo.Repositories, inv *domain.Invoice) (domain.InvoiceStatus, error) {
			if inv.Status == domain.InvoiceStatusCancelled {
				return "", fmt.Errorf("%w: invoice is already cancelled", apperrors.ErrInvalidState)
			}
			payments, err := repos.Payments().CountPaymentsByInvoice(ctx, workplaceID, inv.InvoiceID)
			if err != nil {
				return "", storeError(err, "count invoice payments")
			}
			if payments > 0 {
				return "", fmt.Errorf("%w: invoice has %d payment(s) and cannot be cancelled", apperrors.ErrInvalidState, payments)
			}
			return domain.InvoiceStatusCancelled, nil
		})
}

type invoiceRule func(ctx context.Context, repos portsrepo.Repositories, inv *domain.Invoice) (domain.InvoiceStatus, error)

func (s *invoiceService) changeStatus(ctx context.Context, workplaceID, invoiceID string, actor domain.Actor, op string, rule invoiceRule) (*domain.Invoice, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	var updated *domain.Invoice
	err := s.RunInTx(ctx, op, func(ctx context.Context, repos portsrepo.Repositories) error {
		inv, err := repos.Invoices().FindInvoiceByIDForUpdate(ctx, workplaceID, invoiceID)
		if err != nil {
			return storeError(err, "find invoice")
		}
		next, err := rule(ctx, repos, inv)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := repos.Invoices().UpdateInvoiceStatus(ctx, workplaceID, invoiceID, next, actor.UserID, now); err != nil {
			return storeError(err, "update invoice status")
		}
		inv.Status = next
		inv.Touch(actor.UserID, now)
		updated = inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Invoice status change failed", slog.String("operation", op), slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.invalidateReports(ctx, workplaceID)
	s.LogInfo(ctx, "Invoice status changed", slog.String("invoice_id", invoiceID), slog.String("status", string(updated.Status)))
	return updated, nil
}

// MarkOverdueInvoices flags UNPAID and PARTIAL invoices whose due date has passed.
func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, workplaceID string, asOf time.Time, actor domain.Actor) (int, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return 0, err
	}
	var marked int
	err := s.RunInTx(ctx, "mark overdue invoices", func(ctx context.Context, repos portsrepo.Repositories) error {
		marked = 0
		candidates, err := repos.Invoices().ListOpenInvoicesDueBefore(ctx, workplaceID, asOf)
		if err != nil {
			return storeError(err, "list open invoices")
		}
		now := s.Now()
		for _, inv := range candidates {
			if !inv.IsOverdueAt(asOf) {
				continue
			}
			if err := repos.Invoices().UpdateInvoiceStatus(ctx, workplaceID, inv.InvoiceID, domain.InvoiceStatusOverdue, actor.UserID, now); err != nil {
				return storeError(err, "mark invoice overdue")
			}
			marked++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to mark overdue invoices", slog.String("workplace_id", workplaceID))
		return 0, err
	}
	if marked > 0 {
		s.invalidateReports(ctx, workplaceID)
	}
	s.LogInfo(ctx, "Overdue invoices marked", slog.String("workplace_id", workplaceID), slog.Int("count", marked))
	return marked, nil
}

// GetInvoice returns the invoice with its items. Invoices outside scope are reported as not found.
func (s *invoiceService) GetInvoice(ctx context.Context, workplaceID, invoiceID string, scope domain.Scope) (*domain.Invoice, error) {
	inv, err := s.Store.Invoices().FindInvoiceByID(ctx, workplaceID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, storeError(err, "find invoice")
	}
	if !scope.Allows(inv.ContactID) {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	items, err := s.Store.OrderItems().ListItems(ctx, workplaceID, inv.Ref())
	if err != nil {
		return nil, storeError(err, "list invoice items")
	}
	inv.Items = items
	return inv, nil
}

// ListInvoices returns a page of invoices. A restricted scope overrides any contact filter.
func (s *invoiceService) ListInvoices(ctx context.Context, workplaceID string, params dto.ListInvoicesParams, scope domain.Scope) ([]domain.Invoice, *string, error) {
	filter := params.Filter()
	if scope.RestrictToContactID != nil {
		filter.ContactID = scope.RestrictToContactID
	}
	invoices, next, err := s.Store.Invoices().ListInvoices(ctx, workplaceID, filter, params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to list invoices", slog.String("workplace_id", workplaceID))
		return nil, nil, storeError(err, "list invoices")
	}
	return invoices, next, nil
}
