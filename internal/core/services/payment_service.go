package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

// paymentService reconciles payments against invoices.
type paymentService struct {
	BaseService
	numbering portssvc.NumberingSvc
}

// NewPaymentService creates the payment reconciliation engine.
func NewPaymentService(store portsrepo.Store, numbering portssvc.NumberingSvc, options ...ServiceOption) portssvc.PaymentSvcFacade {
	svc := &paymentService{BaseService: newBaseService(store), numbering: numbering}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// ApplyPayment records a payment and updates the invoice's paid amount, balance and status
// in one unit of work with the invoice row locked.
func (s *paymentService) ApplyPayment(ctx context.Context, workplaceID, invoiceID string, req dto.ApplyPaymentRequest, actor domain.Actor) (*domain.Payment, *domain.Invoice, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	if !req.Method.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	if req.PaymentDate.IsZero() {
		return nil, nil, fmt.Errorf("%w: paymentDate is required", apperrors.ErrValidation)
	}
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, nil, err
	}
	var suppliedNumber string
	if req.PaymentNumber != nil {
		suppliedNumber = strings.TrimSpace(*req.PaymentNumber)
	}
	paymentDate := req.PaymentDate.UTC()

	var (
		payment domain.Payment
		invoice domain.Invoice
	)
	err := s.RunInTx(ctx, "apply payment", func(ctx context.Context, repos portsrepo.Repositories) error {
		inv, err := repos.Invoices().FindInvoiceByIDForUpdate(ctx, workplaceID, invoiceID)
		if err != nil {
			return storeError(err, "find invoice")
		}
		if !inv.AcceptsPayments() {
			return fmt.Errorf("%w: cannot record a payment on a %s invoice", apperrors.ErrInvalidState, inv.Status)
		}

		number := suppliedNumber
		if number != "" {
			taken, err := repos.Payments().PaymentNumberExists(ctx, workplaceID, number)
			if err != nil {
				return storeError(err, "check payment number")
			}
			if taken {
				return fmt.Errorf("%w: payment number %s already exists", apperrors.ErrConflict, number)
			}
		} else {
			number, err = s.numbering.NextNumber(ctx, repos, workplaceID, domain.DocPayment, paymentDate)
			if err != nil {
				return err
			}
		}

		now := s.Now()
		p := domain.Payment{
			PaymentID:     newID(),
			WorkplaceID:   workplaceID,
			PaymentNumber: number,
			InvoiceID:     inv.InvoiceID,
			PaymentDate:   paymentDate,
			Amount:        req.Amount,
			Method:        req.Method,
			Reference:     req.Reference,
			Status:        domain.PaymentStatusReceived,
			AuditFields:   domain.NewAuditFields(actor.UserID, now),
		}
		if err := repos.Payments().SavePayment(ctx, p); err != nil {
			return storeError(err, "save payment")
		}

		inv.ApplyPayment(req.Amount)
		inv.Touch(actor.UserID, now)
		if err := repos.Invoices().UpdateInvoiceSettlement(ctx, *inv); err != nil {
			return storeError(err, "update invoice balance")
		}
		payment = p
		invoice = *inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply payment",
			slog.String("workplace_id", workplaceID),
			slog.String("invoice_id", invoiceID),
			slog.String("amount", req.Amount.String()))
		return nil, nil, err
	}

	s.invalidateReports(ctx, workplaceID)
	s.LogInfo(ctx, "Payment applied",
		slog.String("payment_id", payment.PaymentID),
		slog.String("payment_number", payment.PaymentNumber),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_status", string(invoice.Status)),
		slog.String("balance", invoice.BalanceAmount.String()))
	return &payment, &invoice, nil
}

// GetPayment returns a payment whose invoice is visible in scope.
func (s *paymentService) GetPayment(ctx context.Context, workplaceID, paymentID string, scope domain.Scope) (*domain.Payment, error) {
	payment, err := s.Store.Payments().FindPaymentByID(ctx, workplaceID, paymentID)
	if err != nil {
		return nil, storeError(err, "find payment")
	}
	if scope.RestrictToContactID != nil {
		if _, err := s.visibleInvoice(ctx, workplaceID, payment.InvoiceID, scope); err != nil {
			return nil, apperrors.NewNotFoundError("payment " + paymentID)
		}
	}
	return payment, nil
}

// ListPaymentsForInvoice lists the payments of a visible invoice in date order.
func (s *paymentService) ListPaymentsForInvoice(ctx context.Context, workplaceID, invoiceID string, scope domain.Scope) ([]domain.Payment, error) {
	if _, err := s.visibleInvoice(ctx, workplaceID, invoiceID, scope); err != nil {
		return nil, err
	}
	payments, err := s.Store.Payments().ListPaymentsByInvoice(ctx, workplaceID, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("invoice_id", invoiceID))
		return nil, storeError(err, "list payments")
	}
	return payments, nil
}

// UpdatePaymentStatus moves a RECEIVED payment to CLEARED or BOUNCED. Amount and
// invoice link never change.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, workplaceID, paymentID string, req dto.UpdatePaymentStatusRequest, actor domain.Actor) (*domain.Payment, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if req.Status != domain.PaymentStatusCleared && req.Status != domain.PaymentStatusBounced {
		return nil, fmt.Errorf("%w: payment status can only change to CLEARED or BOUNCED", apperrors.ErrValidation)
	}

	var updated *domain.Payment
	err := s.RunInTx(ctx, "update payment status", func(ctx context.Context, repos portsrepo.Repositories) error {
		payment, err := repos.Payments().FindPaymentByID(ctx, workplaceID, paymentID)
		if err != nil {
			return storeError(err, "find payment")
		}
		if !payment.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("%w: payment %s is already %s", apperrors.ErrInvalidState, payment.PaymentNumber, payment.Status)
		}
		now := s.Now()
		if err := repos.Payments().UpdatePaymentStatus(ctx, workplaceID, paymentID, req.Status, actor.UserID, now); err != nil {
			return storeError(err, "update payment status")
		}
		payment.Status = req.Status
		payment.Touch(actor.UserID, now)
		updated = payment
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update payment status", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment status updated", slog.String("payment_id", paymentID), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *paymentService) visibleInvoice(ctx context.Context, workplaceID, invoiceID string, scope domain.Scope) (*domain.Invoice, error) {
	inv, err := s.Store.Invoices().FindInvoiceByID(ctx, workplaceID, invoiceID)
	if err != nil {
		return nil, storeError(err, "find invoice")
	}
	if !scope.Allows(inv.ContactID) {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	return inv, nil
}
