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

const (
	defaultPaymentTermsDays  = 30
	defaultConversionLockTTL = 30 * time.Second
)

// conversionService turns orders into invoices, copying their lines verbatim.
type conversionService struct {
	BaseService
	numbering        portssvc.NumberingSvc
	locker           portsrepo.Locker
	lockTTL          time.Duration
	paymentTermsDays int
}

// ConversionServiceOption is a functional option for configuring the conversion service
type ConversionServiceOption func(*conversionService)

// WithConversionLocker guards each conversion with a distributed lock.
func WithConversionLocker(locker portsrepo.Locker, ttl time.Duration) ConversionServiceOption {
	return func(s *conversionService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithPaymentTermsDays sets the due date offset applied when a conversion omits one.
func WithPaymentTermsDays(days int) ConversionServiceOption {
	return func(s *conversionService) {
		s.paymentTermsDays = days
	}
}

// WithConversionBase applies shared service options.
func WithConversionBase(options ...ServiceOption) ConversionServiceOption {
	return func(s *conversionService) {
		applyOptions(&s.BaseService, options)
	}
}

// NewConversionService creates the conversion engine.
func NewConversionService(store portsrepo.Store, numbering portssvc.NumberingSvc, options ...ConversionServiceOption) portssvc.ConversionSvc {
	svc := &conversionService{
		BaseService:      newBaseService(store),
		numbering:        numbering,
		lockTTL:          defaultConversionLockTTL,
		paymentTermsDays: defaultPaymentTermsDays,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ConversionSvc = (*conversionService)(nil)

// ConvertOrderToInvoice creates the invoice (or bill) for an approved or fulfilled order.
// The order row stays locked for the whole unit of work; an APPROVED order moves on to
// its fulfilled status.
func (s *conversionService) ConvertOrderToInvoice(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, req dto.ConvertOrderRequest, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}
	if req.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("%w: invoiceDate is required", apperrors.ErrValidation)
	}
	if req.DueDate != nil && req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: dueDate must not be before invoiceDate", apperrors.ErrValidation)
	}

	release, err := s.obtainLock(ctx, workplaceID, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	invoiceDate := req.InvoiceDate.UTC()
	dueDate := invoiceDate.AddDate(0, 0, s.paymentTermsDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}

	var invoice domain.Invoice
	err = s.RunInTx(ctx, "convert order", func(ctx context.Context, repos portsrepo.Repositories) error {
		order, err := repos.Orders().FindOrderByIDForUpdate(ctx, workplaceID, orderID, orderType)
		if err != nil {
			return storeError(err, "find order")
		}
		if !order.IsConvertible() {
			return fmt.Errorf("%w: order must be approved/received/delivered to convert (status %s)", apperrors.ErrInvalidState, order.Status)
		}
		invoiceType := orderType.InvoiceType()
		existing, err := repos.Invoices().FindActiveInvoiceForOrder(ctx, workplaceID, orderID, invoiceType)
		switch {
		case err == nil:
			return fmt.Errorf("%w: order already converted to %s", apperrors.ErrConflict, existing.InvoiceNumber)
		case !errors.Is(err, apperrors.ErrNotFound):
			return storeError(err, "check existing invoice")
		}
		items, err := repos.OrderItems().ListItems(ctx, workplaceID, order.Ref())
		if err != nil {
			return storeError(err, "list order items")
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: order %s has no items", apperrors.ErrInvalidState, order.OrderNumber)
		}

		number, err := s.numbering.NextNumber(ctx, repos, workplaceID, invoiceType.DocumentType(), invoiceDate)
		if err != nil {
			return err
		}

		now := s.Now()
		audit := domain.NewAuditFields(actor.UserID, now)
		inv := domain.Invoice{
			InvoiceID:     newID(),
			WorkplaceID:   workplaceID,
			InvoiceType:   invoiceType,
			InvoiceNumber: number,
			ContactID:     order.ContactID,
			OrderID:       &order.OrderID,
			InvoiceDate:   invoiceDate,
			DueDate:       &dueDate,
			Terms:         req.Terms,
			Notes:         req.Notes,
			Status:        domain.InvoiceStatusUnpaid,
			AuditFields:   audit,
		}
		copies := make([]domain.OrderItem, len(items))
		for i, it := range items {
			copies[i] = it.CopyTo(inv.Ref(), newID(), audit)
		}
		inv.SetTotalsFromItems(copies)

		if err := repos.Invoices().SaveInvoice(ctx, inv); err != nil {
			return storeError(err, "save invoice")
		}
		if err := repos.OrderItems().SaveItems(ctx, copies); err != nil {
			return storeError(err, "copy items to invoice")
		}
		if order.Status == domain.OrderStatusApproved {
			if err := repos.Orders().UpdateOrderStatus(ctx, workplaceID, orderID, orderType.FulfilledStatus(), actor.UserID, now); err != nil {
				return storeError(err, "update order status")
			}
		}
		inv.Items = copies
		invoice = inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Order conversion failed",
			slog.String("workplace_id", workplaceID),
			slog.String("order_id", orderID),
			slog.String("order_type", string(orderType)))
		return nil, err
	}

	s.invalidateReports(ctx, workplaceID)
	s.LogInfo(ctx, "Order converted to invoice",
		slog.String("order_id", orderID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.TotalAmount.String()))
	return &invoice, nil
}

// obtainLock takes the per-order conversion lock when a locker is configured.
func (s *conversionService) obtainLock(ctx context.Context, workplaceID, orderID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("convert:%s:%s", workplaceID, orderID)
	lock, err := s.locker.Obtain(ctx, key, s.lockTTL)
	if errors.Is(err, portsrepo.ErrLockNotObtained) {
		return nil, fmt.Errorf("%w: conversion already in progress", apperrors.ErrConflict)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to obtain conversion lock", slog.String("key", key))
		return nil, fmt.Errorf("%w: conversion lock unavailable", apperrors.ErrInternal)
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.LogDebug(ctx, "Conversion lock release failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}
