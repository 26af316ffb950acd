package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/dto"
)

// NumberingSvc allocates human-readable document numbers.
type NumberingSvc interface {
	// NextNumber allocates the next invoice, bill or payment number for the period of date.
	// It must run on the repositories of the caller's transaction.
	NextNumber(ctx context.Context, repos portsrepo.Repositories, workplaceID string, docType domain.DocumentType, date time.Time) (string, error)

	// OrderNumber renders a clock-based order number.
	OrderNumber(orderType domain.OrderType) string
}

// OrderReaderSvc defines read operations for orders
type OrderReaderSvc interface {
	GetOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, scope domain.Scope) (*domain.Order, error)
	ListOrders(ctx context.Context, workplaceID string, orderType domain.OrderType, params dto.ListOrdersParams, scope domain.Scope) ([]domain.Order, error)
}

// OrderWriterSvc defines the order lifecycle
type OrderWriterSvc interface {
	CreateOrder(ctx context.Context, workplaceID string, orderType domain.OrderType, req dto.CreateOrderRequest, actor domain.Actor) (*domain.Order, error)
	ApproveOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error)
	FulfilOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error)
	CancelOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error)
}

// OrderItemSvc adds and removes lines on DRAFT orders, keeping the order total in step.
type OrderItemSvc interface {
	AddOrderItem(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, req dto.OrderItemRequest, actor domain.Actor) (*domain.Order, error)
	RemoveOrderItem(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, itemID string, actor domain.Actor) (*domain.Order, error)
}

// OrderSvcFacade combines all order service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
	OrderItemSvc
}

// ConversionSvc turns approved or fulfilled orders into invoices.
type ConversionSvc interface {
	ConvertOrderToInvoice(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, req dto.ConvertOrderRequest, actor domain.Actor) (*domain.Invoice, error)
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, workplaceID, invoiceID string, scope domain.Scope) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, workplaceID string, params dto.ListInvoicesParams, scope domain.Scope) ([]domain.Invoice, *string, error)
}

// InvoiceWriterSvc defines the invoice lifecycle
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, workplaceID string, req dto.CreateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error)
	IssueInvoice(ctx context.Context, workplaceID, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	CancelInvoice(ctx context.Context, workplaceID, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	// MarkOverdueInvoices flags open invoices due before asOf and returns how many changed.
	MarkOverdueInvoices(ctx context.Context, workplaceID string, asOf time.Time, actor domain.Actor) (int, error)
}

// InvoiceSvcFacade combines all invoice service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}

// PaymentSvcFacade reconciles payments against invoices.
type PaymentSvcFacade interface {
	ApplyPayment(ctx context.Context, workplaceID, invoiceID string, req dto.ApplyPaymentRequest, actor domain.Actor) (*domain.Payment, *domain.Invoice, error)
	GetPayment(ctx context.Context, workplaceID, paymentID string, scope domain.Scope) (*domain.Payment, error)
	ListPaymentsForInvoice(ctx context.Context, workplaceID, invoiceID string, scope domain.Scope) ([]domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, workplaceID, paymentID string, req dto.UpdatePaymentStatusRequest, actor domain.Actor) (*domain.Payment, error)
}
