package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error)

	// FindActiveInvoiceForOrder returns the non-cancelled invoice of invoiceType converted
	// from orderID, or apperrors.ErrNotFound.
	FindActiveInvoiceForOrder(ctx context.Context, workplaceID, orderID string, invoiceType domain.InvoiceType) (*domain.Invoice, error)

	// ListInvoices returns a page of invoices, newest first, and a token for the next page.
	ListInvoices(ctx context.Context, workplaceID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListOpenInvoicesDueBefore returns UNPAID/PARTIAL invoices whose due date is before asOf.
	ListOpenInvoicesDueBefore(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.Invoice, error)

	// LatestInvoiceNumber returns the most recently created number matching the LIKE pattern.
	LatestInvoiceNumber(ctx context.Context, workplaceID string, invoiceType domain.InvoiceType, pattern string) (string, bool, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// SaveInvoice inserts the invoice header. A taken number is reported as
	// apperrors.ErrConcurrentUpdate; a second active conversion of the same order as
	// apperrors.ErrConflict.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceSettlement persists paid, balance and status.
	UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice) error

	UpdateInvoiceStatus(ctx context.Context, workplaceID, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error
}

// InvoiceTransactionSupport defines operations only meaningful inside a transaction
type InvoiceTransactionSupport interface {
	// FindInvoiceByIDForUpdate reads the invoice and locks its row until the transaction ends.
	FindInvoiceByIDForUpdate(ctx context.Context, workplaceID, invoiceID string) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceTransactionSupport
}
