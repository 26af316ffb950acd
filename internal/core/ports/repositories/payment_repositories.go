package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// PaymentReader defines read operations for payments
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, workplaceID, paymentID string) (*domain.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) ([]domain.Payment, error)
	CountPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) (int, error)
	PaymentNumberExists(ctx context.Context, workplaceID, paymentNumber string) (bool, error)
	LatestPaymentNumber(ctx context.Context, workplaceID, pattern string) (string, bool, error)
}

// PaymentWriter defines write operations for payments
type PaymentWriter interface {
	// SavePayment inserts a payment. A taken number is reported as apperrors.ErrConcurrentUpdate.
	SavePayment(ctx context.Context, payment domain.Payment) error
	UpdatePaymentStatus(ctx context.Context, workplaceID, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines payment reads and writes
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
