package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheque       PaymentMethod = "CHEQUE"
	PaymentCard         PaymentMethod = "CARD"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentOther        PaymentMethod = "OTHER"
)

// IsValid reports whether m is a known method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCheque, PaymentCard, PaymentUPI, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus tracks clearance of a payment.
type PaymentStatus string

const (
	PaymentStatusReceived PaymentStatus = "RECEIVED"
	PaymentStatusCleared  PaymentStatus = "CLEARED"
	PaymentStatusBounced  PaymentStatus = "BOUNCED"
)

// CanTransitionTo reports whether the clearance transition is allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusReceived && (next == PaymentStatusCleared || next == PaymentStatusBounced)
}

// Payment is money received or paid against one invoice. Only Status changes after creation.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	WorkplaceID   string          `json:"workplaceID"`
	PaymentNumber string          `json:"paymentNumber"`
	InvoiceID     string          `json:"invoiceID"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Reference     string          `json:"reference"`
	Status        PaymentStatus   `json:"status"`
	AuditFields
}
