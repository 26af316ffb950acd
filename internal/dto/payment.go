package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest records a payment against an invoice.
type ApplyPaymentRequest struct {
	Amount        decimal.Decimal      `json:"amount" binding:"decimal_gt0"`
	PaymentDate   time.Time            `json:"paymentDate" binding:"required"`
	Method        domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE CARD UPI OTHER"`
	Reference     string               `json:"reference"`
	PaymentNumber *string              `json:"paymentNumber"` // optional client-supplied number
}

// UpdatePaymentStatusRequest moves a payment through clearance.
type UpdatePaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status" binding:"required,oneof=CLEARED BOUNCED"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string               `json:"paymentID"`
	PaymentNumber string               `json:"paymentNumber"`
	InvoiceID     string               `json:"invoiceID"`
	PaymentDate   time.Time            `json:"paymentDate"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	Reference     string               `json:"reference"`
	Status        domain.PaymentStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ApplyPaymentResponse returns the new payment and the invoice after reconciliation.
type ApplyPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// ListPaymentsResponse wraps the payments of an invoice.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		PaymentDate:   p.PaymentDate,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ToListPaymentResponse converts a slice of payments.
func ToListPaymentResponse(payments []domain.Payment) ListPaymentsResponse {
	res := ListPaymentsResponse{Payments: make([]PaymentResponse, len(payments))}
	for i := range payments {
		res.Payments[i] = ToPaymentResponse(&payments[i])
	}
	return res
}
