package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes customer invoices from vendor bills.
type InvoiceType string

const (
	InvoiceTypeSales    InvoiceType = "SALES"
	InvoiceTypePurchase InvoiceType = "PURCHASE" // a Bill
)

// IsValid reports whether t is a known invoice type.
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeSales || t == InvoiceTypePurchase
}

// DocumentType is the numbering sequence used for invoices of this type.
func (t InvoiceType) DocumentType() DocumentType {
	if t == InvoiceTypePurchase {
		return DocPurchaseInvoice
	}
	return DocSalesInvoice
}

// OrderType is the order type that converts into invoices of this type.
func (t InvoiceType) OrderType() OrderType {
	if t == InvoiceTypePurchase {
		return OrderTypePurchase
	}
	return OrderTypeSales
}

// InvoiceStatus is the lifecycle/payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusUnpaid    InvoiceStatus = "UNPAID"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusUnpaid, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a customer invoice or vendor bill.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	WorkplaceID    string          `json:"workplaceID"`
	InvoiceType    InvoiceType     `json:"invoiceType"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	ContactID      string          `json:"contactID"`
	OrderID        *string         `json:"orderID,omitempty"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	Terms          string          `json:"terms"`
	Notes          string          `json:"notes"`
	Status         InvoiceStatus   `json:"status"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	BalanceAmount  decimal.Decimal `json:"balanceAmount"`
	Items          []OrderItem     `json:"items,omitempty"`
	AuditFields
}

// Ref returns the item parent reference for this invoice.
func (inv Invoice) Ref() ItemParent {
	return InvoiceRef(inv.InvoiceID)
}

// IsCounted reports whether the invoice contributes to ledgers and reports.
func (inv Invoice) IsCounted() bool {
	return inv.Status != InvoiceStatusDraft && inv.Status != InvoiceStatusCancelled
}

// AcceptsPayments reports whether payments may be applied.
func (inv Invoice) AcceptsPayments() bool {
	return inv.IsCounted()
}

// SetTotalsFromItems fills the monetary summary from items and resets payment state.
func (inv *Invoice) SetTotalsFromItems(items []OrderItem) {
	sub, tax, disc, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.LineSubTotal())
		tax = tax.Add(it.TaxAmount)
		disc = disc.Add(it.DiscountAmount)
		total = total.Add(it.TotalAmount)
	}
	inv.SubTotal = RoundCurrency(sub)
	inv.TaxAmount = RoundCurrency(tax)
	inv.DiscountAmount = RoundCurrency(disc)
	inv.TotalAmount = RoundCurrency(total)
	inv.PaidAmount = decimal.Zero
	inv.BalanceAmount = inv.TotalAmount
}

// ApplyPayment adds amount to PaidAmount and derives balance and status.
// Overpayment is accepted: the balance floors at zero.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) {
	newPaid := inv.PaidAmount.Add(amount)
	inv.PaidAmount = newPaid
	inv.BalanceAmount = MaxDecimal(decimal.Zero, inv.TotalAmount.Sub(newPaid))
	switch {
	case newPaid.GreaterThanOrEqual(inv.TotalAmount):
		inv.Status = InvoiceStatusPaid
	case newPaid.IsPositive():
		inv.Status = InvoiceStatusPartial
	}
}

// IsOverdueAt reports whether an open invoice is past its due date at asOf.
func (inv Invoice) IsOverdueAt(asOf time.Time) bool {
	if inv.DueDate == nil {
		return false
	}
	if inv.Status != InvoiceStatusUnpaid && inv.Status != InvoiceStatusPartial {
		return false
	}
	return inv.DueDate.Before(asOf) && inv.BalanceAmount.IsPositive()
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	InvoiceType *InvoiceType
	Status      *InvoiceStatus
	ContactID   *string
	OrderID     *string
	From        *time.Time
	To          *time.Time
}
