package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines a directly created invoice or bill.
type CreateInvoiceRequest struct {
	InvoiceType domain.InvoiceType `json:"invoiceType" binding:"required,oneof=SALES PURCHASE"`
	ContactID   string             `json:"contactID" binding:"required"`
	InvoiceDate time.Time          `json:"invoiceDate" binding:"required"`
	DueDate     *time.Time         `json:"dueDate"`
	Terms       string             `json:"terms"`
	Notes       string             `json:"notes"`
	Draft       bool               `json:"draft"` // create in DRAFT instead of UNPAID
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	InvoiceType *domain.InvoiceType   `form:"type" binding:"omitempty,oneof=SALES PURCHASE"`
	Status      *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=DRAFT UNPAID PARTIAL PAID OVERDUE CANCELLED"`
	ContactID   *string               `form:"contactID"`
	OrderID     *string               `form:"orderID"`
	From        *time.Time            `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To          *time.Time            `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit       int                   `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken   *string               `form:"nextToken"`
}

// Filter extracts the domain filter from the query parameters.
func (p ListInvoicesParams) Filter() domain.InvoiceFilter {
	return domain.InvoiceFilter{
		InvoiceType: p.InvoiceType,
		Status:      p.Status,
		ContactID:   p.ContactID,
		OrderID:     p.OrderID,
		From:        p.From,
		To:          p.To,
	}
}

// MarkOverdueRequest selects the cut-off for overdue marking.
type MarkOverdueRequest struct {
	AsOf *time.Time `json:"asOf"` // defaults to now
}

// MarkOverdueResponse reports how many invoices became OVERDUE.
type MarkOverdueResponse struct {
	Updated int `json:"updated"`
}

// InvoiceResponse defines the data returned for an invoice or bill.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	InvoiceType    domain.InvoiceType   `json:"invoiceType"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	ContactID      string               `json:"contactID"`
	OrderID        *string              `json:"orderID,omitempty"`
	InvoiceDate    time.Time            `json:"invoiceDate"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	Terms          string               `json:"terms"`
	Notes          string               `json:"notes"`
	Status         domain.InvoiceStatus `json:"status"`
	SubTotal       decimal.Decimal      `json:"subTotal"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	PaidAmount     decimal.Decimal      `json:"paidAmount"`
	BalanceAmount  decimal.Decimal      `json:"balanceAmount"`
	Items          []OrderItemResponse  `json:"items,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceType:    inv.InvoiceType,
		InvoiceNumber:  inv.InvoiceNumber,
		ContactID:      inv.ContactID,
		OrderID:        inv.OrderID,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		Terms:          inv.Terms,
		Notes:          inv.Notes,
		Status:         inv.Status,
		SubTotal:       inv.SubTotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		BalanceAmount:  inv.BalanceAmount,
		Items:          ToOrderItemResponses(inv.Items),
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
		LastUpdatedAt:  inv.LastUpdatedAt,
		LastUpdatedBy:  inv.LastUpdatedBy,
	}
}

// ToListInvoiceResponse converts a page of invoices.
func ToListInvoiceResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	res := ListInvoicesResponse{Invoices: make([]InvoiceResponse, len(invoices)), NextToken: nextToken}
	for i := range invoices {
		res.Invoices[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}
