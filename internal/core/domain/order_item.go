package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemParentType discriminates which document an item row decorates.
type ItemParentType string

const (
	ParentPurchaseOrder ItemParentType = "PURCHASE"
	ParentSalesOrder    ItemParentType = "SALES"
	ParentInvoice       ItemParentType = "INVOICE"
)

// ItemParent is the tagged owner of an OrderItem: either an order of a given type or an
// invoice. No single foreign key spans both tables, so integrity is checked by services.
type ItemParent struct {
	ID   string
	Type ItemParentType
}

// OrderRef builds the parent reference for an order item.
func OrderRef(orderID string, orderType OrderType) ItemParent {
	return ItemParent{ID: orderID, Type: ItemParentType(orderType)}
}

// InvoiceRef builds the parent reference for an invoice item.
func InvoiceRef(invoiceID string) ItemParent {
	return ItemParent{ID: invoiceID, Type: ParentInvoice}
}

// IsInvoice reports whether the parent is an invoice.
func (p ItemParent) IsInvoice() bool {
	return p.Type == ParentInvoice
}

func (p ItemParent) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.ID)
}

// OrderItem is a line on an order or invoice.
type OrderItem struct {
	ItemID         string          `json:"itemID"`
	WorkplaceID    string          `json:"workplaceID"`
	Parent         ItemParent      `json:"-"`
	ProductID      string          `json:"productID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AuditFields
}

// LineSubTotal is quantity*unitPrice before tax and discount.
func (i OrderItem) LineSubTotal() decimal.Decimal {
	return RoundCurrency(i.Quantity.Mul(i.UnitPrice))
}

// Recompute sets TotalAmount from the other monetary fields.
func (i *OrderItem) Recompute() {
	i.TotalAmount = ComputeItemTotal(i.Quantity, i.UnitPrice, i.TaxAmount, i.DiscountAmount)
}

// Validate checks the non-negativity rules for item amounts. TotalAmount must be
// recomputed first.
func (i OrderItem) Validate() error {
	switch {
	case i.ProductID == "":
		return fmt.Errorf("productID is required")
	case i.Quantity.IsNegative():
		return fmt.Errorf("quantity must not be negative")
	case i.UnitPrice.IsNegative():
		return fmt.Errorf("unitPrice must not be negative")
	case i.TaxAmount.IsNegative():
		return fmt.Errorf("taxAmount must not be negative")
	case i.DiscountAmount.IsNegative():
		return fmt.Errorf("discountAmount must not be negative")
	case i.TotalAmount.IsNegative():
		return fmt.Errorf("discountAmount must not exceed the line amount plus tax")
	}
	return nil
}

// CopyTo returns a copy of the item re-parented to p. Amounts are copied verbatim so the
// copy reproduces historical pricing exactly.
func (i OrderItem) CopyTo(p ItemParent, itemID string, audit AuditFields) OrderItem {
	c := i
	c.ItemID = itemID
	c.Parent = p
	c.AuditFields = audit
	return c
}

// SumItemTotals returns the sum of TotalAmount over items.
func SumItemTotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalAmount)
	}
	return total
}
