package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes purchase orders (to vendors) from sales orders (to customers).
type OrderType string

const (
	OrderTypePurchase OrderType = "PURCHASE"
	OrderTypeSales    OrderType = "SALES"
)

// IsValid reports whether t is a known order type.
func (t OrderType) IsValid() bool {
	return t == OrderTypePurchase || t == OrderTypeSales
}

// InvoiceType is the kind of invoice an order converts into.
func (t OrderType) InvoiceType() InvoiceType {
	if t == OrderTypePurchase {
		return InvoiceTypePurchase
	}
	return InvoiceTypeSales
}

// FulfilledStatus is RECEIVED for purchase orders and DELIVERED for sales orders.
func (t OrderType) FulfilledStatus() OrderStatus {
	if t == OrderTypePurchase {
		return OrderStatusReceived
	}
	return OrderStatusDelivered
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a purchase or sales order. TotalAmount is derived from its items.
type Order struct {
	OrderID     string          `json:"orderID"`
	WorkplaceID string          `json:"workplaceID"`
	OrderType   OrderType       `json:"orderType"`
	OrderNumber string          `json:"orderNumber"`
	ContactID   string          `json:"contactID"`
	OrderDate   time.Time       `json:"orderDate"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Notes       string          `json:"notes"`
	Items       []OrderItem     `json:"items,omitempty"`
	AuditFields
}

// Ref returns the item parent reference for this order.
func (o Order) Ref() ItemParent {
	return OrderRef(o.OrderID, o.OrderType)
}

// IsEditable reports whether items may still be added or removed.
func (o Order) IsEditable() bool {
	return o.Status == OrderStatusDraft
}

// IsConvertible reports whether the order may be turned into an invoice.
func (o Order) IsConvertible() bool {
	return o.Status == OrderStatusApproved || o.Status == o.OrderType.FulfilledStatus()
}

// IsCancellable reports whether the order may still be cancelled.
func (o Order) IsCancellable() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusApproved
}
