package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line on an order or direct invoice.
type OrderItemRequest struct {
	ProductID      string          `json:"productID" binding:"required"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity" binding:"decimal_gte0"`
	UnitPrice      decimal.Decimal `json:"unitPrice" binding:"decimal_gte0"`
	TaxAmount      decimal.Decimal `json:"taxAmount" binding:"decimal_gte0"`
	DiscountAmount decimal.Decimal `json:"discountAmount" binding:"decimal_gte0"`
}

// ToDomain converts the request into an item without identity or parent.
func (r OrderItemRequest) ToDomain() domain.OrderItem {
	item := domain.OrderItem{
		ProductID:      r.ProductID,
		Description:    r.Description,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		TaxAmount:      r.TaxAmount,
		DiscountAmount: r.DiscountAmount,
	}
	item.Recompute()
	return item
}

// CreateOrderRequest defines the data needed to create a DRAFT order.
type CreateOrderRequest struct {
	ContactID string             `json:"contactID" binding:"required"`
	OrderDate *time.Time         `json:"orderDate"` // defaults to now
	Notes     string             `json:"notes"`
	Items     []OrderItemRequest `json:"items" binding:"omitempty,dive"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Status *domain.OrderStatus `form:"status" binding:"omitempty,oneof=DRAFT APPROVED RECEIVED DELIVERED CANCELLED"`
	Limit  int                 `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int                 `form:"offset,default=0" binding:"min=0"`
}

// ConvertOrderRequest carries the invoice header for an order conversion.
type ConvertOrderRequest struct {
	InvoiceDate time.Time  `json:"invoiceDate" binding:"required"`
	DueDate     *time.Time `json:"dueDate"` // defaults to invoiceDate plus the configured payment terms
	Terms       string     `json:"terms"`
	Notes       string     `json:"notes"`
}

// OrderItemResponse defines the data returned for an item line.
type OrderItemResponse struct {
	ItemID         string          `json:"itemID"`
	ProductID      string          `json:"productID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// OrderResponse defines the data returned for an order.
type OrderResponse struct {
	OrderID       string              `json:"orderID"`
	OrderType     domain.OrderType    `json:"orderType"`
	OrderNumber   string              `json:"orderNumber"`
	ContactID     string              `json:"contactID"`
	OrderDate     time.Time           `json:"orderDate"`
	Status        domain.OrderStatus  `json:"status"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Notes         string              `json:"notes"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ListOrdersResponse wraps the list of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// ToOrderItemResponse converts a domain.OrderItem to its response DTO.
func ToOrderItemResponse(it domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ItemID:         it.ItemID,
		ProductID:      it.ProductID,
		Description:    it.Description,
		Quantity:       it.Quantity,
		UnitPrice:      it.UnitPrice,
		TaxAmount:      it.TaxAmount,
		DiscountAmount: it.DiscountAmount,
		TotalAmount:    it.TotalAmount,
	}
}

// ToOrderItemResponses converts a slice of items.
func ToOrderItemResponses(items []domain.OrderItem) []OrderItemResponse {
	if len(items) == 0 {
		return nil
	}
	res := make([]OrderItemResponse, len(items))
	for i, it := range items {
		res[i] = ToOrderItemResponse(it)
	}
	return res
}

// ToOrderResponse converts a domain.Order to OrderResponse DTO
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:       o.OrderID,
		OrderType:     o.OrderType,
		OrderNumber:   o.OrderNumber,
		ContactID:     o.ContactID,
		OrderDate:     o.OrderDate,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		Items:         ToOrderItemResponses(o.Items),
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
}

// ToListOrderResponse converts a slice of orders.
func ToListOrderResponse(orders []domain.Order) ListOrdersResponse {
	res := ListOrdersResponse{Orders: make([]OrderResponse, len(orders))}
	for i := range orders {
		res.Orders[i] = ToOrderResponse(&orders[i])
	}
	return res
}
