package domain

import "github.com/shopspring/decimal"

// Product is a stocked item that can appear on order and invoice lines.
type Product struct {
	ProductID     string           `json:"productID"`
	WorkplaceID   string           `json:"workplaceID"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	MinStockLevel *decimal.Decimal `json:"minStockLevel,omitempty"` // Optional configured reorder point
	AuditFields
}
