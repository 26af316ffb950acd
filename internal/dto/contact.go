package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContactRequest defines the data needed to create a customer or vendor.
type CreateContactRequest struct {
	Name        string             `json:"name" binding:"required"`
	ContactType domain.ContactType `json:"contactType" binding:"required,oneof=CUSTOMER VENDOR BOTH"`
	Email       string             `json:"email" binding:"omitempty,email"`
	Phone       string             `json:"phone"`
}

// ListContactsParams defines query parameters for listing contacts.
type ListContactsParams struct {
	ContactType *domain.ContactType `form:"type" binding:"omitempty,oneof=CUSTOMER VENDOR BOTH"`
	Limit       int                 `form:"limit,default=20" binding:"min=1,max=100"`
	Offset      int                 `form:"offset,default=0" binding:"min=0"`
}

// ContactResponse defines the data returned for a contact.
type ContactResponse struct {
	ContactID   string             `json:"contactID"`
	Name        string             `json:"name"`
	ContactType domain.ContactType `json:"contactType"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ToContactResponse converts a domain.Contact to ContactResponse DTO
func ToContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID:   c.ContactID,
		Name:        c.Name,
		ContactType: c.ContactType,
		Email:       c.Email,
		Phone:       c.Phone,
		CreatedAt:   c.CreatedAt,
	}
}

// ToListContactResponse converts a slice of contacts.
func ToListContactResponse(contacts []domain.Contact) []ContactResponse {
	res := make([]ContactResponse, len(contacts))
	for i := range contacts {
		res[i] = ToContactResponse(&contacts[i])
	}
	return res
}

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Category      string           `json:"category"`
	UnitPrice     decimal.Decimal  `json:"unitPrice" binding:"decimal_gte0"`
	MinStockLevel *decimal.Decimal `json:"minStockLevel" binding:"omitempty,decimal_gte0"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string           `json:"productID"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	MinStockLevel *decimal.Decimal `json:"minStockLevel,omitempty"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		MinStockLevel: p.MinStockLevel,
	}
}

// ToListProductResponse converts a slice of products.
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = ToProductResponse(&products[i])
	}
	return res
}
