package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// ProductReader defines read operations for products
type ProductReader interface {
	FindProductByID(ctx context.Context, workplaceID, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, workplaceID string, limit, offset int) ([]domain.Product, error)
}

// ProductWriter defines write operations for products
type ProductWriter interface {
	// SaveProduct returns apperrors.ErrDuplicate when the SKU is taken.
	SaveProduct(ctx context.Context, product domain.Product) error
}

// ProductRepositoryFacade combines product reads and writes
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
