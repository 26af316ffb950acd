package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// ContactSvcFacade manages customers and vendors.
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, workplaceID string, req dto.CreateContactRequest, actor domain.Actor) (*domain.Contact, error)
	// GetContact returns apperrors.ErrNotFound for contacts outside scope.
	GetContact(ctx context.Context, workplaceID, contactID string, scope domain.Scope) (*domain.Contact, error)
	ListContacts(ctx context.Context, workplaceID string, params dto.ListContactsParams) ([]domain.Contact, error)
}

// ProductSvcFacade manages the product catalogue.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, workplaceID string, req dto.CreateProductRequest, actor domain.Actor) (*domain.Product, error)
	GetProduct(ctx context.Context, workplaceID, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, workplaceID string, params dto.ListProductsParams) ([]domain.Product, error)
}
