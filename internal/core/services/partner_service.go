package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

type contactService struct {
	BaseService
}

// NewContactService creates the contact service.
func NewContactService(store portsrepo.Store, options ...ServiceOption) portssvc.ContactSvcFacade {
	svc := &contactService{BaseService: newBaseService(store)}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) CreateContact(ctx context.Context, workplaceID string, req dto.CreateContactRequest, actor domain.Actor) (*domain.Contact, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: contact name is required", apperrors.ErrValidation)
	}
	if !req.ContactType.IsValid() {
		return nil, fmt.Errorf("%w: unknown contact type %q", apperrors.ErrValidation, req.ContactType)
	}

	contact := domain.Contact{
		ContactID:   newID(),
		WorkplaceID: workplaceID,
		Name:        strings.TrimSpace(req.Name),
		ContactType: req.ContactType,
		Email:       req.Email,
		Phone:       req.Phone,
		AuditFields: domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.Store.Contacts().SaveContact(ctx, contact); err != nil {
		s.LogError(ctx, err, "Failed to save contact", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "save contact")
	}
	s.LogInfo(ctx, "Contact created", slog.String("contact_id", contact.ContactID))
	return &contact, nil
}

func (s *contactService) GetContact(ctx context.Context, workplaceID, contactID string, scope domain.Scope) (*domain.Contact, error) {
	if !scope.Allows(contactID) {
		return nil, apperrors.NewNotFoundError("contact " + contactID)
	}
	contact, err := s.Store.Contacts().FindContactByID(ctx, workplaceID, contactID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find contact", slog.String("contact_id", contactID))
		}
		return nil, storeError(err, "find contact")
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, workplaceID string, params dto.ListContactsParams) ([]domain.Contact, error) {
	contacts, err := s.Store.Contacts().ListContacts(ctx, workplaceID, params.ContactType, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contacts", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "list contacts")
	}
	return contacts, nil
}

type productService struct {
	BaseService
}

// NewProductService creates the product service.
func NewProductService(store portsrepo.Store, options ...ServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{BaseService: newBaseService(store)}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, workplaceID string, req dto.CreateProductRequest, actor domain.Actor) (*domain.Product, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SKU) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: sku and name are required", apperrors.ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unitPrice must not be negative", apperrors.ErrValidation)
	}
	if req.MinStockLevel != nil && req.MinStockLevel.IsNegative() {
		return nil, fmt.Errorf("%w: minStockLevel must not be negative", apperrors.ErrValidation)
	}

	product := domain.Product{
		ProductID:     newID(),
		WorkplaceID:   workplaceID,
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		MinStockLevel: req.MinStockLevel,
		AuditFields:   domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.Store.Products().SaveProduct(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: sku %s already exists", apperrors.ErrConflict, product.SKU)
		}
		s.LogError(ctx, err, "Failed to save product", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "save product")
	}
	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, workplaceID, productID string) (*domain.Product, error) {
	product, err := s.Store.Products().FindProductByID(ctx, workplaceID, productID)
	if err != nil {
		return nil, storeError(err, "find product")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, workplaceID string, params dto.ListProductsParams) ([]domain.Product, error) {
	products, err := s.Store.Products().ListProducts(ctx, workplaceID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "list products")
	}
	return products, nil
}
