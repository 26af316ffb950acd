package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partnerHandler serves contacts and the product catalogue.
type partnerHandler struct {
	contactService portssvc.ContactSvcFacade
	productService portssvc.ProductSvcFacade
}

func newPartnerHandler(cs portssvc.ContactSvcFacade, ps portssvc.ProductSvcFacade) *partnerHandler {
	return &partnerHandler{contactService: cs, productService: ps}
}

// registerPartnerRoutes registers contact and product routes under a workplace group.
func registerPartnerRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade, productService portssvc.ProductSvcFacade) {
	h := newPartnerHandler(contactService, productService)

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", middleware.RequireWriteAccess(), h.createContact)
		contacts.GET("", middleware.RequireWorkplaceRole(), h.listContacts)
		contacts.GET("/:contact_id", h.getContact)
	}

	products := rg.Group("/products", middleware.RequireWorkplaceRole())
	{
		products.POST("", middleware.RequireWriteAccess(), h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:product_id", h.getProduct)
	}
}

// createContact godoc
// @Summary Create a contact
// @Description Creates a customer, vendor or both in the workplace
// @Tags contacts
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create contact"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/contacts [post]
func (h *partnerHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateContactRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), c.Param("workplace_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create contact")
		return
	}
	logger.Info("Contact created", slog.String("contact_id", contact.ContactID))
	c.JSON(http.StatusCreated, dto.ToContactResponse(contact))
}

// listContacts godoc
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param type query string false "CUSTOMER, VENDOR or BOTH"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.ContactResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/contacts [get]
func (h *partnerHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListContactsParams
	if !bindQuery(c, logger, &params) {
		return
	}
	contacts, err := h.contactService.ListContacts(c.Request.Context(), c.Param("workplace_id"), params)
	if err != nil {
		respondWithError(c, logger, err, "list contacts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListContactResponse(contacts))
}

// getContact godoc
// @Summary Get a contact
// @Description Portal users may only read their own contact
// @Tags contacts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param contact_id path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/contacts/{contact_id} [get]
func (h *partnerHandler) getContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("workplace_id"), c.Param("contact_id"), domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "get contact")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

// createProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "SKU already exists"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/products [post]
func (h *partnerHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), c.Param("workplace_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create product")
		return
	}
	logger.Info("Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/products [get]
func (h *partnerHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListProductsParams
	if !bindQuery(c, logger, &params) {
		return
	}
	products, err := h.productService.ListProducts(c.Request.Context(), c.Param("workplace_id"), params)
	if err != nil {
		respondWithError(c, logger, err, "list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProductResponse(products))
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param product_id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/products/{product_id} [get]
func (h *partnerHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("workplace_id"), c.Param("product_id"))
	if err != nil {
		respondWithError(c, logger, err, "get product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}
