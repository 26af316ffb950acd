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

// orderHandler handles purchase and sales orders, their items and their conversion.
type orderHandler struct {
	orderService      portssvc.OrderSvcFacade
	conversionService portssvc.ConversionSvc
}

func newOrderHandler(os portssvc.OrderSvcFacade, cs portssvc.ConversionSvc) *orderHandler {
	return &orderHandler{orderService: os, conversionService: cs}
}

// registerOrderRoutes registers routes related to orders.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade, conversionService portssvc.ConversionSvc) {
	h := newOrderHandler(orderService, conversionService)

	orders := rg.Group("/orders/:order_type")
	{
		orders.POST("", middleware.RequireWriteAccess(), h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:order_id", h.getOrder)

		write := orders.Group("/:order_id", middleware.RequireWriteAccess())
		write.POST("/approve", h.approveOrder)
		write.POST("/fulfil", h.fulfilOrder)
		write.POST("/cancel", h.cancelOrder)
		write.POST("/items", h.addOrderItem)
		write.DELETE("/items/:item_id", h.removeOrderItem)
		write.POST("/convert", h.convertOrder)
	}
}

// createOrder godoc
// @Summary Create an order
// @Description Creates a DRAFT purchase or sales order, optionally with initial items
// @Tags orders
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Contact or product not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type} [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), c.Param("workplace_id"), orderType, req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create order")
		return
	}
	logger.Info("Order created", slog.String("order_id", order.OrderID), slog.String("order_number", order.OrderNumber))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// listOrders godoc
// @Summary List orders
// @Description Lists orders of one type, newest first. Portal users only see their own.
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param status query string false "Order status"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type} [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	var params dto.ListOrdersParams
	if !bindQuery(c, logger, &params) {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Param("workplace_id"), orderType, params, domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrderResponse(orders))
}

// getOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("workplace_id"), c.Param("order_id"), orderType, domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "get order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

type orderTransition func(ctx *gin.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error)

// transition runs one lifecycle step and writes the resulting order.
func (h *orderHandler) transition(c *gin.Context, action string, step orderTransition) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("order_id", c.Param("order_id")))

	order, err := step(c, c.Param("workplace_id"), c.Param("order_id"), orderType, actor)
	if err != nil {
		respondWithError(c, logger, err, action)
		return
	}
	logger.Info("Order updated", slog.String("action", action), slog.String("status", string(order.Status)))
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// approveOrder godoc
// @Summary Approve a DRAFT order
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 422 {object} map[string]string "Order is not a DRAFT or has no items"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/approve [post]
func (h *orderHandler) approveOrder(c *gin.Context) {
	h.transition(c, "approve order", func(ctx *gin.Context, ws, id string, t domain.OrderType, a domain.Actor) (*domain.Order, error) {
		return h.orderService.ApproveOrder(ctx.Request.Context(), ws, id, t, a)
	})
}

// fulfilOrder godoc
// @Summary Mark an order received (purchase) or delivered (sales)
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 422 {object} map[string]string "Order is not APPROVED"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/fulfil [post]
func (h *orderHandler) fulfilOrder(c *gin.Context) {
	h.transition(c, "fulfil order", func(ctx *gin.Context, ws, id string, t domain.OrderType, a domain.Actor) (*domain.Order, error) {
		return h.orderService.FulfilOrder(ctx.Request.Context(), ws, id, t, a)
	})
}

// cancelOrder godoc
// @Summary Cancel an order
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 422 {object} map[string]string "Order cannot be cancelled"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/cancel [post]
func (h *orderHandler) cancelOrder(c *gin.Context) {
	h.transition(c, "cancel order", func(ctx *gin.Context, ws, id string, t domain.OrderType, a domain.Actor) (*domain.Order, error) {
		return h.orderService.CancelOrder(ctx.Request.Context(), ws, id, t, a)
	})
}

// addOrderItem godoc
// @Summary Add an item to a DRAFT order
// @Description Adds the line and recomputes the order total
// @Tags orders
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Param item body dto.OrderItemRequest true "Item"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Order is not editable"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/items [post]
func (h *orderHandler) addOrderItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	order, err := h.orderService.AddOrderItem(c.Request.Context(), c.Param("workplace_id"), c.Param("order_id"), orderType, req, actor)
	if err != nil {
		respondWithError(c, logger, err, "add order item")
		return
	}
	logger.Info("Order item added", slog.String("order_id", order.OrderID), slog.String("total", order.TotalAmount.String()))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// removeOrderItem godoc
// @Summary Remove an item from a DRAFT order
// @Tags orders
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Param item_id path string true "Item ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Item not found on this order"
// @Failure 422 {object} map[string]string "Order is not editable"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/items/{item_id} [delete]
func (h *orderHandler) removeOrderItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}

	order, err := h.orderService.RemoveOrderItem(c.Request.Context(), c.Param("workplace_id"), c.Param("order_id"), orderType, c.Param("item_id"), actor)
	if err != nil {
		respondWithError(c, logger, err, "remove order item")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// convertOrder godoc
// @Summary Convert an order to an invoice
// @Description Creates an invoice (sales) or bill (purchase) copying the order lines. An order converts at most once.
// @Tags orders
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param order_type path string true "sales or purchase"
// @Param order_id path string true "Order ID"
// @Param conversion body dto.ConvertOrderRequest true "Invoice header"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 409 {object} map[string]string "Order already converted"
// @Failure 422 {object} map[string]string "Order not in a convertible state"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/orders/{order_type}/{order_id}/convert [post]
func (h *orderHandler) convertOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	orderType, ok := orderTypeParam(c, logger)
	if !ok {
		return
	}
	var req dto.ConvertOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.conversionService.ConvertOrderToInvoice(c.Request.Context(), c.Param("workplace_id"), c.Param("order_id"), orderType, req, actor)
	if err != nil {
		respondWithError(c, logger, err, "convert order")
		return
	}
	logger.Info("Order converted", slog.String("order_id", c.Param("order_id")), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}
