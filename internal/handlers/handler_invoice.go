package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles invoices, bills and the payments recorded against them.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ps portssvc.PaymentSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, paymentService: ps}
}

// registerInvoiceRoutes registers invoice and payment routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newInvoiceHandler(invoiceService, paymentService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", middleware.RequireWriteAccess(), h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.POST("/mark-overdue", middleware.RequireWriteAccess(), h.markOverdue)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.POST("/:invoice_id/issue", middleware.RequireWriteAccess(), h.issueInvoice)
		invoices.POST("/:invoice_id/cancel", middleware.RequireWriteAccess(), h.cancelInvoice)
		invoices.GET("/:invoice_id/payments", h.listPayments)
		invoices.POST("/:invoice_id/payments", middleware.RequireWriteAccess(), h.applyPayment)
	}

	payments := rg.Group("/payments")
	{
		payments.GET("/:payment_id", h.getPayment)
		payments.PATCH("/:payment_id/status", middleware.RequireWriteAccess(), h.updatePaymentStatus)
	}
}

// createInvoice godoc
// @Summary Create an invoice or bill
// @Description Creates a standalone SALES invoice or PURCHASE bill. The number is allocated from the workplace sequence.
// @Tags invoices
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Contact or product not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.Param("workplace_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create invoice")
		return
	}
	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest first with token pagination. Portal users only see their own.
// @Tags invoices
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param type query string false "SALES or PURCHASE"
// @Param status query string false "Invoice status"
// @Param contactID query string false "Contact ID"
// @Param orderID query string false "Source order ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query or token"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if !bindQuery(c, logger, &params) {
		return
	}

	invoices, next, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("workplace_id"), params, domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices, next))
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("workplace_id"), c.Param("invoice_id"), domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "get invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// issueInvoice godoc
// @Summary Issue a DRAFT invoice
// @Tags invoices
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 422 {object} map[string]string "Invoice is not a DRAFT"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/{invoice_id}/issue [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), c.Param("workplace_id"), c.Param("invoice_id"), actor)
	if err != nil {
		respondWithError(c, logger, err, "issue invoice")
		return
	}
	logger.Info("Invoice issued", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Cancels an invoice with no recorded payments. A cancelled invoice frees its order for conversion.
// @Tags invoices
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 422 {object} map[string]string "Invoice cannot be cancelled"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/{invoice_id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), c.Param("workplace_id"), c.Param("invoice_id"), actor)
	if err != nil {
		respondWithError(c, logger, err, "cancel invoice")
		return
	}
	logger.Info("Invoice cancelled", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markOverdue godoc
// @Summary Mark overdue invoices
// @Description Moves UNPAID and PARTIAL invoices whose due date is before asOf to OVERDUE
// @Tags invoices
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param request body dto.MarkOverdueRequest false "Cut-off (defaults to now)"
// @Success 200 {object} dto.MarkOverdueResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/mark-overdue [post]
func (h *invoiceHandler) markOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.MarkOverdueRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, logger, &req) {
		return
	}
	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	updated, err := h.invoiceService.MarkOverdueInvoices(c.Request.Context(), c.Param("workplace_id"), asOf, actor)
	if err != nil {
		respondWithError(c, logger, err, "mark overdue invoices")
		return
	}
	logger.Info("Overdue invoices marked", slog.Int("updated", updated), slog.Time("as_of", asOf))
	c.JSON(http.StatusOK, dto.MarkOverdueResponse{Updated: updated})
}

// applyPayment godoc
// @Summary Record a payment against an invoice
// @Description Records the payment and reconciles the invoice's paid amount and status
// @Tags payments
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice_id path string true "Invoice ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.ApplyPaymentResponse
// @Failure 400 {object} map[string]string "Amount exceeds balance due or is not positive"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice is not payable"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/{invoice_id}/payments [post]
func (h *invoiceHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.ApplyPaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	payment, invoice, err := h.paymentService.ApplyPayment(c.Request.Context(), c.Param("workplace_id"), c.Param("invoice_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "apply payment")
		return
	}
	logger.Info("Payment applied",
		slog.String("payment_number", payment.PaymentNumber),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_status", string(invoice.Status)))
	c.JSON(http.StatusCreated, dto.ApplyPaymentResponse{
		Payment: dto.ToPaymentResponse(payment),
		Invoice: dto.ToInvoiceResponse(invoice),
	})
}

// listPayments godoc
// @Summary List payments of an invoice
// @Tags payments
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/invoices/{invoice_id}/payments [get]
func (h *invoiceHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	payments, err := h.paymentService.ListPaymentsForInvoice(c.Request.Context(), c.Param("workplace_id"), c.Param("invoice_id"), domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentResponse(payments))
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/payments/{payment_id} [get]
func (h *invoiceHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("workplace_id"), c.Param("payment_id"), domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "get payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// updatePaymentStatus godoc
// @Summary Clear or bounce a received payment
// @Tags payments
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param payment_id path string true "Payment ID"
// @Param status body dto.UpdatePaymentStatusRequest true "New status"
// @Success 200 {object} dto.PaymentResponse
// @Failure 422 {object} map[string]string "Payment is not RECEIVED"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/payments/{payment_id}/status [patch]
func (h *invoiceHandler) updatePaymentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	payment, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), c.Param("workplace_id"), c.Param("payment_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "update payment status")
		return
	}
	logger.Info("Payment status updated", slog.String("payment_id", payment.PaymentID), slog.String("status", string(payment.Status)))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
