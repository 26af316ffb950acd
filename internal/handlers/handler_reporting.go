package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/SscSPs/bizledger/internal/utils/export"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/contacts/:contact_id/ledger", h.getPartnerLedger)
	rg.GET("/contacts/:contact_id/ledger/export", h.exportPartnerLedger)

	reports := rg.Group("/reports", middleware.RequireWorkplaceRole())
	{
		reports.GET("/stock", h.getStockReport)
		reports.GET("/stock/export", h.exportStockReport)
		reports.GET("/financial-summary", h.getFinancialSummary)
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

func (h *reportingHandler) partnerLedger(c *gin.Context, logger *slog.Logger) (*domain.PartnerLedger, bool) {
	actor, ok := requireActor(c, logger)
	if !ok {
		return nil, false
	}
	var params dto.PartnerLedgerParams
	if !bindQuery(c, logger, &params) {
		return nil, false
	}
	ledger, err := h.reportingService.GetPartnerLedger(c.Request.Context(), c.Param("workplace_id"), c.Param("contact_id"), params, domain.ScopeFor(actor))
	if err != nil {
		respondWithError(c, logger, err, "generate partner ledger")
		return nil, false
	}
	return ledger, true
}

// getPartnerLedger godoc
// @Summary Get a partner ledger
// @Description Chronological invoices and payments of one contact with running balance. Positive balances are owed by the contact.
// @Tags reports
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param contact_id path string true "Contact ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param carryForward query bool false "Open with the balance before from"
// @Success 200 {object} domain.PartnerLedger
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/contacts/{contact_id}/ledger [get]
func (h *reportingHandler) getPartnerLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledger, ok := h.partnerLedger(c, logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// exportPartnerLedger godoc
// @Summary Export a partner ledger as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param workplace_id path string true "Workplace ID"
// @Param contact_id path string true "Contact ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param carryForward query bool false "Open with the balance before from"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/contacts/{contact_id}/ledger/export [get]
func (h *reportingHandler) exportPartnerLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledger, ok := h.partnerLedger(c, logger)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePartnerLedger(&buf, *ledger); err != nil {
		respondWithError(c, logger, err, "export partner ledger")
		return
	}
	sendWorkbook(c, fmt.Sprintf("ledger-%s.xlsx", ledger.Contact.ContactID), buf.Bytes())
}

// getStockReport godoc
// @Summary Get the stock report
// @Description Stock levels derived from purchase and sales invoice quantities
// @Tags reports
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param search query string false "Name or SKU contains"
// @Param category query string false "Category"
// @Param sort query string false "name, stock or status" default(name)
// @Param desc query bool false "Descending order"
// @Success 200 {object} domain.StockReport
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reports/stock [get]
func (h *reportingHandler) getStockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, ok := h.stockReport(c, logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// exportStockReport godoc
// @Summary Export the stock report as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param workplace_id path string true "Workplace ID"
// @Param search query string false "Name or SKU contains"
// @Param category query string false "Category"
// @Param sort query string false "name, stock or status" default(name)
// @Param desc query bool false "Descending order"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reports/stock/export [get]
func (h *reportingHandler) exportStockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, ok := h.stockReport(c, logger)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteStockReport(&buf, *report); err != nil {
		respondWithError(c, logger, err, "export stock report")
		return
	}
	sendWorkbook(c, "stock-report.xlsx", buf.Bytes())
}

func (h *reportingHandler) stockReport(c *gin.Context, logger *slog.Logger) (*domain.StockReport, bool) {
	var params dto.StockReportParams
	if !bindQuery(c, logger, &params) {
		return nil, false
	}
	report, err := h.reportingService.GetStockReport(c.Request.Context(), c.Param("workplace_id"), params.Query())
	if err != nil {
		respondWithError(c, logger, err, "generate stock report")
		return nil, false
	}
	return report, true
}

// getFinancialSummary godoc
// @Summary Get the financial summary
// @Description Revenue, expenses and net profit for the period compared with the previous one
// @Tags reports
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param period query string false "7d, 30d, 90d or 1y" default(30d)
// @Success 200 {object} domain.FinancialSummary
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reports/financial-summary [get]
func (h *reportingHandler) getFinancialSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.FinancialSummaryParams
	if !bindQuery(c, logger, &params) {
		return
	}
	summary, err := h.reportingService.GetFinancialSummary(c.Request.Context(), c.Param("workplace_id"), params.Period, time.Now().UTC())
	if err != nil {
		respondWithError(c, logger, err, "generate financial summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getTrialBalance godoc
// @Summary Get trial balance
// @Description Retrieves the trial balance report for a workplace as of a specific date
// @Tags reports
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param asOf query string false "As of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.TrialBalanceParams
	if !bindQuery(c, logger, &params) {
		return
	}
	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if params.AsOf != nil {
		asOf = params.AsOf.UTC().Truncate(24 * time.Hour)
	}
	// include the whole day
	endOfDay := asOf.Add(24*time.Hour - time.Nanosecond)

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("workplace_id"), endOfDay)
	if err != nil {
		respondWithError(c, logger, err, "generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(asOf, rows))
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}
