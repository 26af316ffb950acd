package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts and postings.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{accountService: as, ledgerService: ls}
}

// registerAccountRoutes registers routes related to accounts and ledger transactions.
// Portal contacts have no access to the books.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts", middleware.RequireWorkplaceRole())
	{
		accounts.POST("", middleware.RequireWriteAccess(), h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.DELETE("/:account_id", middleware.RequireWriteAccess(), h.deleteAccount)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
		accounts.GET("/:account_id/transactions", h.listAccountTransactions)
	}

	rg.POST("/ledger-transactions", middleware.RequireWorkplaceRole(), middleware.RequireWriteAccess(), h.postTransaction)
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account in the chart of accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param("workplace_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create account")
		return
	}
	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param limit query int false "Limit" default(100)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if !bindQuery(c, logger, &params) {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("workplace_id"), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("workplace_id"), c.Param("account_id"))
	if err != nil {
		respondWithError(c, logger, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that has no children and no postings
// @Tags accounts
// @Param workplace_id path string true "Workplace ID"
// @Param account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account is in use"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts/{account_id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	accountID := c.Param("account_id")
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("workplace_id"), accountID, actor); err != nil {
		respondWithError(c, logger, err, "delete account")
		return
	}
	logger.Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Returns the balance of an account, signed by its normal side
// @Tags accounts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts/{account_id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("account_id")
	balance, err := h.accountService.CalculateAccountBalance(c.Request.Context(), c.Param("workplace_id"), accountID)
	if err != nil {
		respondWithError(c, logger, err, "calculate account balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance})
}

// listAccountTransactions godoc
// @Summary List postings of an account
// @Tags accounts
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param account_id path string true "Account ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAccountTransactionsResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/accounts/{account_id}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountTransactionsParams
	if !bindQuery(c, logger, &params) {
		return
	}

	txns, next, err := h.ledgerService.ListAccountTransactions(c.Request.Context(), c.Param("workplace_id"), c.Param("account_id"), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err, "list account transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountTransactionsResponse(txns, next))
}

// postTransaction godoc
// @Summary Post a ledger transaction
// @Description Debits one non-group account and credits another by the same amount
// @Tags ledger
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param transaction body dto.PostTransactionRequest true "Posting"
// @Success 201 {object} dto.LedgerTransactionResponse
// @Failure 400 {object} map[string]string "Invalid posting"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/ledger-transactions [post]
func (h *accountHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.PostTransactionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), c.Param("workplace_id"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "post transaction")
		return
	}
	logger.Info("Ledger transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToLedgerTransactionResponse(txn))
}
