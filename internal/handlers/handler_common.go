package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError maps an application error to its HTTP status. Internal errors are
// logged in full but answered with a generic message.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := http.StatusInternalServerError
	switch apperrors.Kind(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrInvalidState:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrConflict:
		status = http.StatusConflict
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireActor fetches the authenticated actor, answering 401 when it is missing.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

// orderTypeParam reads the :order_type path segment, accepting "sales" or "purchase" in any case.
func orderTypeParam(c *gin.Context, logger *slog.Logger) (domain.OrderType, bool) {
	raw := c.Param("order_type")
	orderType := domain.OrderType(strings.ToUpper(raw))
	if !orderType.IsValid() {
		logger.Warn("Unknown order type in path", slog.String("order_type", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "order type must be sales or purchase"})
		return "", false
	}
	return orderType, true
}

func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

func bindQuery(c *gin.Context, logger *slog.Logger, params any) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		logger.Warn("Failed to bind query params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}
