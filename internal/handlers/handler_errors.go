package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wishmaker-app/wishmaker_backend/internal/apperrors"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/services"
)

// respondLedgerError maps ledger sentinel errors to HTTP statuses. Ledger
// errors are caller mistakes: the user corrects input and resubmits.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrWishNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidWish):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientFunds), errors.Is(err, services.ErrWishAlreadyFunded):
		logger.Warn("Funding rule violation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPersistenceUnavailable):
		logger.Error("Persistence unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Account store temporarily unavailable"})
	default:
		logger.Error("Unexpected error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
