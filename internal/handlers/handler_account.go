package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to the account itself:
// balance, deposits, history and the profile image.
type accountHandler struct {
	sessions *services.SessionManager
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(sessions *services.SessionManager) *accountHandler {
	return &accountHandler{sessions: sessions}
}

// registerAccountRoutes registers routes related to the account.
func registerAccountRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	h := newAccountHandler(sessions)

	account := rg.Group("/account")
	{
		account.GET("", h.getAccount)
		account.POST("/deposit", h.deposit)
		account.GET("/history", h.getHistory)
		account.PUT("/profile-image", h.updateProfileImage)
	}
}

// openSession resolves the authenticated user's session, hydrating it from
// the document store on first touch. Returns nil after writing the response
// when that fails.
func openSession(c *gin.Context, sessions *services.SessionManager) *services.AccountSession {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}

	session, err := sessions.Open(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, logger, err)
		return nil
	}
	return session
}

// getAccount godoc
// @Summary Get the account summary
// @Description Returns balance, profile image and collection counts for the logged-in user
// @Tags account
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Account store unavailable"
// @Security BearerAuth
// @Router /account [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	session := openSession(c, h.sessions)
	if session == nil {
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(session.Account()))
}

// deposit godoc
// @Summary Add funds to the balance
// @Description Deposits a positive amount into the account balance
// @Tags account
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit amount"
// @Success 200 {object} dto.DepositResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /account/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	balance, err := session.Deposit(c.Request.Context(), req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DepositResponse{Balance: balance})
}

// getHistory godoc
// @Summary List the transaction history
// @Description Returns all ledger entries for the account, newest first
// @Tags account
// @Produce json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /account/history [get]
func (h *accountHandler) getHistory(c *gin.Context) {
	session := openSession(c, h.sessions)
	if session == nil {
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(session.History()),
	})
}

// updateProfileImage godoc
// @Summary Set the profile image
// @Description Stores the opaque image URL returned by the image upload endpoint
// @Tags account
// @Accept json
// @Produce json
// @Param image body dto.UpdateProfileImageRequest true "Image URL"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /account/profile-image [put]
func (h *accountHandler) updateProfileImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for profile image update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	session.SetProfileImageURL(c.Request.Context(), req.ImageURL)
	c.Status(http.StatusNoContent)
}
