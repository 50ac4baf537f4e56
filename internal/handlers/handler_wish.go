package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
)

// wishHandler handles HTTP requests related to wishes.
type wishHandler struct {
	sessions *services.SessionManager
}

// newWishHandler creates a new wishHandler.
func newWishHandler(sessions *services.SessionManager) *wishHandler {
	return &wishHandler{sessions: sessions}
}

// registerWishRoutes registers routes related to wishes.
func registerWishRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	h := newWishHandler(sessions)

	wishes := rg.Group("/wishes")
	{
		wishes.POST("", h.createWish)
		wishes.GET("", h.listWishes)
		wishes.POST("/:wishID/allocate", h.allocate)
		wishes.PUT("/:wishID/deadline", h.updateDeadline)
		wishes.DELETE("/:wishID", h.deleteWish)
	}
}

// createWish godoc
// @Summary Create a new wish
// @Description Creates a savings target with a price, deadline and image URL
// @Tags wishes
// @Accept json
// @Produce json
// @Param wish body dto.CreateWishRequest true "Wish details"
// @Success 201 {object} dto.WishResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /wishes [post]
func (h *wishHandler) createWish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWish", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	wish, err := session.CreateWish(c.Request.Context(), req)
	if err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	logger.Info("Wish created", slog.String("wish_id", wish.WishID))
	c.JSON(http.StatusCreated, dto.ToWishResponse(*wish, time.Now().UTC()))
}

// listWishes godoc
// @Summary List wishes
// @Description Lists wishes, optionally partitioned by status (active, completed, expired)
// @Tags wishes
// @Produce json
// @Param status query string false "Partition: active, completed or expired; all when omitted"
// @Success 200 {object} dto.ListWishesResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /wishes [get]
func (h *wishHandler) listWishes(c *gin.Context) {
	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	var wishes []domain.Wish
	switch c.Query("status") {
	case "active":
		wishes = session.ActiveWishes()
	case "completed":
		wishes = session.CompletedWishes()
	case "expired":
		wishes = session.ExpiredWishes()
	case "":
		wishes = session.Wishes()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: active, completed, expired"})
		return
	}

	c.JSON(http.StatusOK, dto.ListWishesResponse{
		Wishes: dto.ToWishResponses(wishes, time.Now().UTC()),
	})
}

// allocate godoc
// @Summary Allocate funds to a wish
// @Description Moves funds from the balance into a wish, clamped to the remaining need
// @Tags wishes
// @Accept json
// @Produce json
// @Param wishID path string true "Wish ID"
// @Param allocation body dto.AllocateRequest true "Amount to allocate"
// @Success 200 {object} dto.AllocateResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Wish not found"
// @Failure 422 {object} map[string]string "Insufficient funds or wish already funded"
// @Security BearerAuth
// @Router /wishes/{wishID}/allocate [post]
func (h *wishHandler) allocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wishID := c.Param("wishID")

	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for allocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	resp, err := session.Allocate(c.Request.Context(), wishID, req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateDeadline godoc
// @Summary Edit a wish's deadline
// @Description Replaces the final date of an existing wish
// @Tags wishes
// @Accept json
// @Produce json
// @Param wishID path string true "Wish ID"
// @Param deadline body dto.UpdateDeadlineRequest true "New final date"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Wish not found"
// @Security BearerAuth
// @Router /wishes/{wishID}/deadline [put]
func (h *wishHandler) updateDeadline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wishID := c.Param("wishID")

	var req dto.UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateDeadline", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	if err := session.EditDeadline(c.Request.Context(), wishID, req.FinalDate); err != nil {
		respondLedgerError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteWish godoc
// @Summary Delete a wish
// @Description Removes the wish; allocated funds are not refunded and history is untouched
// @Tags wishes
// @Produce json
// @Param wishID path string true "Wish ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Wish not found"
// @Security BearerAuth
// @Router /wishes/{wishID} [delete]
func (h *wishHandler) deleteWish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wishID := c.Param("wishID")

	session := openSession(c, h.sessions)
	if session == nil {
		return
	}

	if err := session.DeleteWish(c.Request.Context(), wishID); err != nil {
		respondLedgerError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
