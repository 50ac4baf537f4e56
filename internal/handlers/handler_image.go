package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
)

// maxImageBytes caps uploads at 10 MiB.
const maxImageBytes = 10 << 20

// imageHandler forwards raw image bytes to the image-hosting collaborator.
type imageHandler struct {
	images portssvc.ImageStore
}

// registerImageRoutes registers the image upload route.
func registerImageRoutes(rg *gin.RouterGroup, images portssvc.ImageStore) {
	h := &imageHandler{images: images}
	rg.POST("/images", h.uploadImage)
}

// uploadImage godoc
// @Summary Upload an image
// @Description Uploads raw image bytes to the hosting collaborator and returns the durable URL
// @Tags images
// @Accept octet-stream
// @Produce json
// @Success 201 {object} dto.UploadImageResponse
// @Failure 400 {object} map[string]string "Empty or oversized body"
// @Failure 502 {object} map[string]string "Upstream upload failed"
// @Security BearerAuth
// @Router /images [post]
func (h *imageHandler) uploadImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageBytes+1))
	if err != nil {
		logger.Warn("Failed to read image body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image body is empty"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 10MB limit"})
		return
	}

	imageURL, err := h.images.Upload(c.Request.Context(), data, "wish.jpg")
	if err != nil {
		logger.Error("Image upload failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image upload failed. Please try again."})
		return
	}

	logger.Info("Image uploaded", slog.Int("size_bytes", len(data)))
	c.JSON(http.StatusCreated, dto.UploadImageResponse{ImageURL: imageURL})
}
