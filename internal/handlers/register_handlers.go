package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/wishmaker-app/wishmaker_backend/cmd/docs"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/services"
	portssvc "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
	"github.com/wishmaker-app/wishmaker_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	sessions *services.SessionManager,
	images portssvc.ImageStore,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, sessions, images)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	sessions *services.SessionManager,
	images portssvc.ImageStore,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, sessions)
	registerWishRoutes(v1, sessions)
	registerImageRoutes(v1, images)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
