package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartwise/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/compare-prices", handler.ComparePrices)
		api.POST("/optimize-stops", handler.OptimizeStops)
	}

	// Legacy catalog endpoints kept for existing clients
	router.GET("/stores", handler.ListStores)
	router.GET("/stores/by-distance/:zip", handler.StoresByDistance)
	router.GET("/store/:id", handler.StoreByID)
	router.GET("/search", handler.SearchProducts)
	router.POST("/check_products", handler.CheckProducts)

	return router
}
