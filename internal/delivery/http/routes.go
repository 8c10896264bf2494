package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutricart/backend/config"
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
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		food := v1.Group("/food")
		{
			food.GET("/find", handler.FindFood)
			food.POST("/find", handler.FindFood)
			food.GET("/cached", handler.CachedFood)
		}

		basket := v1.Group("/basket")
		{
			basket.GET("/grocery", handler.GroceryBasket)
			basket.POST("/grocery", handler.GroceryBasket)
			basket.GET("/grocery/cached", handler.CachedGroceryBasket)
		}

		v1.GET("/baskets", handler.Baskets)

		cache := v1.Group("/cache")
		{
			cache.GET("/warm", handler.WarmCache)
			cache.POST("/warm", handler.WarmCache)
		}

		v1.GET("/nutrition", handler.Nutrition)
		v1.POST("/nutrition", handler.Nutrition)

		v1.GET("/subjects", handler.Subjects)
	}

	return router
}
