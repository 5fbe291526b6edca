package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"marketplace-api/internal/middleware"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	BrandHandler   *BrandHandler
	ProductHandler *ProductHandler
	AuthService    *middleware.AuthService
	HealthCheck    func(ctx context.Context) error
	Logger         *logrus.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		if config.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if err := config.HealthCheck(ctx); err != nil {
				config.Logger.WithError(err).Error("Health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "marketplace-api",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marketplace-api",
		})
	})

	api := router.Group("")
	api.Use(middleware.Authentication(config.AuthService, config.Logger))
	{
		brands := api.Group("/brands")
		{
			h := config.BrandHandler
			brands.POST("", GinHandler(h.HandleCreate))
			brands.GET("", GinHandler(h.HandleList))
			brands.GET("/me", GinHandler(h.HandleGetOwn))
			brands.GET("/:id", GinHandler(h.HandleGet))
			brands.PUT("/:id", GinHandler(h.HandleUpdate))
			brands.DELETE("/:id", GinHandler(h.HandleDelete))
		}

		products := api.Group("/products")
		{
			h := config.ProductHandler
			products.POST("", GinHandler(h.HandleCreate))
			products.GET("", GinHandler(h.HandleList))
			products.GET("/:id", GinHandler(h.HandleGet))
			products.PUT("/:id", GinHandler(h.HandleUpdate))
			products.DELETE("/:id", GinHandler(h.HandleDelete))
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Request size limit (10MB)
	router.Use(middleware.RequestSizeLimit(maxBodyBytes))

	if config.RateLimitRPS > 0 {
		router.Use(middleware.RateLimiter(config.Logger, config.RateLimitRPS, config.RateLimitBurst))
	}

	router.Use(middleware.StructuredLogger(config.Logger))
	router.Use(middleware.PerformanceMonitor(config.Logger, time.Second))
}

// SetupDevelopmentRoutes adds development-only routes
func SetupDevelopmentRoutes(router *gin.Engine, config *RouterConfig) {
	dev := router.Group("/dev")
	{
		// Issue a token for a local subject, e.g. POST /dev/token {"sub":"u1","email":"a@b.c"}
		dev.POST("/token", func(c *gin.Context) {
			var body struct {
				Subject string `json:"sub" binding:"required"`
				Email   string `json:"email"`
			}
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sub is required"})
				return
			}

			token, err := config.AuthService.GenerateToken(body.Subject, body.Email)
			if err != nil {
				config.Logger.WithError(err).Error("Failed to issue token")
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})
	}
}
