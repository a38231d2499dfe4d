package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vessel-tracker/internal/ais"
	"vessel-tracker/internal/config"
	"vessel-tracker/internal/delivery/http/handler"
	"vessel-tracker/internal/infrastructure/database/postgres"
	"vessel-tracker/internal/logger"
	"vessel-tracker/internal/middleware"
	"vessel-tracker/internal/tracking"
	"vessel-tracker/internal/usecase/vessel"
)

func SetupRoutes(
	cfg *config.Config,
	db *postgres.DB,
	aggregator *ais.Aggregator,
	store *tracking.Store,
	metrics *tracking.MetricsTracker,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware in order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	vesselRepository := postgres.NewVesselRepository(db)
	positionRepository := postgres.NewPositionRepository(db)
	vesselService := vessel.NewService(vesselRepository, positionRepository, aggregator, store)
	vesselHandler := handler.NewVesselHandler(vesselService)
	trackingHandler := handler.NewTrackingHandler(metrics)

	v1 := router.Group("/api/v1")
	{
		vesselHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			operator := protected.Group("")
			operator.Use(middleware.OperatorOrAdmin())
			{
				vesselHandler.RegisterOperatorRoutes(operator)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				trackingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
