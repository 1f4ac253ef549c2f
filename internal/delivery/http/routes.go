package http

import (
	"github.com/gin-gonic/gin"
	"github.com/listmatic/backend/config"
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
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		matcher := v1.Group("/matcher")
		{
			matcher.POST("/run", handler.RunMatcher)
			matcher.GET("/results", handler.GetResults)
			matcher.PUT("/results/:idx", handler.EditResult)
			matcher.GET("/export", handler.ExportResults)
			matcher.GET("/export/pipeline", handler.ExportPipeline)
		}

		v1.POST("/catalog", handler.UploadCatalog)

		corrections := v1.Group("/corrections")
		{
			corrections.GET("", handler.ListCorrections)
			corrections.DELETE("/:key", handler.DeleteCorrection)
		}
	}

	return router
}
