package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/investment-service/investment_service/docs"
	"github.com/investment-service/investment_service/internal/api/handlers"
	"github.com/investment-service/investment_service/internal/api/middleware"
	"github.com/investment-service/investment_service/internal/infrastructure/di"
	"github.com/investment-service/investment_service/pkg/ratelimit"
	"github.com/investment-service/investment_service/pkg/tracing"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()

	// Global middleware, order matters
	router.Use(tracing.HTTPMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(rateLimiter(container))
	router.Use(middleware.RequestSizeLimit(container.Config.Server.MaxBodyBytes))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.HealthChecker, container.Logger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})

	// Health checks
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/version", handlers.VersionHandler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation (development only)
	if container.Config.Environment != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")
	RegisterInvestmentRoutes(api, handlers.NewInvestmentHandlers(container.InvestmentService, container.Logger))

	return router
}

// rateLimiter shares the per-IP quota through Redis when the cache is
// connected, otherwise each instance keeps its own.
func rateLimiter(container *di.Container) gin.HandlerFunc {
	perMin := container.Config.Server.RateLimitPerMin
	if perMin <= 0 || container.Redis == nil {
		return middleware.RateLimit(perMin)
	}
	limiter := ratelimit.PerIPLimiter(container.Redis, int64(perMin), time.Minute, container.ZapLog)
	return ratelimit.Middleware(limiter, ratelimit.IPKeyFunc, container.ZapLog)
}
