package router

import (
	"log/slog"
	"net/http"

	"github.com/bytebasket/backend/internal/api"
	"github.com/bytebasket/backend/internal/middleware"
	"github.com/bytebasket/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config carries everything SetupRouter mounts.
type Config struct {
	Tokens         middleware.TokenValidator
	Dietary        *api.DietaryHandler
	Admin          *api.AdminDietaryHandler
	MatchLimiter   *middleware.RateLimiter
	HealthChecks   map[string]api.Pinger
	AllowedOrigins []string
	// Metrics serves /metrics; promhttp.Handler() is used when nil.
	Metrics http.Handler
	Logger  *slog.Logger
}

// SetupRouter configures the application routes
func SetupRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metricsHandler := cfg.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", api.HealthCheck(cfg.HealthChecks))
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// API v1 routes, all authenticated
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg.Tokens))
	{
		cfg.Dietary.RegisterRoutes(v1, cfg.MatchLimiter.RateLimitMiddleware())

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		cfg.Admin.RegisterRoutes(admin)
	}

	return router
}
