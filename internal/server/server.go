package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bytebasket/backend/config"
	"github.com/bytebasket/backend/internal/api"
	"github.com/bytebasket/backend/internal/database"
	"github.com/bytebasket/backend/internal/metrics"
	"github.com/bytebasket/backend/internal/middleware"
	"github.com/bytebasket/backend/internal/router"
	"github.com/bytebasket/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

type options struct {
	redis    *redis.Client
	logger   *slog.Logger
	registry *prometheus.Registry
}

// Option customizes New.
type Option func(*options)

// WithRedis enables the test-matching rate limiter.
func WithRedis(client *redis.Client) Option {
	return func(o *options) { o.redis = client }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegistry registers metrics on reg and serves /metrics from it
// instead of the process-wide default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// New wires services, handlers and routes into a server.
func New(cfg *config.Config, db *gorm.DB, opts ...Option) *Server {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if o.registry != nil {
		m = metrics.NewWithRegisterer(o.registry)
		metricsHandler = promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
	} else {
		m = metrics.New()
		metricsHandler = promhttp.Handler()
	}

	tokens := service.NewTokenService(cfg.JWTSecret)
	preferences := service.NewDietaryPreferenceService(db)
	restrictions := service.NewDietaryRestrictionService(db)
	matcher := service.NewDietaryMatchingService(preferences,
		service.WithMismatchLog(service.NewMismatchLog(cfg.MismatchLogCapacity)),
		service.WithLogger(o.logger),
		service.WithMetrics(m),
	)

	checks := map[string]api.Pinger{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	var limiter *middleware.RateLimiter
	if o.redis != nil {
		limiter = middleware.NewMatchingRateLimiter(o.redis, cfg.MatchingRateLimit)
		checks["redis"] = func(ctx context.Context) error { return o.redis.Ping(ctx).Err() }
	}

	engine := router.SetupRouter(router.Config{
		Tokens:         tokens,
		Dietary:        api.NewDietaryHandler(preferences, restrictions, matcher, o.logger),
		Admin:          api.NewAdminDietaryHandler(restrictions, matcher, o.logger),
		MatchLimiter:   limiter,
		HealthChecks:   checks,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metricsHandler,
		Logger:         o.logger,
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routed engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
