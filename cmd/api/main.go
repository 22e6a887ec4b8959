package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/bytebasket/backend/config"
	"github.com/bytebasket/backend/internal/database"
	"github.com/bytebasket/backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	opts := []server.Option{server.WithLogger(logger)}

	// Continue without rate limiting if Redis is not available
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", slog.Any("error", err))
	} else if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, server.WithRedis(redisClient))
	}

	srv := server.New(cfg, db, opts...)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		logger.Info("received signal", slog.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
