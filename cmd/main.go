package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/investment-service/investment_service/internal/api/routes"
	"github.com/investment-service/investment_service/internal/infrastructure/config"
	"github.com/investment-service/investment_service/internal/infrastructure/database"
	"github.com/investment-service/investment_service/internal/infrastructure/di"
	"github.com/investment-service/investment_service/internal/workers/portfolio_snapshot"
	"github.com/investment-service/investment_service/pkg/logger"
	"github.com/investment-service/investment_service/pkg/tracing"
	"github.com/investment-service/investment_service/pkg/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()

	ctx := context.Background()

	// Initialize tracing
	shutdownTracing, err := tracing.InitProvider(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version.Version,
		Environment: cfg.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}

	// Initialize database when the postgres store is selected
	var db *sqlx.DB
	if cfg.Storage.Driver == config.StorageDriverPostgres {
		db, err = database.NewConnection(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db.DB); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build dependency injection container
	container, err := di.NewContainer(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("Failed to create DI container", "error", err)
	}
	defer container.Close()

	router := routes.SetupRoutes(container)

	// Portfolio snapshot worker
	var scheduler *portfolio_snapshot.Scheduler
	if cfg.Snapshot.Enabled {
		snapshotConfig := portfolio_snapshot.DefaultConfig()
		snapshotConfig.Schedule = cfg.Snapshot.Schedule
		scheduler = portfolio_snapshot.NewScheduler(container.InvestmentService, db, snapshotConfig, log.Zap())

		if err := scheduler.Start(); err != nil {
			log.Fatal("Failed to start portfolio snapshot scheduler", "error", err)
		}
	}

	// Create server
	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in goroutine
	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Environment,
			"storage", cfg.Storage.Driver,
			"version", version.Version,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Warnw("Error stopping snapshot scheduler", "error", err)
		}
	}

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warnw("Error shutting down tracer provider", "error", err)
	}

	log.Info("Server exited")
}
