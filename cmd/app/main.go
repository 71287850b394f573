package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"futfolio/configs"
	"futfolio/internal/database"
	delivery "futfolio/internal/delivery/http"
	"futfolio/internal/infra"
	"futfolio/internal/logger"
	"futfolio/internal/repository"
	"futfolio/internal/service"
	"futfolio/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	zlog.Info("database connected")

	if err := database.RunMigrations(ctx, db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	snapshotRepo := repository.NewMarketSnapshotRepository(db)

	// One cache instance for the whole process, injected everywhere
	resultCache := service.NewResultCache()

	// Initialize services
	analyticsService := service.NewAnalyticsService(tradeRepo, resultCache, zlog)
	trendingService := service.NewTrendingService(snapshotRepo, resultCache, zlog)
	tradeService := usecase.NewTradeService(tradeRepo, analyticsService, zlog)

	// Keep the default market queries warm
	cacheWarmer := infra.NewCacheWarmer(trendingService, zlog)
	if err := cacheWarmer.Start(); err != nil {
		zlog.Fatal("failed to start cache warmer", zap.Error(err))
	}
	defer cacheWarmer.Stop()

	// Initialize HTTP router
	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:      delivery.NewAuthHandler(userRepo),
		TradeHandler:     delivery.NewTradeHandler(tradeService),
		AnalyticsHandler: delivery.NewAnalyticsHandler(analyticsService),
		MarketHandler:    delivery.NewMarketHandler(trendingService, cfg.Market.RiseThreshold, cfg.Market.FallThreshold),
	})

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	// Run server in goroutine
	go func() {
		zlog.Info("futfolio starting",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited gracefully")
}
