package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ventaspro/config"
	"ventaspro/internal/cache"
	"ventaspro/internal/database"
	"ventaspro/internal/gateway"
	"ventaspro/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.HTTP.Mode)

	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database ready", zap.String("driver", cfg.DB.Driver))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := config.NewRedisClient(ctx, cfg.Redis)
	cancel()
	if err != nil {
		logger.Warn("redis unavailable, summary cache disabled", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		logger.Info("redis connected", zap.String("host", cfg.Redis.Host), zap.String("port", cfg.Redis.Port))
	}

	router, err := gateway.NewRouter(gateway.Dependencies{
		Config: cfg,
		DB:     db,
		Cache:  cache.New(redisClient, logger.Named("cache")),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server exited")
}
