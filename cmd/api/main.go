package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/astroinsight/internal/api"
	"github.com/timmy/astroinsight/internal/app"
	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/logger"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewFromEnv(logger.LoadFromEnv().Override(cfg.Log.Level, cfg.Log.Format))
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	ctx := appLogger.WithContext(context.Background())

	services, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize services")
	}
	defer func() {
		if err := services.Close(); err != nil {
			appLogger.WithError(err).Warn("Failed to release resources")
		}
	}()

	router := api.SetupRouter(&api.Services{
		Insights:  services.Insights,
		Archive:   services.Archive,
		Publisher: services.Publisher,
	}, &cfg.Server, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":           cfg.Server.Port,
			"mode":           cfg.Server.Mode,
			"remote_enabled": services.Insights.RemoteEnabled(),
			"cache_backend":  cfg.Cache.Backend,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
		return
	}

	appLogger.Info("Server exited")
}
