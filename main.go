package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"fitness-schedule-proxy/internal/api"
	"fitness-schedule-proxy/internal/cache"
	"fitness-schedule-proxy/internal/config"
	"fitness-schedule-proxy/internal/logger"
	"fitness-schedule-proxy/internal/ratelimit"
	"fitness-schedule-proxy/internal/upstream"
	"fitness-schedule-proxy/platform"
)

func main() {
	// Load configuration; refuses to start without upstream credentials
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize services
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	classesCache := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)
	upstreamClient := upstream.NewClient(cfg, logger)

	// Initialize HTTP handlers
	handlerConfig := api.HandlerConfig{
		Configuration: cfg,
		Logger:        logger,
		RateLimiter:   rateLimiter,
		Cache:         classesCache,
		Fetcher:       upstreamClient,
	}
	handlers := api.NewHandlers(handlerConfig)

	// Setup Gin router
	router := handlers.SetupRoutes()

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting schedule proxy on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
