package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/ports"
	hoyolabClient "github.com/naotimes/qingque-api/internal/infrastructure/clients/hoyolab"
	mihomoClient "github.com/naotimes/qingque-api/internal/infrastructure/clients/mihomo"
	"github.com/naotimes/qingque-api/internal/infrastructure/health"
	"github.com/naotimes/qingque-api/internal/infrastructure/httpserver"
	"github.com/naotimes/qingque-api/internal/infrastructure/redis"
	"github.com/naotimes/qingque-api/internal/infrastructure/render"
	"github.com/naotimes/qingque-api/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting Qingque API...")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Transaction registry + generation cache on Redis. The repository owns
	// its own key namespace, so the cache adapter stays unprefixed.
	store := redis.NewRedisCache(redisClient, "")
	registry := repositories.NewTransactionRepository(store, logger)

	// Upstream clients
	hoyolab := hoyolabClient.NewClient(&cfg.Hoyolab, logger)
	mihomo := mihomoClient.NewClient(&cfg.Mihomo, logger)

	// Rendering pipeline: decoded asset cache, locale bundle, renderer.
	assets, err := render.NewAssetCache(cfg.Assets.Dir, cfg.Assets.MaxCacheBytes, logger)
	if err != nil {
		logger.Fatal("Failed to initialize asset cache:", err)
	}
	defer assets.Close()

	localizer, err := i18n.NewLocalizer()
	if err != nil {
		logger.Fatal("Failed to load locales:", err)
	}
	renderer := render.NewCardRenderer(assets, localizer)

	// Wire services
	exchangeService := services.NewExchangeService(registry, hoyolab, mihomo, &cfg.Cache, logger)
	hoyolabService := services.NewHoyolabService(registry, registry, hoyolab, renderer, &cfg.Cache, logger)
	mihomoService := services.NewMihomoService(registry, registry, mihomo, renderer, &cfg.Cache, logger)

	hcSlice := []ports.HealthChecker{health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:             cfg.Server.Host,
		Port:             cfg.Server.Port,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
		TLSCertFile:      cfg.Server.TLSCertFile,
		TLSKeyFile:       cfg.Server.TLSKeyFile,
		Environment:      cfg.Server.Environment,
		ShowErrorDetails: cfg.Server.ShowErrorDetails,
		StrictSecret:     cfg.Strict.Secret,
	}

	deps := httpserver.ServerDeps{
		ExchangeService: exchangeService,
		HoyolabService:  hoyolabService,
		MihomoService:   mihomoService,
		HealthCheckers:  hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
