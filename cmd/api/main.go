package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/config"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/api"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/cache"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/database"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/logging"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/router"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/server"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment.Structured(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Environment.Structured() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db, os.Getenv("MIGRATIONS_DIR"), logger); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			if cfg.CacheBackend == "redis" {
				return err
			}
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}

	var responses cache.Cache
	switch cfg.CacheBackend {
	case "redis":
		responses = cache.NewRedis(redisClient, "recipes")
	default:
		mem := cache.NewMemory(cache.WithJanitor(cfg.CacheTTL))
		defer func() { _ = mem.Close() }()
		responses = mem
	}

	keys := upstream.NewKeyRotator(cfg.SpoonacularAPIKeys, logger.Named("keys"))
	client := upstream.NewClient(keys, responses, upstream.Options{
		BaseURL:  cfg.SpoonacularBaseURL,
		CacheTTL: cfg.CacheTTL,
		Timeout:  cfg.UpstreamTimeout,
		Coalesce: cfg.CoalesceRequests,
		Logger:   logger.Named("upstream"),
	})

	authService := service.NewAuthService(db, cfg.JWTSecret)
	favourites := service.NewFavouritesService(
		service.NewFavouriteStore(db),
		service.NewFavouritesResolver(client, logger.Named("favourites")),
	)

	var rateLimit gin.HandlerFunc
	healthChecks := map[string]api.Pinger{"database": database.HealthCheck{DB: db}}
	if redisClient != nil {
		rateLimit = middleware.NewUpstreamRateLimiter(redisClient, cfg.RateLimitPerMinute, logger).RateLimitMiddleware()
		healthChecks["redis"] = database.RedisHealthCheck{Client: redisClient}
	}

	engine := router.SetupRouter(router.Handlers{
		Auth:       api.NewAuthHandler(authService, logger),
		Favourites: api.NewFavouritesHandler(favourites, authService, logger),
		Recipes:    api.NewRecipeHandler(service.NewRecipeService(client), rateLimit, logger),
		Upstream:   api.NewUpstreamHandler(keys, authService),
		Health:     api.NewHealthHandler(healthChecks),
	}, logger)

	srv := server.New(cfg.ServerHost, cfg.ServerPort, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
