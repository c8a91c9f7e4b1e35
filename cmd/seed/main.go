package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/config"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/database"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/logging"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
)

// Demo accounts for local development. Recipe ids are upstream ids.
var demoUsers = []struct {
	name       string
	email      string
	favourites []int
}{
	{name: "John Doe", email: "john.doe@example.com", favourites: []int{716429, 715538, 782585}},
	{name: "Jane Smith", email: "jane.smith@example.com", favourites: []int{715415, 716406}},
	{name: "Bob Wilson", email: "bob.wilson@example.com"},
}

const demoPassword = "testpassword123"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Environment == config.Production {
		log.Fatal("Refusing to seed demo users in production")
	}

	logger, err := logging.New(cfg.Environment.Structured(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db, "", logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret)
	store := service.NewFavouriteStore(db)

	for _, u := range demoUsers {
		user, _, err := auth.Register(ctx, u.name, u.email, demoPassword)
		if errors.Is(err, service.ErrUserExists) {
			logger.Info("user already exists, skipping", zap.String("email", u.email))
			continue
		}
		if err != nil {
			logger.Fatal("failed to create user", zap.String("email", u.email), zap.Error(err))
		}

		for _, id := range u.favourites {
			if _, err := store.Create(ctx, user.ID, id); err != nil && !errors.Is(err, service.ErrUniqueConstraint) {
				logger.Fatal("failed to create favourite", zap.Int("recipe_id", id), zap.Error(err))
			}
		}
		logger.Info("created demo user", zap.String("email", u.email), zap.Int("favourites", len(u.favourites)))
	}

	logger.Info("seeding complete", zap.String("password", demoPassword))
}
