package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/config"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/database"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/logging"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory of .sql migrations to apply after auto-migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
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

	if err := database.RunMigrations(db, *migrationsDir, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("all migrations applied")
}
