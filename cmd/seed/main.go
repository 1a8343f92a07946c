package main

import (
	"context"
	"errors"

	"github.com/foodshare/foodshare/config"
	"github.com/foodshare/foodshare/internal/database"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/seed"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", false).WithError(err).Fatal("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment == config.Production)
	if cfg.SeedPassword == "" {
		logger.Fatal("SEED_USERS_COMMON_PASSWORD is required")
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	_, err = seed.Run(context.Background(), store.New(db), cfg.SeedPassword, service.Today(service.UTCClock), logger)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		logger.Info("seed data already present, nothing to do")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed database")
	}
}
