package main

import (
	"github.com/foodshare/foodshare/config"
	"github.com/foodshare/foodshare/internal/database"
	"github.com/foodshare/foodshare/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", false).WithError(err).Fatal("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment == config.Production)

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}
	logger.Info("migrations applied")
}
