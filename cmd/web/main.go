package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodshare/foodshare/config"
	"github.com/foodshare/foodshare/internal/app"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", false).WithError(err).Fatal("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment == config.Production)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start application")
	}
	defer a.Close()

	var sweeper server.Sweeper
	if a.Sweeper != nil {
		sweeper = a.Sweeper
	}
	srv := server.NewServer(cfg.Addr(), a.Handler, sweeper, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("server error")
		}
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("received signal")
	}

	logger.Info("shutting down server")
	if err := srv.Stop(context.Background()); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("server stopped")
}
