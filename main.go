package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/llNABSll/customer-api/internal/config"
	"github.com/llNABSll/customer-api/internal/event"
	"github.com/llNABSll/customer-api/internal/infra"
	"github.com/sirupsen/logrus"
)

const DefaultShutdownTimeout = 10 * time.Second
const DefaultDatabaseConnectTimeout = 5 * time.Second

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("no .env file found, proceeding with process environment")
		} else {
			logger.WithError(err).Warn("failed to load .env file, proceeding with process environment")
		}
	}

	cfg, err := config.Build()
	if err != nil {
		logger.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("unknown log level %s - %v", cfg.LogLevel, err)
	}
	logger.SetLevel(logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultDatabaseConnectTimeout)
	defer cancel()

	pool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()

	publisher := event.NewAMQPPublisher(cfg.RabbitCfg.URL, cfg.EventsCfg.Exchange, cfg.EventsCfg.PublishTimeout(), logger)
	defer publisher.Close()

	// broker being down at startup is not fatal, publisher redials on demand
	if err := publisher.Connect(); err != nil {
		logger.WithError(err).Warn("broker is not reachable yet, will redial on first publish")
	}

	app, err := infra.Router(pool, publisher, cfg.EventsCfg, logger)
	if err != nil {
		logger.Fatal(err)
	}

	start(app, cfg.HTTPPort, logger)
}

func start(app *echo.Echo, port int, logger *logrus.Logger) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logger.Fatalf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
