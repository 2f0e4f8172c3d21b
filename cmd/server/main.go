// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	_ "bee-counter/docs"
	"bee-counter/internal/broadcast"
	"bee-counter/internal/config"
	"bee-counter/internal/discovery"
	"bee-counter/internal/reader"
	"bee-counter/internal/routes"
	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

const shutdownTimeout = 30 * time.Second

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	broadcaster    *broadcast.Broadcaster
	enumerator     *discovery.Enumerator
	reader         *reader.Reader
	monitorService *service.MonitorService
}

// @title Bee Counter API
// @version 1.0.0
// @description Serial acquisition service for hive entrance counters. Decodes the 32 gate signals and streams them over WebSocket.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8085
// @BasePath /api/v1
func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	pflag.Parse()

	app, err := NewApplication(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "bee-counter")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	app.initializeAcquisition()
	app.initializeServices()
	app.initializeServer()

	return app, nil
}

// initializeAcquisition creates the broadcaster, port enumerator and reader
func (app *Application) initializeAcquisition() {
	app.broadcaster = broadcast.NewBroadcaster(app.config.Broadcast.SubscriberBuffer, app.logger)
	app.enumerator = discovery.NewEnumerator(app.logger)
	app.reader = service.NewReaderFromConfig(app.config, app.broadcaster, reader.Options{
		ValidBaudRate: discovery.IsStandardBaudRate,
	}, app.logger)

	app.logger.Info("Acquisition initialized",
		zap.String("port", app.config.Serial.Port),
		zap.Int("baud_rate", app.config.Serial.BaudRate),
		zap.Duration("poll_interval", app.reader.PollInterval()),
		zap.Int("subscriber_buffer", app.config.Broadcast.SubscriberBuffer),
	)
}

// initializeServices creates service instances
func (app *Application) initializeServices() {
	app.monitorService = service.NewMonitorService(
		app.reader,
		app.broadcaster,
		app.enumerator,
		app.config,
		app.logger,
	)

	app.logger.Info("Services initialized successfully")
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.monitorService,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      routerManager.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// Start serves HTTP, optionally starts the reader and blocks until a
// shutdown signal arrives
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// a port that cannot be opened at boot is not fatal; it can be started
	// later through the API
	if err := app.monitorService.AutoStart(context.Background()); err != nil {
		app.logger.Warn("Auto start failed", zap.Error(err))
	}

	app.waitForShutdown()
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown stops the reader first so the port is released before the
// process exits, then closes event streams and the HTTP server
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.monitorService.Shutdown(ctx); err != nil {
		app.logger.Error("Reader shutdown error", zap.Error(err))
	} else {
		app.logger.Info("Reader stopped")
	}

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
