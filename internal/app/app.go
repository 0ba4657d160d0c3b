// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/database"
	"github.com/tildaslashalef/sonarshift/internal/export"
	"github.com/tildaslashalef/sonarshift/internal/git"
	"github.com/tildaslashalef/sonarshift/internal/history"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/urfave/cli/v2"
)

// App represents the application instance with its dependencies
type App struct {
	Config   *config.Config
	Settings *config.SettingsService
	History  *history.Service
	Export   *export.Service
	Git      *git.Service
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	// Initialize configuration
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	app := initServices(cfg, db)

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "", false)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config, db *sql.DB) *App {
	logger := loggy.GetGlobalLogger()
	ctx := context.Background()

	settingsService := config.NewSettingsService(db, cfg, logger)
	settingsService.UseTransactions(database.WithTransaction)
	if err := settingsService.LoadSonarSettings(ctx); err != nil {
		// Continue with the environment values
		loggy.Warn("Failed to load sonar settings from database", "error", err)
	}

	historyService := history.NewService(db, logger)

	return &App{
		Config:   cfg,
		Settings: settingsService,
		History:  historyService,
		Export:   export.NewService(cfg, historyService, logger),
		Git:      git.NewService(logger),
	}
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
