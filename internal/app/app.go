// Package app wires configuration, storage, clients, and services.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phalouvas/cognitive-folio/internal/clients/gemini"
	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/services/period"
	"github.com/phalouvas/cognitive-folio/internal/services/prompt"
	"github.com/phalouvas/cognitive-folio/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	GeminiClient  interfaces.GeminiClient
	PeriodService interfaces.PeriodService
	PromptService interfaces.PromptService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	periodService := period.NewService(store.Periods(), logger)
	formatter := period.NewFormatter()
	reporter := common.NewReporter(logger)

	promptService := prompt.NewService(
		store.Securities(),
		store.Portfolios(),
		periodService,
		formatter,
		reporter,
		logger,
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       store,
		PeriodService: periodService,
		PromptService: promptService,
		StartupTime:   time.Now(),
	}

	// Gemini is optional: without an API key, prompt expansion still works
	// and only the run endpoint is unavailable.
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable (continuing without AI generation)")
		} else {
			a.GeminiClient = client
		}
	}

	return a, nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.GeminiClient != nil {
		if err := a.GeminiClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Gemini client close failed")
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
