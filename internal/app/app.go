// Package app wires configuration, storage, clients and services into a
// runnable application core shared by cmd/navcalc-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/navcalc/internal/clients/mfapi"
	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/services/calculator"
	"github.com/bobmcallan/navcalc/internal/services/funds"
	"github.com/bobmcallan/navcalc/internal/services/scheme"
	"github.com/bobmcallan/navcalc/internal/storage"
)

// App holds all initialized clients and services.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	MFAPIClient       interfaces.MFAPIClient
	SchemeService     interfaces.SchemeService
	CalculatorService interfaces.CalculatorService
	FundsService      interfaces.FundsService
	StartupTime       time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, the provider client and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, NAVCALC_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("NAVCALC_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "navcalc.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/navcalc.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage and log paths to the binary directory
	if config.Storage.Cache.Path != "" && !filepath.IsAbs(config.Storage.Cache.Path) {
		config.Storage.Cache.Path = filepath.Join(binDir, config.Storage.Cache.Path)
	}
	if config.Storage.Funds.Path != "" && !filepath.IsAbs(config.Storage.Funds.Path) {
		config.Storage.Funds.Path = filepath.Join(binDir, config.Storage.Funds.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mfapiClient := mfapi.NewClient(
		mfapi.WithBaseURL(config.Clients.MFAPI.BaseURL),
		mfapi.WithRateLimit(config.Clients.MFAPI.RateLimit),
		mfapi.WithTimeout(config.Clients.MFAPI.GetTimeout()),
		mfapi.WithLogger(logger),
	)

	schemeService := scheme.NewService(mfapiClient, storageManager.SchemeCache(), logger)
	calculatorService := calculator.NewService(schemeService, logger)
	fundsService := funds.NewService(mfapiClient, storageManager.FundStore(), logger, config.Scheduler)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		MFAPIClient:       mfapiClient,
		SchemeService:     schemeService,
		CalculatorService: calculatorService,
		FundsService:      fundsService,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartSyncScheduler launches the background fund directory sync goroutine
// when enabled by configuration.
func (a *App) StartSyncScheduler() {
	if !a.Config.Scheduler.SyncEnabled {
		a.Logger.Info().Msg("Sync scheduler: disabled by configuration")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	go startSyncScheduler(ctx, a.FundsService, a.Logger, a.Config.Scheduler.GetSyncInterval())
}
