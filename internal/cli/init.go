// Package cli provides common CLI initialization utilities shared by the
// finanzplan commands: logging, .env loading, configuration and the store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finanzplan/internal/backend"
	"finanzplan/internal/config"
	"finanzplan/internal/ledger"
	"finanzplan/internal/log"
)

// SetupLogger initializes structured logging on w at the given level name
// and makes it the default logger.
func SetupLogger(w io.Writer, level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = log.ComponentCLI
	if w != nil {
		cfg.Output = w
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local use.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is everything a command needs to run.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Ledger  *ledger.Service
	backend *backend.BackendResult
}

// Open builds the configured store and the ledger on top of it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", bcfg.Type, err)
	}

	svcCfg := ledger.DefaultServiceConfig()
	svcCfg.LegacySentinel = cfg.LegacySentinelMonth
	return &App{
		Config:  cfg,
		Logger:  logger,
		Ledger:  ledger.NewService(res.Store, svcCfg, logger),
		backend: res,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.backend.Close()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
