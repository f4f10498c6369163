// Package cli holds the start-up steps shared by cmd/splitter,
// cmd/splitter-worker and cmd/splitcalc.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"splitter/internal/backend"
	"splitter/internal/config"
	"splitter/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error; production sets the environment directly.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger at cfg.LogLevel, writing to out,
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: component, Output: out})
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err.Error())
	}
	log.SetDefault(logger)
	return logger
}

// LoadConfig reads the environment (after .env) and validates it.
func LoadConfig() (*config.Config, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig is LoadConfig for long-running binaries: a bad
// configuration is logged and the process exits.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	cfg, err := LoadConfig()
	if err != nil {
		logger := log.New(log.Config{Component: component, Output: os.Stderr})
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg, SetupLogger(cfg, component, os.Stdout)
}

// OpenStore creates the ledger store selected by DATA_BACKEND.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", bcfg.Type, err)
	}
	return res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
