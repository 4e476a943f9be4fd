// Package cli holds the bootstrap steps shared by cmd/ledger,
// cmd/ledger-worker and cmd/ledger-cli.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/config"
	applog "ledger/internal/log"
)

// ConfigFileEnv names the optional YAML configuration file.
const ConfigFileEnv = "LEDGER_CONFIG_FILE"

// SetupLogger builds the process logger from a level name and installs it
// as the slog default. Unknown levels fall back to info.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	if lvl, err := applog.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads LEDGER_CONFIG_FILE (when set) and the environment, then
// validates the result.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(os.Getenv(ConfigFileEnv))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig is LoadConfig for long-running binaries: it exits the
// process on failure and re-levels the logger from the loaded configuration.
func LoadAndValidateConfig(logger *applog.Logger) (*config.Config, *applog.Logger) {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, SetupLogger(cfg.LogLevel)
}

// Bootstrap runs the usual startup sequence and returns the configuration and logger.
func Bootstrap() (*config.Config, *applog.Logger) {
	LoadEnvFile()
	return LoadAndValidateConfig(SetupLogger(os.Getenv("LOG_LEVEL")))
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
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

// RunCleanup runs cleanup with a deadline, logging when it does not finish in time.
func RunCleanup(logger *applog.Logger, timeout time.Duration, cleanup func() error) {
	if cleanup == nil {
		return
	}
	done := make(chan error, 1)
	go func() { done <- cleanup() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("Cleanup failed", applog.FieldError, err)
			return
		}
		logger.Info("Shutdown complete")
	case <-time.After(timeout):
		logger.Warn("Shutdown timeout reached", "timeout", fmt.Sprint(timeout))
	}
}
