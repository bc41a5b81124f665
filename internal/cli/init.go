// Package cli provides the startup and shutdown plumbing of cmd/chitieu.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chitieu/internal/config"
	"chitieu/internal/log"
)

// LoadConfig reads .env files (if any) and the environment, then validates
// the result.
func LoadConfig(envFiles ...string) (*config.Config, error) {
	config.LoadDotEnv(envFiles...)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. A nil out writes to stdout.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownStep is one named action run during graceful shutdown.
type ShutdownStep struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Shutdown runs every step in order under a shared timeout. A failing step
// does not stop the remaining ones; all failures are joined.
func Shutdown(logger *log.Logger, timeout time.Duration, steps ...ShutdownStep) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, step := range steps {
		if err := step.Fn(ctx); err != nil {
			logger.Error("Shutdown step failed", "step", step.Name, log.FieldError, err)
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
			continue
		}
		logger.Debug("Shutdown step complete", "step", step.Name)
	}
	if ctx.Err() != nil {
		logger.Warn("Shutdown timeout reached")
	}
	return errors.Join(errs...)
}
