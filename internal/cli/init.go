// Package cli implements the fintrack command line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and sets it as the
// default logger.
func SetupLogger(cfg *config.Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore creates the configured persistence backend and loads the
// transaction collection from it. The returned cleanup releases the backend.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger, rec *metrics.Recorder, clock func() time.Time) (*store.Store, func() error, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}

	opts := []store.Option{store.WithLogger(logger), store.WithMetrics(rec)}
	if clock != nil {
		opts = append(opts, store.WithClock(clock))
	}
	st := store.New(res.Persister, opts...)
	if err := st.Load(ctx); err != nil {
		_ = res.Close()
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	logger.Debug("Opened transaction store",
		log.FieldBackend, bcfg.Type.String(),
		log.FieldCount, st.Len())
	return st, res.Close, nil
}
