package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/accessjobs/config"
)

// InitLogger installs the default slog logger on stdout. Call it again after
// LoadConfig to apply LOG_LEVEL and LOG_FORMAT.
func InitLogger(cfg config.LoggingConfig) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	cfg.Sanitize()
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// LoadConfig reads an optional .env file and then parses the environment.
// A missing .env file is not an error.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig checks that SERVICES names at least one known mode.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	if _, err := cfg.GetEnabledServices(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	return nil
}

// GetEnabledServices lists the enabled service modes in declaration order.
// An invalid SERVICES value yields an empty list; ValidateServiceConfig reports it.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return []string{}
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return []string{}
	}

	out := make([]string, 0, len(services))
	for _, mode := range config.ValidServiceModes() {
		if services[mode] {
			out = append(out, string(mode))
		}
	}
	return out
}
