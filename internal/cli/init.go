// Package cli provides common initialization for the bujet commands: env
// loading, logging, configuration, backend construction and credential
// resolution.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bujet/internal/api"
	"bujet/internal/backend"
	"bujet/internal/config"
	"bujet/internal/log"
)

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the configured level and
// installs it as the process default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     parseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitBackend builds the configured data backend. Returns the backend result
// or exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	return result
}

// ResolveCredentials produces the credentials every API call will carry.
// Pre-authenticated backends (memory) supply their own; otherwise an explicit
// id/token pair wins, then a username/password sign-in.
func ResolveCredentials(ctx context.Context, result *backend.BackendResult, cfg *config.Config) (api.Credentials, error) {
	if result.Credentials != nil {
		return *result.Credentials, nil
	}
	if cfg.UserID != "" && cfg.UserToken != "" {
		return api.Credentials{UserID: cfg.UserID, Token: cfg.UserToken}, nil
	}
	if cfg.Username != "" && cfg.Password != "" {
		user, err := result.Backend.SignIn(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return api.Credentials{}, fmt.Errorf("sign in as %s: %w", cfg.Username, err)
		}
		return api.Credentials{UserID: user.ID, Token: user.Token}, nil
	}
	return api.Credentials{}, fmt.Errorf("no credentials configured")
}
