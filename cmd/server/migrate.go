package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/redact"
)

// runMigrations opens the configured database and runs one goose command.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	// Use a correlation ID for all migration logs to allow tracing the entire operation
	migrationLogger := logger.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("component", "migrations"),
	)
	migrationLogger.Info("Using database URL", slog.String("url", redact.URL(cfg.Store.DatabaseURL)))

	db, err := postgres.Open(ctx, cfg.Store.DatabaseURL, connectTimeout)
	if err != nil {
		return errors.New(redact.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			migrationLogger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()

	if err := postgres.Migrate(ctx, db, command, migrationLogger); err != nil {
		return fmt.Errorf("%s", redact.Error(err))
	}
	return nil
}
