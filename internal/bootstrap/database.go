package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/database/migrations"
)

// ApplyDatabaseMigrations runs database migrations when enabled via configuration.
func ApplyDatabaseMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "COURSES_DB_RUN_MIGRATIONS=false"))
		return nil
	}

	return Migrate(ctx, db, logger)
}

// Migrate registers and runs every schema migration unconditionally.
func Migrate(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	RegisterMigrations()

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied successfully")
	return nil
}
