package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/types"
)

// EnsureDefaultAdmin creates or synchronizes the configured administrator account.
// Nothing happens unless both username and password are configured.
func EnsureDefaultAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig, logger *slog.Logger) error {
	if !admin.Enabled() {
		logger.Debug("default admin not configured")
		return nil
	}

	db = db.WithContext(ctx)

	existing, err := user.GetByUsername(db, admin.Username)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		_, createErr := user.Create(db, user.CreateInput{
			Username: admin.Username,
			Password: admin.Password,
			UserType: types.UserTypeSuperAdmin,
		})
		if createErr != nil {
			if isUndefinedTableError(createErr) {
				logger.Warn("default admin skipped - users table missing", slog.String("username", admin.Username))
				return nil
			}
			return fmt.Errorf("create default admin: %w", createErr)
		}

		logger.Info("default admin created", slog.String("username", admin.Username))
		return nil

	case err != nil:
		if isUndefinedTableError(err) {
			logger.Warn("default admin skipped - users table missing", slog.String("username", admin.Username))
			return nil
		}
		return fmt.Errorf("get default admin: %w", err)
	}

	update := user.UpdateInput{}
	changed := false

	if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(admin.Password)) != nil {
		update.Password = &admin.Password
		changed = true
	}

	if !existing.UserType.IsStaff() {
		superAdmin := types.UserTypeSuperAdmin
		update.UserType = &superAdmin
		changed = true
	}

	if !existing.Active {
		active := true
		update.Active = &active
		changed = true
	}

	if !changed {
		logger.Info("default admin already up to date", slog.String("username", admin.Username))
		return nil
	}

	if _, err := user.Update(db, existing.ID, update); err != nil {
		return fmt.Errorf("update default admin: %w", err)
	}

	logger.Info("default admin synchronized", slog.String("username", admin.Username))
	return nil
}

func isUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}

	message := err.Error()
	return strings.Contains(message, "relation \"users\" does not exist") ||
		strings.Contains(message, "no such table: users")
}
