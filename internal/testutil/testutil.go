// Package testutil provides a migrated in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/bootstrap"
	"github.com/hqtest/courses-server/internal/features/lesson"
	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/utils/jwt"
	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/database"
	"github.com/hqtest/courses-server/pkg/logger"
	"github.com/hqtest/courses-server/pkg/types"
)

const (
	JWTSecret = "test-secret"
	Password  = "password123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Config returns a configuration suitable for handler tests.
func Config() *config.Config {
	return &config.Config{
		Env:       "test",
		JWTSecret: JWTSecret,
		JWTExpiry: time.Hour,
		RateLimit: 1000,
	}
}

// NewDB opens a private in-memory SQLite database with the production schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		// A named shared-cache database lives as long as one connection stays open.
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}

	db, err := database.ConnectWithRetry(context.Background(), cfg, logger.Discard(), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db, logger.Discard()) })

	require.NoError(t, bootstrap.Migrate(context.Background(), db, logger.Discard()))
	return db
}

// CreateUser stores an active user with the shared test password.
func CreateUser(t *testing.T, db *gorm.DB, username string, userType types.UserType) user.User {
	t.Helper()
	usr, err := user.Create(db, user.CreateInput{Username: username, Password: Password, UserType: userType})
	require.NoError(t, err)
	return usr
}

// CreateStudent stores an active student.
func CreateStudent(t *testing.T, db *gorm.DB, username string) user.User {
	t.Helper()
	return CreateUser(t, db, username, types.UserTypeStudent)
}

// CreateAdmin stores an active administrator.
func CreateAdmin(t *testing.T, db *gorm.DB, username string) user.User {
	t.Helper()
	return CreateUser(t, db, username, types.UserTypeAdmin)
}

// CreateProduct stores a product owned by ownerID.
func CreateProduct(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) product.Product {
	t.Helper()
	p, err := product.Create(db, product.CreateInput{OwnerID: ownerID, Name: name})
	require.NoError(t, err)
	return p
}

// CreateLesson stores a lesson linked to the given products.
func CreateLesson(t *testing.T, db *gorm.DB, name string, durationSeconds int, productIDs ...uuid.UUID) lesson.Lesson {
	t.Helper()
	l, err := lesson.Create(db, lesson.CreateInput{
		Name:            name,
		VideoLink:       "https://videos.example.com/" + uuid.NewString(),
		DurationSeconds: durationSeconds,
		ProductIDs:      productIDs,
	})
	require.NoError(t, err)
	return l
}

// Grant gives userID access to productID.
func Grant(t *testing.T, db *gorm.DB, userID, productID uuid.UUID) {
	t.Helper()
	_, _, err := productaccess.Grant(db, userID, productID)
	require.NoError(t, err)
}

// Token issues a valid access token for usr.
func Token(t *testing.T, usr user.User) string {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(usr.ID, usr.Username, JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// Authorize sets a bearer token for usr on req.
func Authorize(t *testing.T, req *http.Request, usr user.User) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+Token(t, usr))
}
