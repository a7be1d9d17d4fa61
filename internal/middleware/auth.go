package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/utils/jwt"
	"github.com/hqtest/courses-server/pkg/response"
	"github.com/hqtest/courses-server/pkg/types"
)

const (
	userContextKey   = "user"
	userIDContextKey = "userId"
)

// User is the authenticated caller as loaded from the users table.
type User struct {
	ID       uuid.UUID      `gorm:"column:id;primaryKey"`
	Username string         `gorm:"column:username"`
	UserType types.UserType `gorm:"column:user_type"`
	Active   bool           `gorm:"column:is_active"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the caller holds administrator privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.UserType.IsStaff()
}

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
	logger    *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(db *gorm.DB, jwtSecret string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// AuthenticateToken validates the bearer token and loads the caller into the context.
// Every failure (missing, malformed or expired token, unknown or inactive user) is
// answered with 403 so anonymous callers never see data.
func (m *AuthMiddleware) AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without administrator privileges. It must run after
// AuthenticateToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := GetUserFromContext(c)
		if !ok {
			forbid(c, "Authentication credentials were not provided.")
			return
		}
		if !usr.IsAdmin() {
			m.logger.WarnContext(c.Request.Context(), "admin route denied",
				slog.String("user_id", usr.ID.String()),
				slog.String("path", c.FullPath()),
			)
			forbid(c, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// Authenticated is the handler chain for any signed-in caller.
func (m *AuthMiddleware) Authenticated() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.AuthenticateToken()}
}

// AdminOnly is the handler chain for administrator routes.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.AuthenticateToken(), m.RequireAdmin()}
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*User, bool) {
	userVal, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}

	if usr, ok := userVal.(*User); ok && usr != nil {
		return usr, true
	}

	return nil, false
}

// SetUser stores the caller on the context. Exposed for tests and alternative authenticators.
func SetUser(c *gin.Context, usr *User) {
	c.Set(userContextKey, usr)
	c.Set(userIDContextKey, usr.ID)
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (*User, bool) {
	if usr, ok := GetUserFromContext(c); ok {
		return usr, true
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		forbid(c, "Authentication credentials were not provided.")
		return nil, false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		forbid(c, "Authentication credentials were not provided.")
		return nil, false
	}

	claims, err := jwt.VerifyToken(token, m.jwtSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			forbid(c, "Token expired")
		} else {
			forbid(c, "Invalid token")
		}
		return nil, false
	}

	var usr User
	if err := m.db.WithContext(c.Request.Context()).
		First(&usr, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			forbid(c, "Invalid token")
		} else {
			response.ErrorWithLog(m.logger, c, http.StatusInternalServerError, "Internal Server Error", err)
			c.Abort()
		}
		return nil, false
	}

	if !usr.Active {
		forbid(c, "User inactive or deleted.")
		return nil, false
	}

	SetUser(c, &usr)
	return &usr, true
}

func forbid(c *gin.Context, message string) {
	response.Error(c, http.StatusForbidden, message, nil)
	c.Abort()
}
