package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/middleware"
	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
}

// NewHandler constructs an auth handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}
}

// Login authenticates a user and returns a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	authResp, err := Login(h.db.WithContext(c.Request.Context()), LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, h.getTokenConfig())
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	h.logger.InfoContext(c.Request.Context(), "user logged in", slog.String("user_id", authResp.User.ID.String()))
	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

// Me returns the account behind the bearer token.
func (h *Handler) Me(c *gin.Context) {
	caller, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "Authentication credentials were not provided.", nil)
		return
	}

	usr, err := user.Get(h.db.WithContext(c.Request.Context()), caller.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Error(c, http.StatusForbidden, "User inactive or deleted.", nil)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load account", err)
		return
	}

	response.SuccessNoStore(c, http.StatusOK, usr, "")
}

func (h *Handler) getTokenConfig() TokenConfig {
	return TokenConfig{
		JWTSecret:         h.cfg.JWTSecret,
		AccessTokenExpiry: h.cfg.JWTExpiry,
	}
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid username or password"
	case errors.Is(err, ErrMissingFields):
		status = http.StatusBadRequest
		message = "Missing required fields"
	case errors.Is(err, ErrInactiveAccount):
		status = http.StatusForbidden
		message = "Your account is inactive. Please contact support"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
