package auth

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/utils/jwt"
)

type LoginInput struct {
	Username string
	Password string
}

type AuthResponse struct {
	User        *user.User `json:"user"`
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	ExpiresAt   time.Time  `json:"expiresAt"`
}

type TokenConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
}

// Login authenticates a user and issues an access token.
func Login(db *gorm.DB, input LoginInput, cfg TokenConfig) (*AuthResponse, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	usr, err := user.GetByUsername(db, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !usr.ComparePassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	if !usr.Active {
		return nil, ErrInactiveAccount
	}

	token, expiresAt, err := jwt.GenerateAccessToken(usr.ID, usr.Username, cfg.JWTSecret, cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        &usr,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
