package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInactiveAccount    = errors.New("your account is inactive. Please contact support")
)
