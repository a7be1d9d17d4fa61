package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
	ErrInvalidUserType = errors.New("invalid user type")
)
