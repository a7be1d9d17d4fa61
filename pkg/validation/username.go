package validation

import (
	"errors"
	"regexp"
	"strings"
)

// MaxUsernameLength mirrors the users.username column size.
const MaxUsernameLength = 150

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username must be at most 150 characters")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits and @ . + - _")

	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
)

// NormalizeUsername trims the value and checks the allowed character set.
func NormalizeUsername(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return "", ErrUsernameRequired
	case len([]rune(trimmed)) > MaxUsernameLength:
		return "", ErrUsernameTooLong
	case !usernameRegex.MatchString(trimmed):
		return "", ErrUsernameInvalid
	}
	return trimmed, nil
}
