package productaccess

import "errors"

var (
	ErrAccessNotFound  = errors.New("access grant not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
)
