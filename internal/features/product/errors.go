package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOwnerNotFound   = errors.New("owner not found")
	ErrNameRequired    = errors.New("name is required")
	ErrNameTooLong     = errors.New("name must be at most 255 characters")
)
