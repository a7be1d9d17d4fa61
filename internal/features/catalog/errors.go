package catalog

import "errors"

// ErrProductNotFound covers both unknown products and products the caller holds no grant for.
var ErrProductNotFound = errors.New("product not found")
