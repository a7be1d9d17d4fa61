package request

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hqtest/courses-server/pkg/apperrors"
)

// UUIDParam reads a path parameter and parses it as a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid ID format", fmt.Errorf("%s: %w", name, err))
	}
	return id, nil
}

// BindJSON binds the request body and converts binding failures into a validation AppError.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Validation("Invalid request body", err)
	}
	return nil
}
