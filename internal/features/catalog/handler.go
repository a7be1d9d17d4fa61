package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/middleware"
	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler serves the student-facing product views.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a catalog handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns every product the caller can access, one row per lesson.
func (h *Handler) List(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "Authentication credentials were not provided.", nil)
		return
	}

	rows, err := ListForUser(h.db.WithContext(c.Request.Context()), usr.ID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.SuccessNoStore(c, http.StatusOK, rows, "")
}

// GetByID returns the caller's rows for a single product.
func (h *Handler) GetByID(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "Authentication credentials were not provided.", nil)
		return
	}

	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	rows, err := DetailForUser(h.db.WithContext(c.Request.Context()), usr.ID, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Not found.", nil)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to retrieve product", err)
		return
	}

	response.SuccessNoStore(c, http.StatusOK, rows, "")
}
