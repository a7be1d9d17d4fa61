package stats

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler serves the administrator product statistics.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a statistics handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns every product with its statistics.
func (h *Handler) List(c *gin.Context) {
	rows, err := All(h.db.WithContext(c.Request.Context()))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to compute product statistics", err)
		return
	}

	response.SuccessNoStore(c, http.StatusOK, rows, "")
}

// GetByID returns the statistics of one product.
func (h *Handler) GetByID(c *gin.Context) {
	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	row, err := ForProduct(h.db.WithContext(c.Request.Context()), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found", nil)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to compute product statistics", err)
		return
	}

	response.SuccessNoStore(c, http.StatusOK, row, "")
}
