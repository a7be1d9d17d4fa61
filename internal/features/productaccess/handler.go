package productaccess

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler processes access grant HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs an access handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// ListByProduct returns the grants on a product.
func (h *Handler) ListByProduct(c *gin.Context) {
	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	accesses, err := ListForProduct(h.db.WithContext(c.Request.Context()), productID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list access grants", err)
		return
	}

	response.Success(c, http.StatusOK, accesses, "", nil)
}

type grantRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// Grant gives a user access to the product. Answers 201 for a new grant and 200
// when the grant already existed.
func (h *Handler) Grant(c *gin.Context) {
	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req grantRequest
	if err := request.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	access, created, err := Grant(h.db.WithContext(c.Request.Context()), req.UserID, productID)
	if err != nil {
		h.respondError(c, err, "failed to grant access")
		return
	}

	if created {
		h.logger.InfoContext(c.Request.Context(), "product access granted",
			slog.String("user_id", req.UserID.String()),
			slog.String("product_id", productID.String()),
		)
		response.Created(c, access, "Access granted")
		return
	}

	response.Success(c, http.StatusOK, access, "Access already granted", nil)
}

// Revoke removes a user's access to the product.
func (h *Handler) Revoke(c *gin.Context) {
	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	userID, err := request.UUIDParam(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := Revoke(h.db.WithContext(c.Request.Context()), userID, productID); err != nil {
		h.respondError(c, err, "failed to revoke access")
		return
	}

	response.Success(c, http.StatusOK, nil, "Access revoked", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAccessNotFound):
		response.Error(c, http.StatusNotFound, "Access grant not found", nil)
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusBadRequest, "User not found", nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
