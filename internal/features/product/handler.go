package product

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/pagination"
	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler processes product HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a product handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated products, optionally filtered by owner.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	filters := ListFilters{Keyword: strings.TrimSpace(c.Query("filterKeyword"))}

	if raw := c.Query("ownerId"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid owner id", err)
			return
		}
		filters.OwnerID = &ownerID
	}

	products, total, err := List(h.db.WithContext(c.Request.Context()), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, products, "", pagination.MetadataFrom(total, params))
}

type createRequest struct {
	OwnerID uuid.UUID `json:"ownerId" binding:"required"`
	Name    string    `json:"name" binding:"required"`
}

// Create inserts a new product.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid product payload", err)
		return
	}

	product, err := Create(h.db.WithContext(c.Request.Context()), CreateInput{
		OwnerID: req.OwnerID,
		Name:    req.Name,
	})
	if err != nil {
		h.respondError(c, err, "failed to create product")
		return
	}

	response.Created(c, product, "Product created successfully")
}

// GetByID returns a single product.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	product, err := Get(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		h.respondError(c, err, "failed to load product")
		return
	}

	response.Success(c, http.StatusOK, product, "", nil)
}

type updateRequest struct {
	OwnerID *uuid.UUID `json:"ownerId"`
	Name    *string    `json:"name"`
}

// Update changes the product name or owner.
func (h *Handler) Update(c *gin.Context) {
	id, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid product payload", err)
		return
	}

	product, err := Update(h.db.WithContext(c.Request.Context()), id, UpdateInput{
		OwnerID: req.OwnerID,
		Name:    req.Name,
	})
	if err != nil {
		h.respondError(c, err, "failed to update product")
		return
	}

	response.Success(c, http.StatusOK, product, "Product updated successfully", nil)
}

// Delete removes the product and its grants.
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	if err := Delete(h.db.WithContext(c.Request.Context()), id); err != nil {
		h.respondError(c, err, "failed to delete product")
		return
	}

	response.Success(c, http.StatusOK, nil, "Product deleted successfully", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, ErrOwnerNotFound):
		response.Error(c, http.StatusBadRequest, "Owner not found", nil)
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrNameTooLong):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
