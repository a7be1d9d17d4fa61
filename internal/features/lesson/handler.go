package lesson

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

// Handler processes lesson HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a lesson handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated lessons, optionally only those of one product.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	filters := ListFilters{Keyword: strings.TrimSpace(c.Query("filterKeyword"))}

	if raw := c.Query("productId"); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid product id", err)
			return
		}
		filters.ProductID = &productID
	}

	lessons, total, err := List(h.db.WithContext(c.Request.Context()), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list lessons", err)
		return
	}

	response.Success(c, http.StatusOK, lessons, "", pagination.MetadataFrom(total, params))
}

type createRequest struct {
	Name            string      `json:"name" binding:"required"`
	VideoLink       string      `json:"videoLink" binding:"required,url"`
	DurationSeconds int         `json:"durationSeconds" binding:"min=0"`
	ProductIDs      []uuid.UUID `json:"productIds"`
}

// Create inserts a lesson and optionally links it to products.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson payload", err)
		return
	}

	lesson, err := Create(h.db.WithContext(c.Request.Context()), CreateInput{
		Name:            req.Name,
		VideoLink:       req.VideoLink,
		DurationSeconds: req.DurationSeconds,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		h.respondError(c, err, "failed to create lesson")
		return
	}

	response.Created(c, lesson, "Lesson created successfully")
}

// GetByID returns a single lesson.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	lesson, err := Get(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		h.respondError(c, err, "failed to load lesson")
		return
	}

	response.Success(c, http.StatusOK, lesson, "", nil)
}

type updateRequest struct {
	Name            *string `json:"name"`
	VideoLink       *string `json:"videoLink" binding:"omitempty,url"`
	DurationSeconds *int    `json:"durationSeconds" binding:"omitempty,min=0"`
}

// Update changes lesson attributes.
func (h *Handler) Update(c *gin.Context) {
	id, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson payload", err)
		return
	}

	lesson, err := Update(h.db.WithContext(c.Request.Context()), id, UpdateInput{
		Name:            req.Name,
		VideoLink:       req.VideoLink,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		h.respondError(c, err, "failed to update lesson")
		return
	}

	response.Success(c, http.StatusOK, lesson, "Lesson updated successfully", nil)
}

// Delete removes a lesson and its views.
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	if err := Delete(h.db.WithContext(c.Request.Context()), id); err != nil {
		h.respondError(c, err, "failed to delete lesson")
		return
	}

	response.Success(c, http.StatusOK, nil, "Lesson deleted successfully", nil)
}

type attachRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" binding:"required,min=1"`
}

// AttachProducts links the lesson to more products.
func (h *Handler) AttachProducts(c *gin.Context) {
	id, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid attach payload", err)
		return
	}

	lesson, err := AttachProducts(h.db.WithContext(c.Request.Context()), id, req.ProductIDs)
	if err != nil {
		h.respondError(c, err, "failed to attach products")
		return
	}

	response.Success(c, http.StatusOK, lesson, "Products attached successfully", nil)
}

// DetachProduct unlinks the lesson from one product.
func (h *Handler) DetachProduct(c *gin.Context) {
	lessonID, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}
	productID, err := request.UUIDParam(c, "productId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	if err := DetachProduct(h.db.WithContext(c.Request.Context()), lessonID, productID); err != nil {
		h.respondError(c, err, "failed to detach product")
		return
	}

	response.Success(c, http.StatusOK, nil, "Product detached successfully", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLessonNotFound):
		response.Error(c, http.StatusNotFound, "Lesson not found", nil)
	case errors.Is(err, ErrProductNotLinked):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrNameTooLong),
		errors.Is(err, ErrInvalidVideoLink),
		errors.Is(err, ErrNegativeDuration):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
