package lessonview

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/middleware"
	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
)

// Handler processes progress reports from authenticated callers.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a progress handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

type progressRequest struct {
	ViewedTimeSeconds *int `json:"viewedTimeSeconds" binding:"required"`
}

// UpdateProgress records how far the caller got into a lesson. Lessons outside the
// caller's products are reported as not found.
func (h *Handler) UpdateProgress(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "Authentication credentials were not provided.", nil)
		return
	}

	lessonID, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid progress payload", err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	allowed, err := productaccess.HasLessonAccess(db, usr.ID, lessonID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to check lesson access", err)
		return
	}
	if !allowed {
		response.Error(c, http.StatusNotFound, "Lesson not found", nil)
		return
	}

	view, err := RecordProgress(db, usr.ID, lessonID, *req.ViewedTimeSeconds)
	if err != nil {
		h.respondError(c, err, "failed to record progress")
		return
	}

	response.Success(c, http.StatusOK, view, "", nil)
}

// GetProgress returns the caller's view of a lesson.
func (h *Handler) GetProgress(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "Authentication credentials were not provided.", nil)
		return
	}

	lessonID, err := request.UUIDParam(c, "lessonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	view, err := GetForUser(h.db.WithContext(c.Request.Context()), usr.ID, lessonID)
	if err != nil {
		h.respondError(c, err, "failed to load progress")
		return
	}

	response.SuccessNoStore(c, http.StatusOK, view, "")
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrViewNotFound):
		response.Error(c, http.StatusNotFound, "No progress recorded for this lesson", nil)
	case errors.Is(err, ErrLessonNotFound):
		response.Error(c, http.StatusNotFound, "Lesson not found", nil)
	case errors.Is(err, ErrNegativeViewedTime):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
