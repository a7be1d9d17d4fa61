package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/pagination"
	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/response"
	"github.com/hqtest/courses-server/pkg/types"
	"github.com/hqtest/courses-server/pkg/validation"
)

// Handler processes user HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated users.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	filters := ListFilters{
		Keyword:  strings.TrimSpace(c.Query("filterKeyword")),
		UserType: types.UserType(c.Query("userType")),
	}

	users, total, err := List(h.db.WithContext(c.Request.Context()), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, users, "", pagination.MetadataFrom(total, params))
}

type createRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType"`
	Active   *bool  `json:"isActive"`
}

// Create inserts a new user.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	user, err := Create(h.db.WithContext(c.Request.Context()), CreateInput{
		Username: req.Username,
		Password: req.Password,
		UserType: types.UserType(req.UserType),
		Active:   req.Active,
	})
	if err != nil {
		h.respondError(c, err, "failed to create user")
		return
	}

	response.Created(c, user, "User created successfully")
}

// GetByID returns a single user.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.UUIDParam(c, "userId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	user, err := Get(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		h.respondError(c, err, "failed to load user")
		return
	}

	response.Success(c, http.StatusOK, user, "", nil)
}

type updateRequest struct {
	Password *string `json:"password"`
	UserType *string `json:"userType"`
	Active   *bool   `json:"isActive"`
}

// Update changes password, role or active flag.
func (h *Handler) Update(c *gin.Context) {
	id, err := request.UUIDParam(c, "userId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	input := UpdateInput{Password: req.Password, Active: req.Active}
	if req.UserType != nil {
		userType := types.UserType(*req.UserType)
		input.UserType = &userType
	}

	user, err := Update(h.db.WithContext(c.Request.Context()), id, input)
	if err != nil {
		h.respondError(c, err, "failed to update user")
		return
	}

	response.Success(c, http.StatusOK, user, "User updated successfully", nil)
}

// Delete removes a user and cascades to grants, views and owned products.
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.UUIDParam(c, "userId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	if err := Delete(h.db.WithContext(c.Request.Context()), id); err != nil {
		h.respondError(c, err, "failed to delete user")
		return
	}

	response.Success(c, http.StatusOK, nil, "User deleted successfully", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, ErrUsernameTaken):
		response.Error(c, http.StatusConflict, "Username already exists", nil)
	case errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidUserType),
		errors.Is(err, validation.ErrUsernameRequired),
		errors.Is(err, validation.ErrUsernameTooLong),
		errors.Is(err, validation.ErrUsernameInvalid):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
