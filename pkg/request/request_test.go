package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/apperrors"
	"github.com/hqtest/courses-server/pkg/logger"
	"github.com/hqtest/courses-server/pkg/response"
)

func newRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Handler(logger.Discard()))
	r.GET("/items/:itemId", h)
	return r
}

func perform(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandlerRendersAppError(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("Product not found", nil))
	})

	w, env := perform(t, r, "/items/x")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Product not found", env.Message)
}

func TestHandlerClassifiesPlainErrors(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		_ = c.Error(errors.Join(errors.New("lookup"), gorm.ErrRecordNotFound))
	})
	w, _ := perform(t, r, "/items/x")
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("connection reset"))
	})
	w, env := perform(t, r, "/items/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, env.Error, "internal details must not leak")
}

func TestUUIDParam(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		id, err := UUIDParam(c, "itemId")
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, id.String(), "", nil)
	})

	w, env := perform(t, r, "/items/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", env.Message)

	w, env = perform(t, r, "/items/6f1c2b0e-8a4d-4f57-9a43-1d1d5e0c2f10")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f1c2b0e-8a4d-4f57-9a43-1d1d5e0c2f10", env.Data)
}
