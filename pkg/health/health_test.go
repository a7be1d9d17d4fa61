package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/health"
	"github.com/hqtest/courses-server/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	db := testutil.NewDB(t)

	cases := []struct {
		name   string
		extras map[string]health.Pinger
		want   int
		status string
	}{
		{"all healthy", map[string]health.Pinger{"cache": pingFunc(func(context.Context) error { return nil })}, http.StatusOK, `"status":"ready"`},
		{"cache down", map[string]health.Pinger{"cache": pingFunc(func(context.Context) error { return errors.New("down") })}, http.StatusServiceUnavailable, `"cache":"unhealthy"`},
		{"no extras", nil, http.StatusOK, `"database":"ok"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := health.NewHandler(db, logger.Discard(), tc.extras)
			router := gin.New()
			router.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), tc.status)
		})
	}
}

func TestHealthAndVersion(t *testing.T) {
	h := health.NewHandler(nil, logger.Discard(), nil)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/version", h.Version)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"dev"`)
}
