package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hqtest/courses-server/internal/http/routes"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/logger"
)

func TestEngineOperationalRoutes(t *testing.T) {
	db := testutil.NewDB(t)
	engine := routes.NewEngine(testutil.Config(), db, logger.Discard(), cache.NewMemoryCache())

	cases := []struct {
		path     string
		want     int
		contains string
	}{
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/ready", http.StatusOK, `"cache":"ok"`},
		{"/version", http.StatusOK, `"git_commit"`},
		{"/debug/db-stats", http.StatusOK, `"open_connections"`},
		{"/metrics", http.StatusOK, "http_requests_total"},
		{"/api/nowhere", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tc.contains != "" {
				assert.Contains(t, w.Body.String(), tc.contains)
			}
		})
	}
}

func TestEngineHidesDebugRoutesInProduction(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.Env = "production"
	engine := routes.NewEngine(cfg, db, logger.Discard(), cache.NewMemoryCache())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/db-stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
