package stats_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/features/stats"
	"github.com/hqtest/courses-server/internal/http/routes"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/logger"
)

func TestAllProductsEndpointRequiresAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	engine := routes.NewEngine(testutil.Config(), db, logger.Discard(), cache.NewMemoryCache())

	admin := testutil.CreateAdmin(t, db, "admin")
	student := testutil.CreateStudent(t, db, "student")
	p := testutil.CreateProduct(t, db, admin.ID, "Go")
	testutil.Grant(t, db, student.ID, p.ID)

	get := func(path string, authorize func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authorize != nil {
			authorize(req)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := get("/api/all_products", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), `"data"`)

	w = get("/api/all_products", func(r *http.Request) { testutil.Authorize(t, r, student) })
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), `"data"`)

	w = get("/api/all_products", func(r *http.Request) { testutil.Authorize(t, r, admin) })
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data []stats.ProductStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, p.ID, env.Data[0].ID)
	assert.Equal(t, 50.0, env.Data[0].PercentageOfPurchase)
	assert.Equal(t, admin.ID, env.Data[0].OwnerID)
	assert.Equal(t, "admin", env.Data[0].Owner)
	assert.Contains(t, w.Body.String(), `"totalStudentsWithAccess":1`)

	w = get("/api/all_products/"+p.ID.String(), func(r *http.Request) { testutil.Authorize(t, r, admin) })
	assert.Equal(t, http.StatusOK, w.Code)

	w = get("/api/all_products/"+uuid.NewString(), func(r *http.Request) { testutil.Authorize(t, r, admin) })
	assert.Equal(t, http.StatusNotFound, w.Code)
}
