package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/products/:productId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:productId", "204"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:productId", "204"))

	assert.Equal(t, before+2, after)
}

func TestDomainCounters(t *testing.T) {
	created := testutil.ToFloat64(accessGrants.WithLabelValues("created"))
	existing := testutil.ToFloat64(accessGrants.WithLabelValues("existing"))

	RecordAccessGrant(true)
	RecordAccessGrant(false)
	RecordAccessGrant(false)

	assert.Equal(t, created+1, testutil.ToFloat64(accessGrants.WithLabelValues("created")))
	assert.Equal(t, existing+2, testutil.ToFloat64(accessGrants.WithLabelValues("existing")))

	watched := testutil.ToFloat64(progressUpdates.WithLabelValues("true"))
	RecordProgress(true)
	assert.Equal(t, watched+1, testutil.ToFloat64(progressUpdates.WithLabelValues("true")))
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())
	RecordAccessGrant(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courses_access_grants_total")
}
