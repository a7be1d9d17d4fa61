package catalog_test

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

func TestStudentEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	engine := routes.NewEngine(testutil.Config(), db, logger.Discard(), cache.NewMemoryCache())

	owner := testutil.CreateAdmin(t, db, "owner")
	alice := testutil.CreateStudent(t, db, "alice")
	granted := testutil.CreateProduct(t, db, owner.ID, "Go")
	notGranted := testutil.CreateProduct(t, db, owner.ID, "Rust")
	testutil.CreateLesson(t, db, "Intro", 100, granted.ID)
	testutil.Grant(t, db, alice.ID, granted.ID)

	cases := []struct {
		name   string
		path   string
		auth   bool
		status int
	}{
		{"list anonymous", "/api/product_access", false, http.StatusForbidden},
		{"detail anonymous", "/api/product_access/" + granted.ID.String(), false, http.StatusForbidden},
		{"list", "/api/product_access", true, http.StatusOK},
		{"detail", "/api/product_access/" + granted.ID.String(), true, http.StatusOK},
		{"detail without grant", "/api/product_access/" + notGranted.ID.String(), true, http.StatusNotFound},
		{"detail bad id", "/api/product_access/nope", true, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.auth {
				testutil.Authorize(t, req, alice)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status != http.StatusOK {
				assert.NotContains(t, w.Body.String(), `"data"`)
			} else {
				assert.Contains(t, w.Body.String(), `"lessonName":"Intro"`)
			}
		})
	}
}
