package lessonview_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/http/routes"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/logger"
)

type progressEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		ViewedTimeSeconds int  `json:"viewedTimeSeconds"`
		Watched           bool `json:"watched"`
	} `json:"data"`
}

func TestUpdateProgressEndpoint(t *testing.T) {
	db := testutil.NewDB(t)
	engine := routes.NewEngine(testutil.Config(), db, logger.Discard(), cache.NewMemoryCache())

	owner := testutil.CreateAdmin(t, db, "owner")
	student := testutil.CreateStudent(t, db, "student")
	outsider := testutil.CreateStudent(t, db, "outsider")
	p := testutil.CreateProduct(t, db, owner.ID, "Go")
	l := testutil.CreateLesson(t, db, "Intro", 600, p.ID)
	testutil.Grant(t, db, student.ID, p.ID)

	put := func(body string, authorize func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/lessons/"+l.ID.String()+"/progress", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if authorize != nil {
			authorize(req)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}
	as := func(header string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set("Authorization", header) }
	}

	w := put(`{"viewedTimeSeconds":480}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = put(`{"viewedTimeSeconds":480}`, as("Bearer not-a-token"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = put(`{"viewedTimeSeconds":480}`, as("Bearer "+testutil.Token(t, outsider)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = put(`{"viewedTimeSeconds":-5}`, as("Bearer "+testutil.Token(t, student)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = put(`{}`, as("Bearer "+testutil.Token(t, student)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = put(`{"viewedTimeSeconds":480}`, as("Bearer "+testutil.Token(t, student)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env progressEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 480, env.Data.ViewedTimeSeconds)
	assert.True(t, env.Data.Watched)

	req := httptest.NewRequest(http.MethodGet, "/api/lessons/"+l.ID.String()+"/progress", nil)
	testutil.Authorize(t, req, student)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
