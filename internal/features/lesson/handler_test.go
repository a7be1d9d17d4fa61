package lesson_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/http/routes"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/logger"
)

func TestLessonEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	engine := routes.NewEngine(testutil.Config(), db, logger.Discard(), cache.NewMemoryCache())
	admin := testutil.CreateAdmin(t, db, "admin")
	student := testutil.CreateStudent(t, db, "student")
	p := testutil.CreateProduct(t, db, admin.ID, "Course")

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		testutil.Authorize(t, req, admin)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/lessons",
		fmt.Sprintf(`{"name":"Intro","videoLink":"https://v.example.com/1","durationSeconds":300,"productIds":[%q]}`, p.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID         uuid.UUID   `json:"id"`
			ProductIDs []uuid.UUID `json:"productIds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, []uuid.UUID{p.ID}, created.Data.ProductIDs)
	lessonPath := "/api/lessons/" + created.Data.ID.String()

	w = send(http.MethodPost, "/api/lessons", `{"name":"Bad","videoLink":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPost, "/api/lessons", `{"name":"Bad","videoLink":"https://v.example.com/2","durationSeconds":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPost, "/api/lessons",
		fmt.Sprintf(`{"name":"Orphan","videoLink":"https://v.example.com/3","productIds":[%q]}`, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodGet, lessonPath, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodPut, lessonPath, `{"durationSeconds":600}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"durationSeconds":600`)

	w = send(http.MethodPost, lessonPath+"/products", `{"productIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodDelete, lessonPath+"/products/"+p.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodDelete, lessonPath+"/products/"+p.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(http.MethodPost, lessonPath+"/products", fmt.Sprintf(`{"productIds":[%q]}`, p.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodDelete, lessonPath, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodGet, lessonPath, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/lessons", nil)
	testutil.Authorize(t, req, student)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
