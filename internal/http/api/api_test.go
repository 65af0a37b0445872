package api

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/db"
)

func serve(h HandlerFunc, target string, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	SetupValidation()
	r := gin.New()
	r.POST("/x", ResolveEndpoint(h))
	r.GET("/x", ResolveEndpoint(h))
	method := http.MethodGet
	var req *http.Request
	if body != "" {
		method = http.MethodPost
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWriteStatusCodes(t *testing.T) {
	w := serve(func(ctx *gin.Context) (any, *APIError) { return nil, nil }, "/x", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(func(ctx *gin.Context) (any, *APIError) { return Created(gin.H{"id": 1}), nil }, "/x", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = serve(func(ctx *gin.Context) (any, *APIError) { return nil, Conflict("taken") }, "/x", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"taken"}`, w.Body.String())
}

func TestParseListQuery(t *testing.T) {
	var got db.ListQuery
	h := func(ctx *gin.Context) (any, *APIError) {
		q, apiErr := ParseListQuery(ctx)
		got = q
		return nil, apiErr
	}

	w := serve(h, "/x?q=hope&sort=title&order=desc&page=0&per_page=1000", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, db.ListQuery{Search: "hope", Sort: "title", Desc: true, Page: 1, PerPage: db.MaxPerPage}, got)

	assert.Equal(t, http.StatusBadRequest, serve(h, "/x?order=up", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/x?page=two", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/x?per_page=many", "").Code)
}

func TestStoreError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StoreError(sql.ErrNoRows, "event").Code)
	assert.Equal(t, "event not found", StoreError(sql.ErrNoRows, "event").Message)
	assert.Equal(t, http.StatusConflict, StoreError(db.ErrDuplicate, "theme").Code)

	internal := StoreError(errors.New("pq: connection refused"), "event")
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.NotContains(t, internal.Message, "pq")
}

type bindTarget struct {
	Title string  `json:"title" binding:"required,notblank"`
	Cron  *string `json:"cron"  binding:"omitempty,cron"`
}

func TestBindJSONFieldErrors(t *testing.T) {
	h := func(ctx *gin.Context) (any, *APIError) {
		var dst bindTarget
		if apiErr := BindJSON(ctx, &dst); apiErr != nil {
			return nil, apiErr
		}
		return dst, nil
	}

	w := serve(h, "/x", `{"title":"  ","cron":"0 18 * *"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{
		"title":"this field cannot be blank",
		"cron":"must be a 5-field cron expression or empty"}}`, w.Body.String())

	w = serve(h, "/x", `{"title":"Vespers","cron":"0 18 * * 6"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCachedListWithoutRedis(t *testing.T) {
	calls := 0
	h := func(ctx *gin.Context) (any, *APIError) {
		return CachedList(ctx, nil, "events", func() (any, *APIError) {
			calls++
			return []int{1, 2}, nil
		})
	}
	for i := 0; i < 2; i++ {
		w := serve(h, "/x?page=1", "")
		assert.JSONEq(t, `[1,2]`, w.Body.String())
	}
	assert.Equal(t, 2, calls)
	Invalidate(nil, "events")
}
