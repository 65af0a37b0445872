package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/redis"
)

type ListResponse struct {
	Items   any `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func NewListResponse(items any, total int, q db.ListQuery) ListResponse {
	q = q.Normalize()
	return ListResponse{Items: items, Total: total, Page: q.Page, PerPage: q.PerPage}
}

// ParseListQuery reads q, sort, order, page and per_page.
func ParseListQuery(ctx *gin.Context) (db.ListQuery, *APIError) {
	q := db.ListQuery{
		Search: ctx.Query("q"),
		Sort:   ctx.Query("sort"),
	}
	switch ctx.Query("order") {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, BadRequest("order must be asc or desc")
	}
	var err error
	if v := ctx.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return q, BadRequest("page must be a number")
		}
	}
	if v := ctx.Query("per_page"); v != "" {
		if q.PerPage, err = strconv.Atoi(v); err != nil {
			return q, BadRequest("per_page must be a number")
		}
	}
	return q.Normalize(), nil
}

// ParseID reads a positive integer path parameter.
func ParseID(ctx *gin.Context, name string) (int, *APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, BadRequest("invalid " + name)
	}
	return id, nil
}

// ParseDate reads an optional YYYY-MM-DD query parameter.
func ParseDate(ctx *gin.Context, name string) (*time.Time, *APIError) {
	v := ctx.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, BadRequest(name + " must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

// StoreError maps the usual store failures onto HTTP errors.
func StoreError(err error, what string) *APIError {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NotFound(what + " not found")
	case errors.Is(err, db.ErrDuplicate):
		return Conflict(what + " already exists")
	}
	log.Error().Err(err).Str("resource", what).Msg("store operation failed")
	return Internal("something went wrong, please try again")
}

// CachedList serves a public list from the cache when possible and stores
// fresh results. The cache key covers the whole query string.
func CachedList(ctx *gin.Context, cache *redis.Cache, resource string, load func() (any, *APIError)) (any, *APIError) {
	key := ctx.Request.URL.Query().Encode()
	if raw, ok := cache.Get(ctx.Request.Context(), resource, key); ok {
		return json.RawMessage(raw), nil
	}
	result, apiErr := load()
	if apiErr != nil {
		return nil, apiErr
	}
	if raw, err := json.Marshal(result); err == nil {
		cache.Set(ctx.Request.Context(), resource, key, raw)
	}
	return result, nil
}

// Invalidate drops cached lists of resource after a write.
func Invalidate(cache *redis.Cache, resource string) {
	cache.Invalidate(context.Background(), resource)
}
