package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/http/middleware"
	"github.com/Obed704/church-portal/internal/model"
)

type APIError struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func BadRequest(msg string) *APIError { return &APIError{Code: http.StatusBadRequest, Message: msg} }
func NotFound(msg string) *APIError   { return &APIError{Code: http.StatusNotFound, Message: msg} }
func Unauthorized(msg string) *APIError {
	return &APIError{Code: http.StatusUnauthorized, Message: msg}
}
func Forbidden(msg string) *APIError  { return &APIError{Code: http.StatusForbidden, Message: msg} }
func Conflict(msg string) *APIError   { return &APIError{Code: http.StatusConflict, Message: msg} }
func Internal(msg string) *APIError {
	return &APIError{Code: http.StatusInternalServerError, Message: msg}
}

// Response overrides the default 200 status for a handler result.
type Response struct {
	Code int
	Body any
}

func Created(body any) Response { return Response{Code: http.StatusCreated, Body: body} }

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func write(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, apiErr)
		return
	}
	switch r := result.(type) {
	case nil:
		ctx.Status(http.StatusNoContent)
	case Response:
		ctx.JSON(r.Code, r.Body)
	default:
		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		write(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		write(ctx, result, apiErr)
	}
}
