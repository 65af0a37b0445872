package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/http/middleware"
)

// Controller registers module routes on a group. Plain verbs require a
// signed-in user, ADMIN_ verbs an admin, PUBLIC_ verbs nothing.
type Controller struct {
	Group *gin.RouterGroup
	auth  gin.HandlerFunc
}

func (c *Controller) handlers(admin bool, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{}
	if c.auth != nil {
		chain = append(chain, c.auth)
	}
	if admin {
		chain = append(chain, middleware.RequireAdmin())
	}
	return append(chain, h)
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, c.handlers(false, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, c.handlers(false, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, c.handlers(false, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, c.handlers(false, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) ADMIN_POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, c.handlers(true, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) ADMIN_PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, c.handlers(true, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) ADMIN_DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, c.handlers(true, ResolveEndpointWithAuth(h))...)
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}
