package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/middleware"
)

// Module is a pluggable feature that attaches its endpoints to a Controller (a gin group).
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets you define a Module with a simple function.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig tells the api package how to mount a group.
type GroupConfig struct {
	Prefix     string
	SecretKey  string            // signs and verifies JWTs for authenticated routes
	Users      db.UserStore      // resolves the JWT subject
	Middleware []gin.HandlerFunc // optional additional middleware
}

// MountGroup mounts one or more Modules under a prefix.
func MountGroup(parent gin.IRoutes, cfg GroupConfig, modules ...Module) {
	var grp *gin.RouterGroup

	switch v := parent.(type) {
	case *gin.Engine:
		grp = v.Group(cfg.Prefix)
	case *gin.RouterGroup:
		if cfg.Prefix != "" {
			grp = v.Group(cfg.Prefix)
		} else {
			grp = v
		}
	default:
		log.Fatal().Str("type", fmt.Sprintf("%T", parent)).Msg("api.MountGroup: unsupported router type")
	}

	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}

	controller := &Controller{Group: grp}
	if cfg.SecretKey != "" && cfg.Users != nil {
		controller.auth = middleware.JWTMiddleware(cfg.SecretKey, cfg.Users)
	} else {
		log.Warn().Str("prefix", cfg.Prefix).Msg("api.MountGroup: no SecretKey, authenticated routes will reject every request")
		controller.auth = middleware.DenyAll()
	}

	for _, m := range modules {
		m.Mount(controller)
	}
}
