package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/config"
	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	authapi "github.com/Obed704/church-portal/internal/http/api/auth/endpoints"
	portalapi "github.com/Obed704/church-portal/internal/http/api/portal/endpoints"
	"github.com/Obed704/church-portal/internal/ingest"
	"github.com/Obed704/church-portal/internal/mirror"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/reminder"
	"github.com/Obed704/church-portal/internal/storage"
)

// Services is everything the HTTP layer is built from.
type Services struct {
	Config    *config.Config
	Store     db.Store
	Cache     *redis.Cache
	Files     storage.Storage
	Reminders *reminder.Service
	Mirror    *mirror.Mirror
	Calendar  ingest.Source
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, s Services) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		SecretKey:  s.Config.JWTSecret,
		Users:      s.Store,
		Middleware: []gin.HandlerFunc{requestLogger()},
	},
		authapi.AuthModule(s.Config.JWTSecret, s.Store),

		portalapi.PreachingModule(s.Store, s.Cache, s.Files),
		portalapi.StudyModule(s.Store, s.Cache),
		portalapi.BaptismModule(s.Store, s.Cache),
		portalapi.DepartmentModule(s.Store, s.Cache),
		portalapi.EventModule(s.Store, s.Cache, s.Reminders, s.Mirror),
		portalapi.ChoirModule(s.Store, s.Cache, s.Files),
		portalapi.VideoModule(s.Store, s.Cache, s.Files),
		portalapi.ThemeModule(s.Store, s.Cache),
		portalapi.UploadModule(s.Files),

		portalapi.ReactionModule(s.Store, s.Cache),
		portalapi.ReminderModule(s.Reminders, s.Store),
		portalapi.IngestModule(s.Store, s.Calendar, s.Cache, s.Mirror),
	)

	// Static content
	if s.Config.StorageBackend == "local" {
		r.Static("/uploads", s.Config.UploadDir)
	}
}
