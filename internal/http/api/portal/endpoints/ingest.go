package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/ingest"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

// IngestModule mounts POST /admin/ingest, which imports the parish calendar.
// A nil source means no calendar URL is configured.
func IngestModule(store ingest.Store, src ingest.Source, cache *redis.Cache, mirror Syncer) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_POST("/admin/ingest", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			if src == nil {
				return nil, api.BadRequest("calendar ingest is not configured")
			}
			res, err := ingest.Import(ctx.Request.Context(), store, src, user.ID)
			// a partial import still wrote events
			if res.Created > 0 {
				api.Invalidate(cache, eventsResource)
				if mirror != nil {
					mirror.SyncAsync()
				}
			}
			if err != nil {
				log.Error().Err(err).Int("created", res.Created).Msg("[ingest] import failed")
				return nil, &api.APIError{
					Code:    http.StatusBadGateway,
					Message: fmt.Sprintf("could not import the calendar (%d events created before the failure)", res.Created),
				}
			}
			return res, nil
		})
	})
}
