package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/storage"
)

const preachingsResource = "preachings"

type PreachingController struct {
	store db.PreachingStore
	cache *redis.Cache
	files storage.Storage
}

// PreachingModule mounts /preachings. Reads are public, writes need an admin.
func PreachingModule(store db.PreachingStore, cache *redis.Cache, files storage.Storage) api.Module {
	ctl := &PreachingController{store: store, cache: cache, files: files}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/preachings", ctl.listPreachings)
		c.PUBLIC_GET("/preachings/today", ctl.todaysPreaching)
		c.PUBLIC_GET("/preachings/:id", ctl.getPreaching)
		c.ADMIN_POST("/preachings", ctl.createPreaching)
		c.ADMIN_PUT("/preachings/:id", ctl.updatePreaching)
		c.ADMIN_DELETE("/preachings/:id", ctl.deletePreaching)
	})
}

func (p *PreachingController) listPreachings(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	f := db.PreachingFilter{Kind: ctx.Query("kind")}
	if f.Kind != "" && f.Kind != model.PreachingDaily && f.Kind != model.PreachingSunday {
		return nil, api.BadRequest("kind must be daily or sunday")
	}
	if f.From, apiErr = api.ParseDate(ctx, "from"); apiErr != nil {
		return nil, apiErr
	}
	if f.To, apiErr = api.ParseDate(ctx, "to"); apiErr != nil {
		return nil, apiErr
	}

	return api.CachedList(ctx, p.cache, preachingsResource, func() (any, *api.APIError) {
		items, total, err := p.store.ListPreachings(q, f)
		if err != nil {
			return nil, api.StoreError(err, "preachings")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (p *PreachingController) todaysPreaching(ctx *gin.Context) (any, *api.APIError) {
	pr, err := p.store.GetPreachingForDay(model.PreachingDaily, today())
	if err != nil {
		return nil, api.StoreError(err, "today's preaching")
	}
	return pr, nil
}

func (p *PreachingController) getPreaching(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	pr, err := p.store.GetPreaching(id)
	if err != nil {
		return nil, api.StoreError(err, "preaching")
	}
	return pr, nil
}

func (p *PreachingController) createPreaching(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreatePreachingRequest
	if apiErr := api.Bind(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	audio, apiErr := uploadOptional(ctx, p.files, "audio")
	if apiErr != nil {
		return nil, apiErr
	}
	if audio == nil {
		audio = req.AudioURL
	}

	pr, err := p.store.CreatePreaching(model.Preaching{
		Title:       req.Title,
		Preacher:    req.Preacher,
		Kind:        req.Kind,
		PreachedOn:  req.PreachedOn.Time,
		Verses:      req.Verses,
		Description: req.Description,
		AudioURL:    audio,
		CreatedBy:   user.ID,
	})
	if err != nil {
		return nil, api.StoreError(err, "preaching")
	}
	api.Invalidate(p.cache, preachingsResource)
	log.Info().Int("preaching_id", pr.ID).Int("user_id", user.ID).Msg("[preachings] created")
	return api.Created(pr), nil
}

func (p *PreachingController) updatePreaching(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdatePreachingRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}

	pr, err := p.store.UpdatePreaching(id, db.PreachingPatch{
		Title:       req.Title,
		Preacher:    req.Preacher,
		Kind:        req.Kind,
		PreachedOn:  req.PreachedOn.Ptr(),
		Verses:      req.Verses,
		Description: req.Description,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		return nil, api.StoreError(err, "preaching")
	}
	api.Invalidate(p.cache, preachingsResource)
	return pr, nil
}

func (p *PreachingController) deletePreaching(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := p.store.DeletePreaching(id); err != nil {
		return nil, api.StoreError(err, "preaching")
	}
	api.Invalidate(p.cache, preachingsResource)
	return nil, nil
}
