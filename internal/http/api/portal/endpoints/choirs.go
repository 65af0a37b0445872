package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/storage"
)

const choirsResource = "choirs"

type ChoirController struct {
	store db.ChoirStore
	cache *redis.Cache
	files storage.Storage
}

func ChoirModule(store db.ChoirStore, cache *redis.Cache, files storage.Storage) api.Module {
	ctl := &ChoirController{store: store, cache: cache, files: files}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/choirs", ctl.listChoirs)
		c.PUBLIC_GET("/choirs/:id", ctl.getChoir)
		c.ADMIN_POST("/choirs", ctl.createChoir)
		c.ADMIN_PUT("/choirs/:id", ctl.updateChoir)
		c.ADMIN_DELETE("/choirs/:id", ctl.deleteChoir)

		c.ADMIN_POST("/choirs/:id/songs", ctl.addSong)
		c.ADMIN_DELETE("/choirs/:id/songs/:song_id", ctl.deleteSong)
	})
}

func (ch *ChoirController) listChoirs(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.CachedList(ctx, ch.cache, choirsResource, func() (any, *api.APIError) {
		items, total, err := ch.store.ListChoirs(q)
		if err != nil {
			return nil, api.StoreError(err, "choirs")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (ch *ChoirController) getChoir(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	choir, err := ch.store.GetChoir(id)
	if err != nil {
		return nil, api.StoreError(err, "choir")
	}
	return choir, nil
}

func (ch *ChoirController) createChoir(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateChoirRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	choir, err := ch.store.CreateChoir(model.Choir{
		Name:        req.Name,
		Description: req.Description,
		Leader:      req.Leader,
	})
	if err != nil {
		return nil, api.StoreError(err, "choir")
	}
	api.Invalidate(ch.cache, choirsResource)
	return api.Created(choir), nil
}

func (ch *ChoirController) updateChoir(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateChoirRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	choir, err := ch.store.UpdateChoir(id, db.ChoirPatch{
		Name:        req.Name,
		Description: req.Description,
		Leader:      req.Leader,
	})
	if err != nil {
		return nil, api.StoreError(err, "choir")
	}
	api.Invalidate(ch.cache, choirsResource)
	return choir, nil
}

func (ch *ChoirController) deleteChoir(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := ch.store.DeleteChoir(id); err != nil {
		return nil, api.StoreError(err, "choir")
	}
	api.Invalidate(ch.cache, choirsResource)
	return nil, nil
}

// addSong accepts JSON or a multipart form with an optional "audio" file.
func (ch *ChoirController) addSong(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.CreateSongRequest
	if apiErr := api.Bind(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if _, err := ch.store.GetChoir(id); err != nil {
		return nil, api.StoreError(err, "choir")
	}
	audio, apiErr := uploadOptional(ctx, ch.files, "audio")
	if apiErr != nil {
		return nil, apiErr
	}
	if audio == nil {
		audio = req.AudioURL
	}

	song, err := ch.store.AddSong(id, model.Song{Title: req.Title, Lyrics: req.Lyrics, AudioURL: audio})
	if err != nil {
		return nil, api.StoreError(err, "song")
	}
	api.Invalidate(ch.cache, choirsResource)
	return api.Created(song), nil
}

func (ch *ChoirController) deleteSong(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	songID, apiErr := api.ParseID(ctx, "song_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := ch.store.DeleteSong(id, songID); err != nil {
		return nil, api.StoreError(err, "song")
	}
	api.Invalidate(ch.cache, choirsResource)
	return nil, nil
}
