package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/storage"
)

const videosResource = "videos"

type VideoController struct {
	store db.VideoStore
	cache *redis.Cache
	files storage.Storage
}

func VideoModule(store db.VideoStore, cache *redis.Cache, files storage.Storage) api.Module {
	ctl := &VideoController{store: store, cache: cache, files: files}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/videos", ctl.listVideos)
		c.PUBLIC_GET("/videos/:id", ctl.getVideo)
		c.ADMIN_POST("/videos", ctl.createVideo)
		c.ADMIN_PUT("/videos/:id", ctl.updateVideo)
		c.ADMIN_DELETE("/videos/:id", ctl.deleteVideo)
	})
}

func (v *VideoController) listVideos(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	category := ctx.Query("category")
	return api.CachedList(ctx, v.cache, videosResource, func() (any, *api.APIError) {
		items, total, err := v.store.ListVideos(q, category)
		if err != nil {
			return nil, api.StoreError(err, "videos")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (v *VideoController) getVideo(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	video, err := v.store.GetVideo(id)
	if err != nil {
		return nil, api.StoreError(err, "video")
	}
	return video, nil
}

func (v *VideoController) createVideo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateVideoRequest
	if apiErr := api.Bind(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	thumb, apiErr := uploadOptional(ctx, v.files, "thumbnail")
	if apiErr != nil {
		return nil, apiErr
	}
	if thumb == nil {
		thumb = req.ThumbnailURL
	}
	published := time.Now().UTC()
	if req.PublishedAt != nil {
		published = *req.PublishedAt
	}

	video, err := v.store.CreateVideo(model.Video{
		Title:        req.Title,
		Category:     req.Category,
		URL:          req.URL,
		ThumbnailURL: thumb,
		PublishedAt:  published,
		CreatedBy:    user.ID,
	})
	if err != nil {
		return nil, api.StoreError(err, "video")
	}
	api.Invalidate(v.cache, videosResource)
	return api.Created(video), nil
}

func (v *VideoController) updateVideo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateVideoRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	video, err := v.store.UpdateVideo(id, db.VideoPatch{
		Title:        req.Title,
		Category:     req.Category,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		PublishedAt:  req.PublishedAt,
	})
	if err != nil {
		return nil, api.StoreError(err, "video")
	}
	api.Invalidate(v.cache, videosResource)
	return video, nil
}

func (v *VideoController) deleteVideo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := v.store.DeleteVideo(id); err != nil {
		return nil, api.StoreError(err, "video")
	}
	api.Invalidate(v.cache, videosResource)
	return nil, nil
}
