package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/storage"
)

// UploadModule mounts POST /uploads for standalone media files.
func UploadModule(files storage.Storage) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_POST("/uploads", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			url, apiErr := uploadOptional(ctx, files, "file")
			if apiErr != nil {
				return nil, apiErr
			}
			if url == nil {
				return nil, api.BadRequest("file is required")
			}
			return api.Created(packets.UploadResponse{URL: *url}), nil
		})
	})
}
