package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/storage"
)

const maxUploadSize = 64 << 20

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/form-data")
}

// uploadOptional stores the multipart file in field, if one was sent.
func uploadOptional(ctx *gin.Context, files storage.Storage, field string) (*string, *api.APIError) {
	if !isMultipart(ctx) {
		return nil, nil
	}
	fh, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, api.BadRequest("invalid " + field + " upload")
	}
	if fh.Size > maxUploadSize {
		return nil, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: field + " is too large"}
	}
	if files == nil {
		return nil, api.Internal("file storage is not configured")
	}
	url, err := files.SaveFile(ctx.Request.Context(), fh, fh.Filename)
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("upload failed")
		return nil, api.Internal("could not store " + field)
	}
	return &url, nil
}

// mondayOf returns the Monday starting t's week, at midnight UTC.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// clearable maps a blank optional string to "set to NULL".
func clearable(v *string) (*string, bool) {
	if v != nil && strings.TrimSpace(*v) == "" {
		return nil, true
	}
	return v, false
}
