package endpoints

import (
	"bytes"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

const studiesResource = "studies"

type StudyController struct {
	store db.StudyStore
	cache *redis.Cache
	md    goldmark.Markdown
}

// StudyModule mounts /studies and their comment threads.
func StudyModule(store db.StudyStore, cache *redis.Cache) api.Module {
	ctl := &StudyController{store: store, cache: cache, md: goldmark.New()}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/studies", ctl.listStudies)
		c.PUBLIC_GET("/studies/:id", ctl.getStudy)
		c.ADMIN_POST("/studies", ctl.createStudy)
		c.ADMIN_PUT("/studies/:id", ctl.updateStudy)
		c.ADMIN_DELETE("/studies/:id", ctl.deleteStudy)

		c.POST("/studies/:id/comments", ctl.addComment)
		c.DELETE("/studies/:id/comments/:comment_id", ctl.deleteComment)
	})
}

// render converts the markdown body. Raw HTML in the source is dropped.
func (s *StudyController) render(st model.Study) packets.StudyResponse {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(st.Content), &buf); err != nil {
		log.Warn().Err(err).Int("study_id", st.ID).Msg("[studies] markdown render failed")
	}
	return packets.StudyResponse{Study: st, ContentHTML: buf.String()}
}

func (s *StudyController) listStudies(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.CachedList(ctx, s.cache, studiesResource, func() (any, *api.APIError) {
		items, total, err := s.store.ListStudies(q)
		if err != nil {
			return nil, api.StoreError(err, "studies")
		}
		out := make([]packets.StudyResponse, len(items))
		for i, st := range items {
			out[i] = s.render(st)
		}
		return api.NewListResponse(out, total, q), nil
	})
}

func (s *StudyController) getStudy(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	st, err := s.store.GetStudy(id)
	if err != nil {
		return nil, api.StoreError(err, "study")
	}
	return s.render(st), nil
}

func (s *StudyController) createStudy(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateStudyRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	st, err := s.store.CreateStudy(model.Study{
		Title:     req.Title,
		Content:   req.Content,
		Verses:    req.Verses,
		Questions: req.Questions,
		CreatedBy: user.ID,
	})
	if err != nil {
		return nil, api.StoreError(err, "study")
	}
	api.Invalidate(s.cache, studiesResource)
	return api.Created(s.render(st)), nil
}

func (s *StudyController) updateStudy(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateStudyRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	st, err := s.store.UpdateStudy(id, db.StudyPatch{
		Title:     req.Title,
		Content:   req.Content,
		Verses:    req.Verses,
		Questions: req.Questions,
	})
	if err != nil {
		return nil, api.StoreError(err, "study")
	}
	api.Invalidate(s.cache, studiesResource)
	return s.render(st), nil
}

func (s *StudyController) deleteStudy(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.store.DeleteStudy(id); err != nil {
		return nil, api.StoreError(err, "study")
	}
	api.Invalidate(s.cache, studiesResource)
	return nil, nil
}

func (s *StudyController) addComment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.CommentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if _, err := s.store.GetStudy(id); err != nil {
		return nil, api.StoreError(err, "study")
	}
	c, err := s.store.AddStudyComment(id, user.ID, req.Body)
	if err != nil {
		return nil, api.StoreError(err, "comment")
	}
	return api.Created(c), nil
}

// deleteComment is allowed for the author and for admins.
func (s *StudyController) deleteComment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	commentID, apiErr := api.ParseID(ctx, "comment_id")
	if apiErr != nil {
		return nil, apiErr
	}
	c, err := s.store.GetStudyComment(commentID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && c.StudyID != id) {
		return nil, api.NotFound("comment not found")
	} else if err != nil {
		return nil, api.StoreError(err, "comment")
	}
	if c.UserID != user.ID && !user.IsAdmin() {
		return nil, api.Forbidden("only the author can delete this comment")
	}
	if err := s.store.DeleteStudyComment(commentID); err != nil {
		return nil, api.StoreError(err, "comment")
	}
	return nil, nil
}
