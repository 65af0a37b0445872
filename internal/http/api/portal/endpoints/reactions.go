package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

var reactionTargets = map[string]bool{
	model.TargetEvent:     true,
	model.TargetStudy:     true,
	model.TargetPreaching: true,
	model.TargetVideo:     true,
}

var reactionKinds = map[string]bool{
	model.ReactionBookmark: true,
	model.ReactionLike:     true,
	model.ReactionFavorite: true,
}

type ReactionController struct {
	store db.ReactionStore
	cache *redis.Cache
}

// ReactionModule mounts the signed-in user's bookmarks, likes and favorites.
func ReactionModule(store db.ReactionStore, cache *redis.Cache) api.Module {
	ctl := &ReactionController{store: store, cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/me/reactions", ctl.listReactions)
		c.PUT("/me/reactions/:target_type/:target_id/:kind", ctl.setReaction)
		c.DELETE("/me/reactions/:target_type/:target_id/:kind", ctl.deleteReaction)
		c.PUBLIC_GET("/reactions/:target_type/:target_id", ctl.countReactions)
	})
}

func parseTarget(ctx *gin.Context) (string, int, *api.APIError) {
	targetType := ctx.Param("target_type")
	if !reactionTargets[targetType] {
		return "", 0, api.BadRequest("target_type must be event, study, preaching or video")
	}
	id, apiErr := api.ParseID(ctx, "target_id")
	if apiErr != nil {
		return "", 0, apiErr
	}
	return targetType, id, nil
}

func (r *ReactionController) parseReaction(ctx *gin.Context) (string, int, string, *api.APIError) {
	targetType, id, apiErr := parseTarget(ctx)
	if apiErr != nil {
		return "", 0, "", apiErr
	}
	kind := ctx.Param("kind")
	if !reactionKinds[kind] {
		return "", 0, "", api.BadRequest("kind must be bookmark, like or favorite")
	}
	exists, err := r.store.TargetExists(targetType, id)
	if err != nil {
		return "", 0, "", api.StoreError(err, targetType)
	}
	if !exists {
		return "", 0, "", api.NotFound(targetType + " not found")
	}
	return targetType, id, kind, nil
}

// study cards show like and favorite counts, so those lists go stale
func (r *ReactionController) touched(targetType, kind string) {
	if targetType == model.TargetStudy && kind != model.ReactionBookmark {
		api.Invalidate(r.cache, studiesResource)
	}
}

func (r *ReactionController) setReaction(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	targetType, id, kind, apiErr := r.parseReaction(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := r.store.SetReaction(user.ID, targetType, id, kind); err != nil {
		return nil, api.StoreError(err, "reaction")
	}
	r.touched(targetType, kind)
	return nil, nil
}

func (r *ReactionController) deleteReaction(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	targetType, id, kind, apiErr := r.parseReaction(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := r.store.DeleteReaction(user.ID, targetType, id, kind); err != nil {
		return nil, api.StoreError(err, "reaction")
	}
	r.touched(targetType, kind)
	return nil, nil
}

func (r *ReactionController) listReactions(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	targetType, kind := ctx.Query("target_type"), ctx.Query("kind")
	if targetType != "" && !reactionTargets[targetType] {
		return nil, api.BadRequest("target_type must be event, study, preaching or video")
	}
	if kind != "" && !reactionKinds[kind] {
		return nil, api.BadRequest("kind must be bookmark, like or favorite")
	}
	items, err := r.store.ListReactions(user.ID, targetType, kind)
	if err != nil {
		return nil, api.StoreError(err, "reactions")
	}
	return items, nil
}

func (r *ReactionController) countReactions(ctx *gin.Context) (any, *api.APIError) {
	targetType, id, apiErr := parseTarget(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	counts, err := r.store.CountReactions(targetType, id)
	if err != nil {
		return nil, api.StoreError(err, "reactions")
	}
	return packets.ReactionCountsResponse{TargetType: targetType, TargetID: id, Counts: counts}, nil
}
