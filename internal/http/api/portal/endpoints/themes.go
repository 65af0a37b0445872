package endpoints

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

const themesResource = "themes"

type ThemeController struct {
	store db.ThemeStore
	cache *redis.Cache
}

// ThemeModule mounts /themes. A theme always covers a Monday-to-Sunday week.
func ThemeModule(store db.ThemeStore, cache *redis.Cache) api.Module {
	ctl := &ThemeController{store: store, cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/themes", ctl.listThemes)
		c.PUBLIC_GET("/themes/current", ctl.currentTheme)
		c.PUBLIC_GET("/themes/:id", ctl.getTheme)
		c.ADMIN_POST("/themes", ctl.createTheme)
		c.ADMIN_PUT("/themes/:id", ctl.updateTheme)
		c.ADMIN_DELETE("/themes/:id", ctl.deleteTheme)
		c.ADMIN_PUT("/themes/:id/plans", ctl.replacePlans)
	})
}

func toPlans(in []packets.ThemePlanRequest) []model.ThemePlan {
	plans := make([]model.ThemePlan, 0, len(in))
	for _, p := range in {
		plans = append(plans, model.ThemePlan{Day: p.Day, Activity: p.Activity})
	}
	return plans
}

func themeStoreError(err error) *api.APIError {
	if errors.Is(err, db.ErrDuplicate) {
		return api.Conflict("a theme already exists for that week")
	}
	return api.StoreError(err, "theme")
}

func (t *ThemeController) listThemes(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.CachedList(ctx, t.cache, themesResource, func() (any, *api.APIError) {
		items, total, err := t.store.ListThemes(q)
		if err != nil {
			return nil, api.StoreError(err, "themes")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (t *ThemeController) currentTheme(ctx *gin.Context) (any, *api.APIError) {
	theme, err := t.store.GetThemeForDate(today())
	if err != nil {
		return nil, api.StoreError(err, "theme for this week")
	}
	return theme, nil
}

func (t *ThemeController) getTheme(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	theme, err := t.store.GetTheme(id)
	if err != nil {
		return nil, api.StoreError(err, "theme")
	}
	return theme, nil
}

func (t *ThemeController) createTheme(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateThemeRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	theme, err := t.store.CreateTheme(model.WeeklyTheme{
		Title:     req.Title,
		Verse:     req.Verse,
		WeekStart: mondayOf(req.WeekStart.Time),
		Summary:   req.Summary,
		Plans:     toPlans(req.Plans),
	})
	if err != nil {
		return nil, themeStoreError(err)
	}
	api.Invalidate(t.cache, themesResource)
	return api.Created(theme), nil
}

func (t *ThemeController) updateTheme(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateThemeRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	patch := db.ThemePatch{Title: req.Title, Verse: req.Verse, Summary: req.Summary}
	if req.WeekStart != nil {
		monday := mondayOf(req.WeekStart.Time)
		patch.WeekStart = &monday
	}
	theme, err := t.store.UpdateTheme(id, patch)
	if err != nil {
		return nil, themeStoreError(err)
	}
	api.Invalidate(t.cache, themesResource)
	return theme, nil
}

func (t *ThemeController) deleteTheme(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := t.store.DeleteTheme(id); err != nil {
		return nil, api.StoreError(err, "theme")
	}
	api.Invalidate(t.cache, themesResource)
	return nil, nil
}

func (t *ThemeController) replacePlans(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.ReplacePlansRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if _, err := t.store.GetTheme(id); err != nil {
		return nil, api.StoreError(err, "theme")
	}
	plans, err := t.store.ReplaceThemePlans(id, toPlans(req.Plans))
	if err != nil {
		return nil, api.StoreError(err, "theme plans")
	}
	api.Invalidate(t.cache, themesResource)
	return plans, nil
}
