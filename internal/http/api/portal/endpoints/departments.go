package endpoints

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

const departmentsResource = "departments"

type DepartmentController struct {
	store db.DepartmentStore
	cache *redis.Cache
}

func DepartmentModule(store db.DepartmentStore, cache *redis.Cache) api.Module {
	ctl := &DepartmentController{store: store, cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/departments", ctl.listDepartments)
		c.PUBLIC_GET("/departments/:id", ctl.getDepartment)
		c.ADMIN_POST("/departments", ctl.createDepartment)
		c.ADMIN_PUT("/departments/:id", ctl.updateDepartment)
		c.ADMIN_DELETE("/departments/:id", ctl.deleteDepartment)

		c.ADMIN_POST("/departments/:id/committee", ctl.addCommitteeMember)
		c.ADMIN_DELETE("/departments/:id/committee/:member_id", ctl.removeCommitteeMember)
		c.POST("/departments/:id/comments", ctl.addComment)
	})
}

func (d *DepartmentController) listDepartments(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.CachedList(ctx, d.cache, departmentsResource, func() (any, *api.APIError) {
		items, total, err := d.store.ListDepartments(q)
		if err != nil {
			return nil, api.StoreError(err, "departments")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (d *DepartmentController) getDepartment(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	dep, err := d.store.GetDepartment(id)
	if err != nil {
		return nil, api.StoreError(err, "department")
	}
	return dep, nil
}

func (d *DepartmentController) createDepartment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateDepartmentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	dep, err := d.store.CreateDepartment(model.Department{
		Name:        req.Name,
		Description: req.Description,
		Leader:      req.Leader,
		Members:     req.Members,
		Plans:       req.Plans,
		Actions:     req.Actions,
	})
	if err != nil {
		return nil, api.StoreError(err, "department")
	}
	api.Invalidate(d.cache, departmentsResource)
	log.Info().Int("department_id", dep.ID).Msg("[departments] created")
	return api.Created(dep), nil
}

func (d *DepartmentController) updateDepartment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateDepartmentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	dep, err := d.store.UpdateDepartment(id, db.DepartmentPatch{
		Name:        req.Name,
		Description: req.Description,
		Leader:      req.Leader,
		Members:     req.Members,
		Plans:       req.Plans,
		Actions:     req.Actions,
	})
	if err != nil {
		return nil, api.StoreError(err, "department")
	}
	api.Invalidate(d.cache, departmentsResource)
	return dep, nil
}

func (d *DepartmentController) deleteDepartment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := d.store.DeleteDepartment(id); err != nil {
		return nil, api.StoreError(err, "department")
	}
	api.Invalidate(d.cache, departmentsResource)
	return nil, nil
}

func (d *DepartmentController) addCommitteeMember(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.CommitteeMemberRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if _, err := d.store.GetDepartment(id); err != nil {
		return nil, api.StoreError(err, "department")
	}
	m, err := d.store.AddCommitteeMember(id, req.Name, req.Role)
	if err != nil {
		return nil, api.StoreError(err, "committee member")
	}
	api.Invalidate(d.cache, departmentsResource)
	return api.Created(m), nil
}

func (d *DepartmentController) removeCommitteeMember(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	memberID, apiErr := api.ParseID(ctx, "member_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := d.store.RemoveCommitteeMember(id, memberID); err != nil {
		return nil, api.StoreError(err, "committee member")
	}
	api.Invalidate(d.cache, departmentsResource)
	return nil, nil
}

// addComment posts a comment, or a reply when parent_id names a comment in
// the same department.
func (d *DepartmentController) addComment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.CommentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if _, err := d.store.GetDepartment(id); err != nil {
		return nil, api.StoreError(err, "department")
	}
	if req.ParentID != nil {
		parent, err := d.store.GetDepartmentComment(*req.ParentID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && parent.DepartmentID != id) {
			return nil, api.BadRequest("parent_id does not belong to this department")
		}
		if err != nil {
			return nil, api.StoreError(err, "comment")
		}
	}

	c, err := d.store.AddDepartmentComment(id, user.ID, req.ParentID, req.Body)
	if err != nil {
		return nil, api.StoreError(err, "comment")
	}
	return api.Created(c), nil
}
