package endpoints

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
)

const baptismResource = "baptism-classes"

type BaptismController struct {
	store db.BaptismStore
	cache *redis.Cache
}

// BaptismModule mounts /baptism-classes with student registration and stats.
func BaptismModule(store db.BaptismStore, cache *redis.Cache) api.Module {
	ctl := &BaptismController{store: store, cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/baptism-classes", ctl.listClasses)
		c.PUBLIC_GET("/baptism-classes/:id", ctl.getClass)
		c.PUBLIC_GET("/baptism-classes/:id/stats", ctl.stats)
		c.ADMIN_POST("/baptism-classes", ctl.createClass)
		c.ADMIN_PUT("/baptism-classes/:id", ctl.updateClass)
		c.ADMIN_DELETE("/baptism-classes/:id", ctl.deleteClass)

		c.PUBLIC_POST("/baptism-classes/:id/students", ctl.registerStudent)
		c.ADMIN_PUT("/baptism-classes/:id/students/:student_id", ctl.updateStudent)
		c.ADMIN_DELETE("/baptism-classes/:id/students/:student_id", ctl.deleteStudent)
	})
}

func (b *BaptismController) listClasses(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.CachedList(ctx, b.cache, baptismResource, func() (any, *api.APIError) {
		items, total, err := b.store.ListBaptismClasses(q)
		if err != nil {
			return nil, api.StoreError(err, "baptism classes")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (b *BaptismController) getClass(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	c, err := b.store.GetBaptismClass(id)
	if err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	return c, nil
}

func (b *BaptismController) stats(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := b.store.GetBaptismClass(id); err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	st, err := b.store.BaptismStats(id)
	if err != nil {
		return nil, api.StoreError(err, "baptism stats")
	}
	return st, nil
}

func (b *BaptismController) createClass(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateBaptismClassRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.EndsOn.Before(req.StartsOn.Time) {
		return nil, api.BadRequest("ends_on must not be before starts_on")
	}
	location, _ := clearable(req.Location)
	c, err := b.store.CreateBaptismClass(model.BaptismClass{
		Name:      req.Name,
		Teacher:   req.Teacher,
		Location:  location,
		StartsOn:  req.StartsOn.Time,
		EndsOn:    req.EndsOn.Time,
		Capacity:  req.Capacity,
		CreatedBy: user.ID,
	})
	if err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	api.Invalidate(b.cache, baptismResource)
	return api.Created(c), nil
}

func (b *BaptismController) updateClass(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateBaptismClassRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	existing, err := b.store.GetBaptismClass(id)
	if err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	starts, ends := existing.StartsOn, existing.EndsOn
	if req.StartsOn != nil {
		starts = req.StartsOn.Time
	}
	if req.EndsOn != nil {
		ends = req.EndsOn.Time
	}
	if ends.Before(starts) {
		return nil, api.BadRequest("ends_on must not be before starts_on")
	}

	patch := db.BaptismClassPatch{
		Name:     req.Name,
		Teacher:  req.Teacher,
		StartsOn: req.StartsOn.Ptr(),
		EndsOn:   req.EndsOn.Ptr(),
		Capacity: req.Capacity,
	}
	patch.Location, patch.ClearLocation = clearable(req.Location)

	c, err := b.store.UpdateBaptismClass(id, patch)
	if err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	api.Invalidate(b.cache, baptismResource)
	return c, nil
}

func (b *BaptismController) deleteClass(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := b.store.DeleteBaptismClass(id); err != nil {
		return nil, api.StoreError(err, "baptism class")
	}
	api.Invalidate(b.cache, baptismResource)
	return nil, nil
}

func (b *BaptismController) registerStudent(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.RegisterStudentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}

	st, err := b.store.RegisterStudent(id, model.BaptismStudent{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	switch {
	case errors.Is(err, db.ErrClassFull):
		return nil, api.Conflict("this baptism class is full")
	case errors.Is(err, db.ErrDuplicate):
		return nil, api.Conflict("this email is already registered for the class")
	case err != nil:
		return nil, api.StoreError(err, "baptism class")
	}
	log.Info().Int("class_id", id).Int("student_id", st.ID).Msg("[baptism] student registered")
	return api.Created(st), nil
}

// updateStudent enforces that only approved students can be baptized.
func (b *BaptismController) updateStudent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	studentID, apiErr := api.ParseID(ctx, "student_id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateStudentRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}

	existing, err := b.store.GetStudent(id, studentID)
	if err != nil {
		return nil, api.StoreError(err, "student")
	}
	status := existing.Status
	if req.Status != nil {
		status = *req.Status
	}
	baptized := existing.Baptized
	if req.Baptized != nil {
		baptized = *req.Baptized
	}
	if baptized && status != model.StudentApproved {
		return nil, api.BadRequest("only approved students can be marked baptized")
	}

	patch := db.StudentPatch{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     req.Status,
		Baptized:   req.Baptized,
		BaptizedOn: req.BaptizedOn.Ptr(),
	}
	switch {
	case !baptized:
		patch.BaptizedOn, patch.ClearBaptizedOn = nil, true
	case patch.BaptizedOn == nil && existing.BaptizedOn == nil:
		day := today()
		patch.BaptizedOn = &day
	}

	st, err := b.store.UpdateStudent(id, studentID, patch)
	if err != nil {
		return nil, api.StoreError(err, "student")
	}
	return st, nil
}

func (b *BaptismController) deleteStudent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	studentID, apiErr := api.ParseID(ctx, "student_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := b.store.DeleteStudent(id, studentID); err != nil {
		return nil, api.StoreError(err, "student")
	}
	return nil, nil
}

