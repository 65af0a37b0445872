package endpoints

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/reminder"
)

const eventsResource = "events"

// EventReminders is what event writes need from the reminder service.
type EventReminders interface {
	RescheduleForEvent(ctx context.Context, event model.Event) error
	CancelForEvent(ctx context.Context, eventID int) error
}

// Syncer pushes the upcoming events to an external mirror.
type Syncer interface {
	SyncAsync()
}

type EventController struct {
	store     db.EventStore
	cache     *redis.Cache
	reminders EventReminders
	mirror    Syncer
	now       func() time.Time
}

// EventModule mounts /events. reminders and mirror may be nil.
func EventModule(store db.EventStore, cache *redis.Cache, reminders EventReminders, mirror Syncer) api.Module {
	ctl := &EventController{store: store, cache: cache, reminders: reminders, mirror: mirror, now: time.Now}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/events", ctl.listEvents)
		c.PUBLIC_GET("/events/:id", ctl.getEvent)
		c.PUBLIC_GET("/events/:id/next", ctl.nextOccurrence)
		c.ADMIN_POST("/events", ctl.createEvent)
		c.ADMIN_PUT("/events/:id", ctl.updateEvent)
		c.ADMIN_DELETE("/events/:id", ctl.deleteEvent)

		c.POST("/events/:id/attend", ctl.attend)
		c.DELETE("/events/:id/attend", ctl.unattend)
	})
}

func (e *EventController) changed() {
	api.Invalidate(e.cache, eventsResource)
	if e.mirror != nil {
		e.mirror.SyncAsync()
	}
}

func (e *EventController) listEvents(ctx *gin.Context) (any, *api.APIError) {
	q, apiErr := api.ParseListQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	f := db.EventFilter{Now: e.now()}
	switch ctx.Query("upcoming") {
	case "", "false":
	case "true":
		f.Upcoming = true
	default:
		return nil, api.BadRequest("upcoming must be true or false")
	}

	// upcoming lists depend on the clock, so they skip the cache
	if f.Upcoming {
		items, total, err := e.store.ListEvents(q, f)
		if err != nil {
			return nil, api.StoreError(err, "events")
		}
		return api.NewListResponse(items, total, q), nil
	}
	return api.CachedList(ctx, e.cache, eventsResource, func() (any, *api.APIError) {
		items, total, err := e.store.ListEvents(q, f)
		if err != nil {
			return nil, api.StoreError(err, "events")
		}
		return api.NewListResponse(items, total, q), nil
	})
}

func (e *EventController) getEvent(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ev, err := e.store.GetEvent(id)
	if err != nil {
		return nil, api.StoreError(err, "event")
	}
	return ev, nil
}

// nextOccurrence returns the next start of a recurring event, or the single
// start time when it is still ahead.
func (e *EventController) nextOccurrence(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ev, err := e.store.GetEvent(id)
	if err != nil {
		return nil, api.StoreError(err, "event")
	}

	now := e.now()
	resp := packets.NextOccurrenceResponse{EventID: ev.ID, Recurring: ev.Recurrence != nil && *ev.Recurrence != ""}
	if !resp.Recurring {
		if ev.StartsAt.After(now) {
			resp.Next = &ev.StartsAt
		}
		return resp, nil
	}
	from := now
	if ev.StartsAt.After(now) {
		from = ev.StartsAt.Add(-time.Minute)
	}
	next, err := reminder.NextTick(*ev.Recurrence, from)
	if err != nil {
		log.Warn().Err(err).Int("event_id", ev.ID).Msg("[events] bad recurrence")
		return nil, api.Internal("could not compute next occurrence")
	}
	resp.Next = &next
	return resp, nil
}

func (e *EventController) createEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateEventRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	if !req.EndsAt.After(*req.StartsAt) {
		return nil, api.BadRequest("ends_at must be after starts_at")
	}

	location, _ := clearable(req.Location)
	recurrence, _ := clearable(req.Recurrence)
	ev, err := e.store.CreateEvent(model.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    location,
		StartsAt:    *req.StartsAt,
		EndsAt:      *req.EndsAt,
		Recurrence:  recurrence,
		CreatedBy:   user.ID,
	})
	if err != nil {
		return nil, api.StoreError(err, "event")
	}
	e.changed()
	log.Info().Int("event_id", ev.ID).Int("user_id", user.ID).Msg("[events] created")
	return api.Created(ev), nil
}

func (e *EventController) updateEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateEventRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	existing, err := e.store.GetEvent(id)
	if err != nil {
		return nil, api.StoreError(err, "event")
	}
	starts, ends := existing.StartsAt, existing.EndsAt
	if req.StartsAt != nil {
		starts = *req.StartsAt
	}
	if req.EndsAt != nil {
		ends = *req.EndsAt
	}
	if !ends.After(starts) {
		return nil, api.BadRequest("ends_at must be after starts_at")
	}

	patch := db.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	patch.Location, patch.ClearLocation = clearable(req.Location)
	patch.Recurrence, patch.ClearRecurrence = clearable(req.Recurrence)

	ev, err := e.store.UpdateEvent(id, patch)
	if err != nil {
		return nil, api.StoreError(err, "event")
	}
	if e.reminders != nil && !ev.StartsAt.Equal(existing.StartsAt) {
		if err := e.reminders.RescheduleForEvent(ctx.Request.Context(), ev); err != nil {
			log.Error().Err(err).Int("event_id", ev.ID).Msg("[events] rescheduling reminders failed")
		}
	}
	e.changed()
	return ev, nil
}

func (e *EventController) deleteEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := e.store.GetEvent(id); err != nil {
		return nil, api.StoreError(err, "event")
	}
	if e.reminders != nil {
		if err := e.reminders.CancelForEvent(ctx.Request.Context(), id); err != nil {
			return nil, api.StoreError(err, "event reminders")
		}
	}
	if err := e.store.DeleteEvent(id); err != nil {
		return nil, api.StoreError(err, "event")
	}
	e.changed()
	log.Info().Int("event_id", id).Int("user_id", user.ID).Msg("[events] deleted")
	return nil, nil
}

func (e *EventController) attend(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := e.store.GetEvent(id); err != nil {
		return nil, api.StoreError(err, "event")
	}
	if err := e.store.AddAttendee(id, user.ID); err != nil {
		return nil, api.StoreError(err, "attendance")
	}
	return nil, nil
}

func (e *EventController) unattend(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := e.store.RemoveAttendee(id, user.ID); err != nil {
		return nil, api.StoreError(err, "attendance")
	}
	return nil, nil
}
