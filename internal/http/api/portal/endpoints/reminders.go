package endpoints

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/portal/packets"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/reminder"
)

type Reminders interface {
	Create(ctx context.Context, req reminder.CreateRequest) (model.Reminder, error)
	Cancel(ctx context.Context, userID, id int) error
}

type ReminderLister interface {
	ListReminders(userID int, state string) ([]model.Reminder, error)
}

type ReminderController struct {
	reminders Reminders
	store     ReminderLister
}

func ReminderModule(reminders Reminders, store ReminderLister) api.Module {
	ctl := &ReminderController{reminders: reminders, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/me/reminders", ctl.listReminders)
		c.POST("/me/reminders", ctl.createReminder)
		c.DELETE("/me/reminders/:id", ctl.cancelReminder)
	})
}

func reminderError(err error) *api.APIError {
	switch {
	case errors.Is(err, reminder.ErrInvalidTarget),
		errors.Is(err, reminder.ErrEventStarted),
		errors.Is(err, reminder.ErrScheduleRequired),
		errors.Is(err, reminder.ErrInPast),
		errors.Is(err, reminder.ErrInvalidChannel),
		errors.Is(err, reminder.ErrPhoneRequired):
		return api.BadRequest(err.Error())
	case errors.Is(err, reminder.ErrTargetNotFound), errors.Is(err, reminder.ErrNotFound):
		return api.NotFound(err.Error())
	case errors.Is(err, reminder.ErrAlreadyScheduled), errors.Is(err, reminder.ErrNotScheduled):
		return api.Conflict(err.Error())
	}
	log.Error().Err(err).Msg("[reminders] request failed")
	return api.Internal("something went wrong, please try again")
}

func (r *ReminderController) listReminders(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	state := ctx.Query("state")
	switch state {
	case "", model.ReminderScheduled, model.ReminderDelivered, model.ReminderMissed, model.ReminderCancelled:
	default:
		return nil, api.BadRequest("state must be scheduled, delivered, missed or cancelled")
	}
	items, err := r.store.ListReminders(user.ID, state)
	if err != nil {
		return nil, api.StoreError(err, "reminders")
	}
	return items, nil
}

func (r *ReminderController) createReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateReminderRequest
	if apiErr := api.BindJSON(ctx, &req); apiErr != nil {
		return nil, apiErr
	}
	rem, err := r.reminders.Create(ctx.Request.Context(), reminder.CreateRequest{
		UserID:     user.ID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		RemindAt:   req.RemindAt,
		Cron:       req.Cron,
		Channels:   req.Channels,
		Note:       req.Note,
	})
	if err != nil {
		return nil, reminderError(err)
	}
	return api.Created(rem), nil
}

func (r *ReminderController) cancelReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParseID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := r.reminders.Cancel(ctx.Request.Context(), user.ID, id); err != nil {
		return nil, reminderError(err)
	}
	return nil, nil
}
