package endpoints

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/reminder"
)

type fakeReminders struct {
	got       []reminder.CreateRequest
	createErr error
	cancelErr error
	listed    []string
}

func (f *fakeReminders) Create(ctx context.Context, req reminder.CreateRequest) (model.Reminder, error) {
	f.got = append(f.got, req)
	if f.createErr != nil {
		return model.Reminder{}, f.createErr
	}
	return model.Reminder{ID: 1, UserID: req.UserID, TargetType: req.TargetType, TargetID: req.TargetID, State: model.ReminderScheduled}, nil
}

func (f *fakeReminders) Cancel(ctx context.Context, userID, id int) error {
	return f.cancelErr
}

func (f *fakeReminders) ListReminders(userID int, state string) ([]model.Reminder, error) {
	f.listed = append(f.listed, state)
	return []model.Reminder{{ID: 1, UserID: userID, State: model.ReminderScheduled}}, nil
}

func TestCreateReminder(t *testing.T) {
	svc := &fakeReminders{}
	r := newRouter(ReminderModule(svc, svc))
	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	w := do(t, r, http.MethodPost, "/api/me/reminders", map[string]any{
		"target_type": "event", "target_id": 3, "remind_at": at.Format(time.RFC3339), "channels": []string{"email", "push"},
	}, memberID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, svc.got, 1)
	assert.Equal(t, memberID, svc.got[0].UserID)
	assert.Equal(t, []string{"email", "push"}, svc.got[0].Channels)
	require.NotNil(t, svc.got[0].RemindAt)
	assert.True(t, svc.got[0].RemindAt.Equal(at))
}

func TestCreateReminderRejectsBadInput(t *testing.T) {
	svc := &fakeReminders{}
	r := newRouter(ReminderModule(svc, svc))

	bodies := []map[string]any{
		{"target_type": "choir", "target_id": 1},
		{"target_type": "study", "target_id": 1, "cron": "whenever"},
		{"target_type": "event", "target_id": 1, "channels": []string{"pigeon"}},
		{"target_type": "event"},
	}
	for _, body := range bodies {
		assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/me/reminders", body, memberID).Code, body)
	}
	assert.Empty(t, svc.got)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodPost, "/api/me/reminders", bodies[0], 0).Code)
}

func TestReminderErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{reminder.ErrEventStarted, http.StatusBadRequest},
		{reminder.ErrScheduleRequired, http.StatusBadRequest},
		{reminder.ErrPhoneRequired, http.StatusBadRequest},
		{reminder.ErrTargetNotFound, http.StatusNotFound},
		{reminder.ErrAlreadyScheduled, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &fakeReminders{createErr: tt.err}
			r := newRouter(ReminderModule(svc, svc))
			w := do(t, r, http.MethodPost, "/api/me/reminders", map[string]any{"target_type": "event", "target_id": 1}, memberID)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestCancelAndListReminders(t *testing.T) {
	svc := &fakeReminders{}
	r := newRouter(ReminderModule(svc, svc))

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/me/reminders/1", nil, memberID).Code)

	svc.cancelErr = reminder.ErrNotFound
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/me/reminders/1", nil, memberID).Code)
	svc.cancelErr = reminder.ErrNotScheduled
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodDelete, "/api/me/reminders/1", nil, memberID).Code)

	w := do(t, r, http.MethodGet, "/api/me/reminders?state=scheduled", nil, memberID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Reminder](t, w), 1)
	assert.Equal(t, []string{"scheduled"}, svc.listed)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/me/reminders?state=snoozed", nil, memberID).Code)
}
