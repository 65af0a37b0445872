package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const reminderColumns = `id, user_id, target_type, target_id, remind_at, cron_expr, explicit, state, attempts, channels, note, created_at, updated_at, delivered_at`

// CreateReminder stores a scheduled reminder. A second scheduled reminder
// for the same user and target yields ErrDuplicate.
func (s *pgStore) CreateReminder(r model.Reminder) (model.Reminder, error) {
	var out model.Reminder
	err := s.db.Get(&out, `
	INSERT INTO reminders (user_id, target_type, target_id, remind_at, cron_expr, explicit, state, attempts, channels, note, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', 0, $7, $8, now(), now())
	RETURNING `+reminderColumns+`;`,
		r.UserID, r.TargetType, r.TargetID, r.RemindAt, r.CronExpr, r.Explicit, stringArray(r.Channels), r.Note)
	if err != nil {
		if isUniqueViolation(err) {
			return out, ErrDuplicate
		}
		log.Error().Err(err).Int("user_id", r.UserID).Msg("CreateReminder failed")
	}
	return out, err
}

func (s *pgStore) GetReminder(id int) (model.Reminder, error) {
	var r model.Reminder
	err := s.db.Get(&r, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1;`, id)
	return r, err
}

func (s *pgStore) ListReminders(userID int, state string) ([]model.Reminder, error) {
	var w where
	w.add("user_id = ?", userID)
	if state != "" {
		w.add("state = ?", state)
	}
	out := []model.Reminder{}
	if err := s.db.Select(&out, `SELECT `+reminderColumns+` FROM reminders`+w.String()+` ORDER BY remind_at, id;`, w.args...); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("ListReminders failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListScheduledReminders() ([]model.Reminder, error) {
	out := []model.Reminder{}
	if err := s.db.Select(&out, `
	SELECT `+reminderColumns+` FROM reminders WHERE state = 'scheduled' ORDER BY remind_at, id;`); err != nil {
		log.Error().Err(err).Msg("ListScheduledReminders failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListEventReminders(eventID int) ([]model.Reminder, error) {
	out := []model.Reminder{}
	if err := s.db.Select(&out, `
	SELECT `+reminderColumns+`
	  FROM reminders
	 WHERE target_type = 'event' AND target_id = $1 AND state = 'scheduled'
	 ORDER BY id;`, eventID); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("ListEventReminders failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) RescheduleReminder(id int, remindAt time.Time, attempts int) error {
	return s.execAffecting("RescheduleReminder", `
	UPDATE reminders
	   SET remind_at = $2, attempts = $3, updated_at = now()
	 WHERE id = $1 AND state = 'scheduled';`, id, remindAt, attempts)
}

// MarkReminder moves a scheduled reminder to a final state. at is recorded
// as delivered_at for deliveries.
func (s *pgStore) MarkReminder(id int, state string, at *time.Time) error {
	return s.execAffecting("MarkReminder", `
	UPDATE reminders
	   SET state = $2, delivered_at = COALESCE($3, delivered_at), updated_at = now()
	 WHERE id = $1 AND state = 'scheduled';`, id, state, at)
}
