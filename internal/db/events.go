package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const eventColumns = `id, title, description, location, starts_at, ends_at, recurrence, created_by, created_at, updated_at`

var eventSorts = map[string]string{
	"title":   "title",
	"starts":  "starts_at",
	"created": "created_at",
}

// eventWhere builds the filter shared by the list endpoint and the mirror.
// An event is upcoming while it has not ended.
func eventWhere(search string, f EventFilter) *where {
	var w where
	if f.Upcoming {
		w.add("ends_at > ?", f.Now)
	}
	w.search(search, "title", "description", "location")
	return &w
}

func (s *pgStore) ListEvents(q ListQuery, f EventFilter) ([]model.Event, int, error) {
	q = q.Normalize()
	out := []model.Event{}
	total, err := s.list(&out, "ListEvents",
		`SELECT `+eventColumns+` FROM events`,
		`SELECT count(*) FROM events`,
		eventWhere(q.Search, f), q.orderBy(eventSorts, "starts_at ASC, id ASC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) ListUpcomingEvents(now time.Time, limit int) ([]model.Event, error) {
	w := eventWhere("", EventFilter{Upcoming: true, Now: now})
	args := append(w.args, limit)
	out := []model.Event{}
	err := s.db.Select(&out, `SELECT `+eventColumns+` FROM events`+w.String()+
		fmt.Sprintf(" ORDER BY starts_at, id LIMIT $%d", len(args)), args...)
	if err != nil {
		log.Error().Err(err).Msg("ListUpcomingEvents failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetEvent(id int) (model.Event, error) {
	var e model.Event
	if err := s.db.Get(&e, `SELECT `+eventColumns+` FROM events WHERE id = $1;`, id); err != nil {
		return e, err
	}
	attendees := []model.EventAttendee{}
	if err := s.db.Select(&attendees, `
	SELECT event_id, user_id, registered_at FROM event_attendees WHERE event_id = $1 ORDER BY registered_at;`, id); err != nil {
		log.Error().Err(err).Int("event_id", id).Msg("failed to load attendees")
		return e, err
	}
	e.Attendees = attendees
	return e, nil
}

// FindEvent looks up an event by exact title and start, used to skip duplicates on import.
func (s *pgStore) FindEvent(title string, startsAt time.Time) (model.Event, error) {
	var e model.Event
	err := s.db.Get(&e, `SELECT `+eventColumns+` FROM events WHERE title = $1 AND starts_at = $2 LIMIT 1;`, title, startsAt)
	return e, err
}

func (s *pgStore) CreateEvent(e model.Event) (model.Event, error) {
	var out model.Event
	err := s.db.Get(&out, `
	INSERT INTO events (title, description, location, starts_at, ends_at, recurrence, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING `+eventColumns+`;`,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Recurrence, e.CreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("CreateEvent failed")
	}
	return out, err
}

func (s *pgStore) UpdateEvent(id int, patch EventPatch) (model.Event, error) {
	err := s.execAffecting("UpdateEvent", `
	UPDATE events
	   SET title       = COALESCE($2, title),
	       description = COALESCE($3, description),
	       location    = CASE WHEN $8 THEN NULL ELSE COALESCE($4, location) END,
	       starts_at   = COALESCE($5, starts_at),
	       ends_at     = COALESCE($6, ends_at),
	       recurrence  = CASE WHEN $9 THEN NULL ELSE COALESCE($7, recurrence) END,
	       updated_at  = now()
	 WHERE id = $1;`,
		id, patch.Title, patch.Description, patch.Location, patch.StartsAt, patch.EndsAt, patch.Recurrence,
		patch.ClearLocation, patch.ClearRecurrence)
	if err != nil {
		return model.Event{}, err
	}
	return s.GetEvent(id)
}

func (s *pgStore) DeleteEvent(id int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reactions WHERE target_type = 'event' AND target_id = $1;`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE reminders SET state = 'cancelled', updated_at = now()
	                       WHERE target_type = 'event' AND target_id = $1 AND state = 'scheduled';`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("event_id", id).Msg("DeleteEvent failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (s *pgStore) AddAttendee(eventID, userID int) error {
	_, err := s.db.Exec(`
	INSERT INTO event_attendees (event_id, user_id, registered_at)
	VALUES ($1, $2, now())
	ON CONFLICT DO NOTHING;`, eventID, userID)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Int("user_id", userID).Msg("AddAttendee failed")
	}
	return err
}

func (s *pgStore) RemoveAttendee(eventID, userID int) error {
	_, err := s.db.Exec(`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2;`, eventID, userID)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Int("user_id", userID).Msg("RemoveAttendee failed")
	}
	return err
}
