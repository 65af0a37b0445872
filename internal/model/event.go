package model

import "time"

type Event struct {
	ID          int             `db:"id"          json:"id"`
	Title       string          `db:"title"       json:"title"`
	Description string          `db:"description" json:"description"`
	Location    *string         `db:"location"    json:"location"`
	StartsAt    time.Time       `db:"starts_at"   json:"starts_at"`
	EndsAt      time.Time       `db:"ends_at"     json:"ends_at"`
	Recurrence  *string         `db:"recurrence"  json:"recurrence"` // cron expression
	CreatedBy   int             `db:"created_by"  json:"created_by"`
	CreatedAt   time.Time       `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"  json:"updated_at"`
	Attendees   []EventAttendee `db:"-"           json:"attendees,omitempty"`
}

type EventAttendee struct {
	EventID      int       `db:"event_id"      json:"event_id"`
	UserID       int       `db:"user_id"       json:"user_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}
