package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	ReminderScheduled = "scheduled"
	ReminderDelivered = "delivered"
	ReminderMissed    = "missed"
	ReminderCancelled = "cancelled"
)

const (
	TargetEvent     = "event"
	TargetStudy     = "study"
	TargetPreaching = "preaching"
	TargetVideo     = "video"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

type Reminder struct {
	ID          int            `db:"id"           json:"id"`
	UserID      int            `db:"user_id"      json:"user_id"`
	TargetType  string         `db:"target_type"  json:"target_type"`
	TargetID    int            `db:"target_id"    json:"target_id"`
	RemindAt    time.Time      `db:"remind_at"    json:"remind_at"`
	CronExpr    *string        `db:"cron_expr"    json:"cron"`
	Explicit    bool           `db:"explicit"     json:"-"` // remind_at chosen by the user
	State       string         `db:"state"        json:"state"`
	Attempts    int            `db:"attempts"     json:"-"`
	Channels    pq.StringArray `db:"channels"     json:"channels"`
	Note        *string        `db:"note"         json:"note"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
	DeliveredAt *time.Time     `db:"delivered_at" json:"delivered_at"`
}

func (r *Reminder) Recurring() bool {
	return r.CronExpr != nil && *r.CronExpr != ""
}
