package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	PreachingDaily  = "daily"
	PreachingSunday = "sunday"
)

// Preaching is a dated sermon or devotional.
type Preaching struct {
	ID          int            `db:"id"          json:"id"`
	Title       string         `db:"title"       json:"title"`
	Preacher    string         `db:"preacher"    json:"preacher"`
	Kind        string         `db:"kind"        json:"kind"`
	PreachedOn  time.Time      `db:"preached_on" json:"preached_on"`
	Verses      pq.StringArray `db:"verses"      json:"verses"`
	Description string         `db:"description" json:"description"`
	AudioURL    *string        `db:"audio_url"   json:"audio_url"`
	CreatedBy   int            `db:"created_by"  json:"created_by"`
	CreatedAt   time.Time      `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"  json:"updated_at"`
}
