package model

import "time"

type Choir struct {
	ID          int       `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Description string    `db:"description" json:"description"`
	Leader      *string   `db:"leader"      json:"leader"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
	Songs       []Song    `db:"-"           json:"songs,omitempty"`
}

type Song struct {
	ID        int       `db:"id"         json:"id"`
	ChoirID   int       `db:"choir_id"   json:"choir_id"`
	Title     string    `db:"title"      json:"title"`
	Lyrics    *string   `db:"lyrics"     json:"lyrics"`
	AudioURL  *string   `db:"audio_url"  json:"audio_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
