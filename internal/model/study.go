package model

import (
	"time"

	"github.com/lib/pq"
)

// Study is a Bible-study record. Likes and Favorites are derived from reactions.
type Study struct {
	ID        int            `db:"id"         json:"id"`
	Title     string         `db:"title"      json:"title"`
	Content   string         `db:"content"    json:"content"`
	Verses    pq.StringArray `db:"verses"     json:"verses"`
	Questions pq.StringArray `db:"questions"  json:"questions"`
	Likes     int            `db:"likes"      json:"likes"`
	Favorites int            `db:"favorites"  json:"favorites"`
	CreatedBy int            `db:"created_by" json:"created_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
	Comments  []StudyComment `db:"-"          json:"comments,omitempty"`
}

type StudyComment struct {
	ID        int       `db:"id"         json:"id"`
	StudyID   int       `db:"study_id"   json:"study_id"`
	UserID    int       `db:"user_id"    json:"user_id"`
	Body      string    `db:"body"       json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
