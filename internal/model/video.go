package model

import "time"

type Video struct {
	ID           int       `db:"id"            json:"id"`
	Title        string    `db:"title"         json:"title"`
	Category     string    `db:"category"      json:"category"`
	URL          string    `db:"url"           json:"url"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url"`
	PublishedAt  time.Time `db:"published_at"  json:"published_at"`
	CreatedBy    int       `db:"created_by"    json:"created_by"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
