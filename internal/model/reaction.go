package model

import "time"

const (
	ReactionBookmark = "bookmark"
	ReactionLike     = "like"
	ReactionFavorite = "favorite"
)

// Reaction is a per-user bookmark, like or favorite on a piece of content.
type Reaction struct {
	UserID     int       `db:"user_id"     json:"user_id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   int       `db:"target_id"   json:"target_id"`
	Kind       string    `db:"kind"        json:"kind"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

type ReactionCount struct {
	Kind  string `db:"kind"  json:"kind"`
	Count int    `db:"count" json:"count"`
}
