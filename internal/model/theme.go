package model

import "time"

// WeeklyTheme runs for the week starting on WeekStart (always a Monday).
type WeeklyTheme struct {
	ID        int         `db:"id"         json:"id"`
	Title     string      `db:"title"      json:"title"`
	Verse     string      `db:"verse"      json:"verse"`
	WeekStart time.Time   `db:"week_start" json:"week_start"`
	Summary   *string     `db:"summary"    json:"summary"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
	Plans     []ThemePlan `db:"-"          json:"plans,omitempty"`
}

type ThemePlan struct {
	ID       int    `db:"id"       json:"id"`
	ThemeID  int    `db:"theme_id" json:"theme_id"`
	Day      int    `db:"day"      json:"day"` // 0 = Monday
	Activity string `db:"activity" json:"activity"`
}
