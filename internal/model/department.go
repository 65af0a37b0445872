package model

import (
	"time"

	"github.com/lib/pq"
)

type Department struct {
	ID          int                 `db:"id"          json:"id"`
	Name        string              `db:"name"        json:"name"`
	Description string              `db:"description" json:"description"`
	Leader      *string             `db:"leader"      json:"leader"`
	Members     pq.StringArray      `db:"members"     json:"members"`
	Plans       pq.StringArray      `db:"plans"       json:"plans"`
	Actions     pq.StringArray      `db:"actions"     json:"actions"`
	CreatedAt   time.Time           `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"  json:"updated_at"`
	Committee   []CommitteeMember   `db:"-"           json:"committee,omitempty"`
	Comments    []DepartmentComment `db:"-"           json:"comments,omitempty"`
}

type CommitteeMember struct {
	ID           int    `db:"id"            json:"id"`
	DepartmentID int    `db:"department_id" json:"department_id"`
	Name         string `db:"name"          json:"name"`
	Role         string `db:"role"          json:"role"`
}

// DepartmentComment is a thread entry; top-level comments have no ParentID.
type DepartmentComment struct {
	ID           int                 `db:"id"            json:"id"`
	DepartmentID int                 `db:"department_id" json:"department_id"`
	ParentID     *int                `db:"parent_id"     json:"parent_id"`
	UserID       int                 `db:"user_id"       json:"user_id"`
	Body         string              `db:"body"          json:"body"`
	CreatedAt    time.Time           `db:"created_at"    json:"created_at"`
	Replies      []DepartmentComment `db:"-"             json:"replies,omitempty"`
}
