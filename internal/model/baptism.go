package model

import "time"

const (
	StudentPending  = "pending"
	StudentApproved = "approved"
	StudentRejected = "rejected"
)

type BaptismClass struct {
	ID        int              `db:"id"         json:"id"`
	Name      string           `db:"name"       json:"name"`
	Teacher   string           `db:"teacher"    json:"teacher"`
	Location  *string          `db:"location"   json:"location"`
	StartsOn  time.Time        `db:"starts_on"  json:"starts_on"`
	EndsOn    time.Time        `db:"ends_on"    json:"ends_on"`
	Capacity  *int             `db:"capacity"   json:"capacity"`
	CreatedBy int              `db:"created_by" json:"created_by"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
	Students  []BaptismStudent `db:"-"          json:"students,omitempty"`
}

// BaptismStudent is a registration inside a baptism class.
type BaptismStudent struct {
	ID           int        `db:"id"            json:"id"`
	ClassID      int        `db:"class_id"      json:"class_id"`
	FullName     string     `db:"full_name"     json:"full_name"`
	Email        *string    `db:"email"         json:"email"`
	Phone        *string    `db:"phone"         json:"phone"`
	Status       string     `db:"status"        json:"status"`
	Baptized     bool       `db:"baptized"      json:"baptized"`
	BaptizedOn   *time.Time `db:"baptized_on"   json:"baptized_on"`
	RegisteredAt time.Time  `db:"registered_at" json:"registered_at"`
}

type BaptismStats struct {
	Total    int `db:"total"    json:"total"`
	Pending  int `db:"pending"  json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
	Baptized int `db:"baptized" json:"baptized"`
}
