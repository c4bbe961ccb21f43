package models

import "time"

// Day models a teaching day of the week. Names are stored uppercase and
// DayNo gives the ordering used when rendering a weekly routine.
type Day struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	DayNo     int       `db:"day_no" json:"day_no"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DayFilter defines filters supported by list endpoints.
type DayFilter struct {
	Name      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
