package models

import "time"

// Batch models an intake of students admitted in the same session.
type Batch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Session   string    `db:"session" json:"session"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BatchFilter defines filters supported by list endpoints.
type BatchFilter struct {
	Name      string
	Session   string
	IsActive  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
