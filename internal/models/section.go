package models

import "time"

// Section models a student section (e.g. A, B) within a batch.
type Section struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BatchName string    `db:"batch_name" json:"batch_name"`
	Strength  int       `db:"strength" json:"strength"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SectionFilter defines filters supported by list endpoints.
type SectionFilter struct {
	Name      string
	BatchName string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
