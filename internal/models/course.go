package models

import "time"

// Course models a curriculum course offered in a semester. CourseID is the
// human-facing course code (e.g. CSE-2101) and is unique across the catalog.
type Course struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Name         string    `db:"name" json:"name"`
	Credit       float64   `db:"credit" json:"credit"`
	Type         ClassType `db:"type" json:"type"`
	SemesterName *string   `db:"semester_name" json:"semester_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter defines filters supported by list endpoints.
type CourseFilter struct {
	CourseID     string
	Name         string
	Type         ClassType
	SemesterName string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
