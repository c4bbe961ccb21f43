package models

import "time"

// Teacher models a faculty member who can be assigned to class slots.
// TeacherID is the short faculty code used on the printed routine.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Designation string    `db:"designation" json:"designation"`
	Department  string    `db:"department" json:"department"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter defines filters supported by list endpoints.
type TeacherFilter struct {
	TeacherID  string
	Name       string
	Department string
	IsActive   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
