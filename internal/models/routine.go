package models

import "time"

// ClassType enumerates the kinds of class a routine entry can hold.
type ClassType string

const (
	ClassTypeTheory ClassType = "Theory"
	ClassTypeLab    ClassType = "Lab"
)

// Valid reports whether the class type is one of the fixed enum values.
func (t ClassType) Valid() bool {
	return t == ClassTypeTheory || t == ClassTypeLab
}

// RoutineEntry represents one class slot on the timetable. Times are
// zero-padded 24-hour HH:MM strings, so lexicographic comparison matches
// chronological order.
type RoutineEntry struct {
	ID           string    `db:"id" json:"id"`
	SemesterName string    `db:"semester_name" json:"semester_name"`
	Day          string    `db:"day" json:"day"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CourseID     string    `db:"course_id" json:"course_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	RoomNo       string    `db:"room_no" json:"room_no"`
	Section      string    `db:"section" json:"section"`
	ClassType    ClassType `db:"class_type" json:"class_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SameSlotAs reports whether every scheduling field matches the other entry.
// Surrogate id and timestamps are ignored.
func (e RoutineEntry) SameSlotAs(other RoutineEntry) bool {
	return e.SemesterName == other.SemesterName &&
		e.Day == other.Day &&
		e.StartTime == other.StartTime &&
		e.EndTime == other.EndTime &&
		e.CourseID == other.CourseID &&
		e.TeacherID == other.TeacherID &&
		e.RoomNo == other.RoomNo &&
		e.Section == other.Section &&
		e.ClassType == other.ClassType
}

// RoutineFilter describes query params for listing routine entries.
type RoutineFilter struct {
	SemesterName string
	Day          string
	TeacherID    string
	RoomNo       string
	Section      string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// RoutineConflict describes an existing entry that clashes with a candidate.
type RoutineConflict struct {
	EntryID   string `json:"entry_id"`
	CourseID  string `json:"course_id"`
	TeacherID string `json:"teacher_id"`
	RoomNo    string `json:"room_no"`
	Section   string `json:"section"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Message   string `json:"message"`
}

// RoutineConflictError is returned when a candidate entry collides with one
// or more persisted entries. Messages holds every conflict message in rule
// priority order; the list is never truncated to the first clash.
type RoutineConflictError struct {
	Message   string            `json:"message"`
	Conflicts []RoutineConflict `json:"conflicts"`
	Messages  []string          `json:"messages"`
}

// Error implements the error interface for conflict errors.
func (e *RoutineConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
