package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusworks/routine-api/internal/models"
)

const routineColumns = "id, semester_name, day, start_time, end_time, course_id, teacher_id, room_no, section, class_type, created_at, updated_at"

// RoutineRepository handles persistence for routine entries.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository instantiates a routine repository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// List returns routine entries matching provided filters.
func (r *RoutineRepository) List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, int, error) {
	base := "FROM routine_entries WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SemesterName != "" {
		conditions = append(conditions, fmt.Sprintf("semester_name = $%d", len(args)+1))
		args = append(args, filter.SemesterName)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomNo != "" {
		conditions = append(conditions, fmt.Sprintf("room_no = $%d", len(args)+1))
		args = append(args, filter.RoomNo)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "start_time"
	}
	allowedSorts := map[string]bool{
		"semester_name": true,
		"day":           true,
		"start_time":    true,
		"end_time":      true,
		"room_no":       true,
		"section":       true,
		"created_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_time"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", routineColumns, base, sortBy, order, size, offset)

	var entries []models.RoutineEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list routine entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count routine entries: %w", err)
	}

	return entries, total, nil
}

// FindByID loads a routine entry by identifier.
func (r *RoutineRepository) FindByID(ctx context.Context, id string) (*models.RoutineEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE id = $1", routineColumns)
	var entry models.RoutineEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByScope returns every entry for a semester on a given day. The
// conflict check runs against this slice, so no pagination applies.
func (r *RoutineRepository) ListByScope(ctx context.Context, semesterName, day string) ([]models.RoutineEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE semester_name = $1 AND day = $2 ORDER BY start_time ASC", routineColumns)
	var entries []models.RoutineEntry
	if err := r.db.SelectContext(ctx, &entries, query, semesterName, day); err != nil {
		return nil, fmt.Errorf("list routine entries by scope: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns every entry taught by the given teacher, ordered
// for weekly rendering.
func (r *RoutineRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.RoutineEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE teacher_id = $1 ORDER BY day ASC, start_time ASC", routineColumns)
	var entries []models.RoutineEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list routine entries by teacher: %w", err)
	}
	return entries, nil
}

// ListBySemester returns the full routine of a semester across all days.
func (r *RoutineRepository) ListBySemester(ctx context.Context, semesterName string) ([]models.RoutineEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE semester_name = $1 ORDER BY day ASC, start_time ASC", routineColumns)
	var entries []models.RoutineEntry
	if err := r.db.SelectContext(ctx, &entries, query, semesterName); err != nil {
		return nil, fmt.Errorf("list routine entries by semester: %w", err)
	}
	return entries, nil
}

// Create inserts a new routine entry.
func (r *RoutineRepository) Create(ctx context.Context, entry *models.RoutineEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO routine_entries (id, semester_name, day, start_time, end_time, course_id, teacher_id, room_no, section, class_type, created_at, updated_at) VALUES (:id, :semester_name, :day, :start_time, :end_time, :course_id, :teacher_id, :room_no, :section, :class_type, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create routine entry: %w", err)
	}
	return nil
}

// Update modifies an existing routine entry.
func (r *RoutineRepository) Update(ctx context.Context, entry *models.RoutineEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE routine_entries SET semester_name = :semester_name, day = :day, start_time = :start_time, end_time = :end_time, course_id = :course_id, teacher_id = :teacher_id, room_no = :room_no, section = :section, class_type = :class_type, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update routine entry: %w", err)
	}
	return nil
}

// Delete removes a routine entry permanently.
func (r *RoutineRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM routine_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete routine entry: %w", err)
	}
	return nil
}

// CountByCourse returns the number of entries referencing the course code.
func (r *RoutineRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM routine_entries WHERE course_id = $1`, courseID); err != nil {
		return 0, fmt.Errorf("count routine entries by course: %w", err)
	}
	return count, nil
}

// CountByTeacher returns the number of entries assigned to the teacher.
func (r *RoutineRepository) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM routine_entries WHERE teacher_id = $1`, teacherID); err != nil {
		return 0, fmt.Errorf("count routine entries by teacher: %w", err)
	}
	return count, nil
}

// CountByRoom returns the number of entries placed in the room.
func (r *RoutineRepository) CountByRoom(ctx context.Context, roomNo string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM routine_entries WHERE room_no = $1`, roomNo); err != nil {
		return 0, fmt.Errorf("count routine entries by room: %w", err)
	}
	return count, nil
}
