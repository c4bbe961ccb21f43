package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusworks/routine-api/internal/models"
)

// DayRepository handles persistence for teaching days.
type DayRepository struct {
	db *sqlx.DB
}

// NewDayRepository instantiates a day repository.
func NewDayRepository(db *sqlx.DB) *DayRepository {
	return &DayRepository{db: db}
}

// List returns days matching provided filters, ordered by day number.
func (r *DayRepository) List(ctx context.Context, filter models.DayFilter) ([]models.Day, int, error) {
	base := "FROM days WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, filter.Name)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":   true,
		"day_no": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "day_no"
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

	query := fmt.Sprintf("SELECT id, name, day_no, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)

	var days []models.Day
	if err := r.db.SelectContext(ctx, &days, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list days: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count days: %w", err)
	}

	return days, total, nil
}

// FindByID loads a day by identifier.
func (r *DayRepository) FindByID(ctx context.Context, id string) (*models.Day, error) {
	const query = `SELECT id, name, day_no, created_at, updated_at FROM days WHERE id = $1`
	var day models.Day
	if err := r.db.GetContext(ctx, &day, query, id); err != nil {
		return nil, err
	}
	return &day, nil
}

// FindByName loads a day by its uppercase name.
func (r *DayRepository) FindByName(ctx context.Context, name string) (*models.Day, error) {
	const query = `SELECT id, name, day_no, created_at, updated_at FROM days WHERE name = $1`
	var day models.Day
	if err := r.db.GetContext(ctx, &day, query, name); err != nil {
		return nil, err
	}
	return &day, nil
}

// ExistsByName checks whether a day with the name already exists.
func (r *DayRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	base := "SELECT 1 FROM days WHERE name = $1"
	args := []interface{}{name}
	if excludeID != "" {
		base += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check day uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new day record.
func (r *DayRepository) Create(ctx context.Context, day *models.Day) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if day.CreatedAt.IsZero() {
		day.CreatedAt = now
	}
	day.UpdatedAt = now

	const query = `INSERT INTO days (id, name, day_no, created_at, updated_at) VALUES (:id, :name, :day_no, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("create day: %w", err)
	}
	return nil
}

// Update modifies an existing day.
func (r *DayRepository) Update(ctx context.Context, day *models.Day) error {
	day.UpdatedAt = time.Now().UTC()
	const query = `UPDATE days SET name = :name, day_no = :day_no, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("update day: %w", err)
	}
	return nil
}

// Delete removes a day permanently.
func (r *DayRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM days WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	return nil
}

// CountRoutineEntries returns the number of routine entries on the day.
func (r *DayRepository) CountRoutineEntries(ctx context.Context, name string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM routine_entries WHERE day = $1`, name); err != nil {
		return 0, fmt.Errorf("count day routine entries: %w", err)
	}
	return count, nil
}
