package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
)

func newRoutineMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func routineRows(entries ...models.RoutineEntry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "semester_name", "day", "start_time", "end_time",
		"course_id", "teacher_id", "room_no", "section", "class_type",
		"created_at", "updated_at",
	})
	for _, e := range entries {
		rows.AddRow(e.ID, e.SemesterName, e.Day, e.StartTime, e.EndTime,
			e.CourseID, e.TeacherID, e.RoomNo, e.Section, e.ClassType,
			e.CreatedAt, e.UpdatedAt)
	}
	return rows
}

func TestRoutineRepositoryListDefaults(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	entry := models.RoutineEntry{
		ID: "e1", SemesterName: "Fall 2026", Day: "MONDAY",
		StartTime: "10:00", EndTime: "11:30",
		CourseID: "CSE-2101", TeacherID: "T1", RoomNo: "R1",
		Section: "A", ClassType: models.ClassTypeTheory,
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT " + routineColumns + " FROM routine_entries WHERE 1=1 ORDER BY start_time ASC LIMIT 20 OFFSET 0",
	)).WillReturnRows(routineRows(entry))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM routine_entries WHERE 1=1",
	)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.RoutineFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryListFiltered(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+routineColumns+" FROM routine_entries WHERE 1=1 AND semester_name = $1 AND day = $2 ORDER BY day ASC LIMIT 10 OFFSET 10",
	)).WithArgs("Fall 2026", "MONDAY").WillReturnRows(routineRows())
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM routine_entries WHERE 1=1 AND semester_name = $1 AND day = $2",
	)).WithArgs("Fall 2026", "MONDAY").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.RoutineFilter{
		SemesterName: "Fall 2026",
		Day:          "MONDAY",
		SortBy:       "day",
		Page:         2,
		PageSize:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryListRejectsUnknownSort(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT " + routineColumns + " FROM routine_entries WHERE 1=1 ORDER BY start_time ASC LIMIT 20 OFFSET 0",
	)).WillReturnRows(routineRows())
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM routine_entries WHERE 1=1",
	)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.RoutineFilter{
		SortBy:    "teacher_id; DROP TABLE routine_entries",
		SortOrder: "sideways",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryListByScope(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+routineColumns+" FROM routine_entries WHERE semester_name = $1 AND day = $2 ORDER BY start_time ASC",
	)).WithArgs("Fall 2026", "MONDAY").WillReturnRows(routineRows(
		models.RoutineEntry{ID: "e1", SemesterName: "Fall 2026", Day: "MONDAY", StartTime: "08:00", EndTime: "09:30"},
		models.RoutineEntry{ID: "e2", SemesterName: "Fall 2026", Day: "MONDAY", StartTime: "10:00", EndTime: "11:30"},
	))

	entries, err := repo.ListByScope(context.Background(), "Fall 2026", "MONDAY")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryCreateAssignsID(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectExec("INSERT INTO routine_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := models.RoutineEntry{
		SemesterName: "Fall 2026", Day: "MONDAY",
		StartTime: "10:00", EndTime: "11:30",
		CourseID: "CSE-2101", TeacherID: "T1", RoomNo: "R1",
		Section: "A", ClassType: models.ClassTypeTheory,
	}
	err := repo.Create(context.Background(), &entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryUpdate(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectExec("UPDATE routine_entries SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := models.RoutineEntry{ID: "e1", SemesterName: "Fall 2026", Day: "MONDAY"}
	err := repo.Update(context.Background(), &entry)
	require.NoError(t, err)
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryDelete(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM routine_entries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryCountByTeacher(t *testing.T) {
	db, mock := newRoutineMockDB(t)
	repo := NewRoutineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM routine_entries WHERE teacher_id = $1")).
		WithArgs("T1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByTeacher(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
