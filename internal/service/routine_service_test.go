package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

type mockRoutineRepo struct {
	mu      sync.Mutex
	items   map[string]*models.RoutineEntry
	scope   []models.RoutineEntry
	created []models.RoutineEntry
	updated []models.RoutineEntry
	deleted []string
}

func (m *mockRoutineRepo) List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, int, error) {
	return m.scope, len(m.scope), nil
}

func (m *mockRoutineRepo) FindByID(ctx context.Context, id string) (*models.RoutineEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.items[id]; ok {
		cp := *entry
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoutineRepo) ListByScope(ctx context.Context, semesterName, day string) ([]models.RoutineEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.RoutineEntry, len(m.scope))
	copy(out, m.scope)
	return out, nil
}

func (m *mockRoutineRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.RoutineEntry, error) {
	return m.scope, nil
}

func (m *mockRoutineRepo) ListBySemester(ctx context.Context, semesterName string) ([]models.RoutineEntry, error) {
	return m.scope, nil
}

func (m *mockRoutineRepo) Create(ctx context.Context, entry *models.RoutineEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = "generated"
	}
	m.created = append(m.created, *entry)
	m.scope = append(m.scope, *entry)
	return nil
}

func (m *mockRoutineRepo) Update(ctx context.Context, entry *models.RoutineEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, *entry)
	return nil
}

func (m *mockRoutineRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type mockReferences struct {
	semesters map[string]bool
	days      map[string]bool
	courses   map[string]*models.Course
	teachers  map[string]bool
	rooms     map[string]bool
	sections  map[string]bool
}

func validReferences() *mockReferences {
	fall := "Fall 2026"
	return &mockReferences{
		semesters: map[string]bool{"Fall 2026": true},
		days:      map[string]bool{"MONDAY": true, "TUESDAY": true},
		courses: map[string]*models.Course{
			"CSE-2101": {CourseID: "CSE-2101", Name: "Data Structures", Type: models.ClassTypeTheory, SemesterName: &fall},
			"CSE-2199": {CourseID: "CSE-2199", Name: "Electives", Type: models.ClassTypeTheory},
		},
		teachers: map[string]bool{"T1": true, "T2": true},
		rooms:    map[string]bool{"R1": true, "R2": true},
		sections: map[string]bool{"A": true, "B": true},
	}
}

func (m *mockReferences) FindByName(ctx context.Context, name string) (*models.Semester, error) {
	if m.semesters[name] {
		return &models.Semester{Name: name}, nil
	}
	return nil, sql.ErrNoRows
}

type mockDayReader struct{ refs *mockReferences }

func (m *mockDayReader) FindByName(ctx context.Context, name string) (*models.Day, error) {
	if m.refs.days[name] {
		return &models.Day{Name: name}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDayReader) List(ctx context.Context, filter models.DayFilter) ([]models.Day, int, error) {
	return []models.Day{{Name: "MONDAY", DayNo: 2}, {Name: "TUESDAY", DayNo: 3}}, 2, nil
}

type mockCourseReader struct{ refs *mockReferences }

func (m *mockCourseReader) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	if course, ok := m.refs.courses[courseID]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

type mockTeacherReader struct{ refs *mockReferences }

func (m *mockTeacherReader) FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	if m.refs.teachers[teacherID] {
		return &models.Teacher{TeacherID: teacherID}, nil
	}
	return nil, sql.ErrNoRows
}

type mockRoomReader struct{ refs *mockReferences }

func (m *mockRoomReader) FindByRoomNo(ctx context.Context, roomNo string) (*models.Room, error) {
	if m.refs.rooms[roomNo] {
		return &models.Room{RoomNo: roomNo}, nil
	}
	return nil, sql.ErrNoRows
}

type mockSectionReader struct{ refs *mockReferences }

func (m *mockSectionReader) FindByName(ctx context.Context, name string) (*models.Section, error) {
	if m.refs.sections[name] {
		return &models.Section{Name: name}, nil
	}
	return nil, sql.ErrNoRows
}

func newTestRoutineService(repo *mockRoutineRepo, refs *mockReferences) *RoutineService {
	return NewRoutineService(
		repo,
		refs,
		&mockDayReader{refs: refs},
		&mockCourseReader{refs: refs},
		&mockTeacherReader{refs: refs},
		&mockRoomReader{refs: refs},
		&mockSectionReader{refs: refs},
		nil,
		time.Minute,
		nil,
		nil,
	)
}

func validCreateRequest() CreateRoutineEntryRequest {
	return CreateRoutineEntryRequest{
		SemesterName: "Fall 2026",
		Day:          "Monday",
		StartTime:    "10:00",
		EndTime:      "11:30",
		CourseID:     "CSE-2101",
		TeacherID:    "T1",
		RoomNo:       "R1",
		Section:      "A",
		ClassType:    models.ClassTypeTheory,
	}
}

func TestRoutineServiceCreate(t *testing.T) {
	repo := &mockRoutineRepo{}
	svc := newTestRoutineService(repo, validReferences())

	entry, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "MONDAY", entry.Day)
	assert.Equal(t, "Fall 2026", entry.SemesterName)
}

func TestRoutineServiceCreateMissingFields(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	req := validCreateRequest()
	req.Section = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoutineServiceCreateInvalidClassType(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	req := validCreateRequest()
	req.ClassType = "Seminar"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidClassType.Code, appErrors.FromError(err).Code)
}

func TestRoutineServiceCreateInvalidInterval(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	req := validCreateRequest()
	req.StartTime = "12:00"
	req.EndTime = "10:00"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInterval.Code, appErrors.FromError(err).Code)

	req = validCreateRequest()
	req.StartTime = "10:00"
	req.EndTime = "10:00"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInterval.Code, appErrors.FromError(err).Code)
}

func TestRoutineServiceCreateBadTimeFormat(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	req := validCreateRequest()
	req.StartTime = "9:00"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoutineServiceCreateUnknownReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRoutineEntryRequest)
		want   string
	}{
		{"semester", func(r *CreateRoutineEntryRequest) { r.SemesterName = "Winter 2099" }, "semester not found"},
		{"day", func(r *CreateRoutineEntryRequest) { r.Day = "FUNDAY" }, "day not found"},
		{"course", func(r *CreateRoutineEntryRequest) { r.CourseID = "CSE-9999" }, "course not found"},
		{"teacher", func(r *CreateRoutineEntryRequest) { r.TeacherID = "T9" }, "teacher not found"},
		{"room", func(r *CreateRoutineEntryRequest) { r.RoomNo = "R9" }, "room not found"},
		{"section", func(r *CreateRoutineEntryRequest) { r.Section = "Z" }, "section not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
			assert.Equal(t, tc.want, appErr.Message)
		})
	}
}

func TestRoutineServiceCreateCourseSemesterMismatch(t *testing.T) {
	refs := validReferences()
	refs.semesters["Spring 2027"] = true
	svc := newTestRoutineService(&mockRoutineRepo{}, refs)

	req := validCreateRequest()
	req.SemesterName = "Spring 2027"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCourseSemesterMismatch.Code, appErr.Code)
	assert.Equal(t, "course CSE-2101 belongs to semester Fall 2026, not Spring 2027", appErr.Message)
}

func TestRoutineServiceCreateUnassignedCourseAnySemester(t *testing.T) {
	refs := validReferences()
	refs.semesters["Spring 2027"] = true
	repo := &mockRoutineRepo{}
	svc := newTestRoutineService(repo, refs)

	req := validCreateRequest()
	req.SemesterName = "Spring 2027"
	req.CourseID = "CSE-2199"
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
}

func TestRoutineServiceCreateDuplicate(t *testing.T) {
	repo := &mockRoutineRepo{scope: []models.RoutineEntry{
		slot("e1", "10:00", "11:30", "T1", "R1", "A"),
	}}
	svc := newTestRoutineService(repo, validReferences())

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntry.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestRoutineServiceCreateConflictReportsAllMessages(t *testing.T) {
	repo := &mockRoutineRepo{scope: []models.RoutineEntry{
		slot("e1", "10:00", "11:00", "T2", "R1", "B"),
		slot("e2", "11:00", "12:00", "T1", "R2", "A"),
	}}
	svc := newTestRoutineService(repo, validReferences())

	req := validCreateRequest()
	req.StartTime = "10:30"
	req.EndTime = "11:30"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflictErr *models.RoutineConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []string{
		msgSameRoomOtherSection,
		msgSameTeacherSameSection,
		msgSameSectionDifferentRoom,
	}, conflictErr.Messages)
	assert.Empty(t, repo.created)
}

func TestRoutineServiceUpdateExcludesSelf(t *testing.T) {
	existing := slot("e1", "10:00", "11:30", "T1", "R1", "A")
	repo := &mockRoutineRepo{
		items: map[string]*models.RoutineEntry{"e1": &existing},
		scope: []models.RoutineEntry{existing},
	}
	svc := newTestRoutineService(repo, validReferences())

	req := UpdateRoutineEntryRequest(validCreateRequest())
	req.StartTime = "10:30"
	req.EndTime = "12:00"
	entry, err := svc.Update(context.Background(), "e1", req)
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "10:30", entry.StartTime)
}

func TestRoutineServiceUpdateUnchangedValues(t *testing.T) {
	existing := slot("e1", "10:00", "11:30", "T1", "R1", "A")
	repo := &mockRoutineRepo{
		items: map[string]*models.RoutineEntry{"e1": &existing},
		scope: []models.RoutineEntry{existing},
	}
	svc := newTestRoutineService(repo, validReferences())

	_, err := svc.Update(context.Background(), "e1", UpdateRoutineEntryRequest(validCreateRequest()))
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
}

func TestRoutineServiceUpdateNotFound(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	_, err := svc.Update(context.Background(), "missing", UpdateRoutineEntryRequest(validCreateRequest()))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRoutineServiceCheckConflictsDryRun(t *testing.T) {
	repo := &mockRoutineRepo{scope: []models.RoutineEntry{
		slot("e1", "10:00", "11:00", "T1", "R1", "A"),
	}}
	svc := newTestRoutineService(repo, validReferences())

	result, err := svc.CheckConflicts(context.Background(), CheckRoutineConflictsRequest{
		CreateRoutineEntryRequest: validCreateRequest(),
	})
	require.NoError(t, err)
	assert.True(t, result.HasConflicts)
	assert.NotEmpty(t, result.Messages)
	assert.Empty(t, repo.created)

	result, err = svc.CheckConflicts(context.Background(), CheckRoutineConflictsRequest{
		CreateRoutineEntryRequest: validCreateRequest(),
		ExcludeID:                 "e1",
	})
	require.NoError(t, err)
	assert.False(t, result.HasConflicts)
}

func TestRoutineServiceConcurrentCreatesSerialized(t *testing.T) {
	repo := &mockRoutineRepo{}
	svc := newTestRoutineService(repo, validReferences())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validCreateRequest())
			results[i] = err
		}(i)
	}
	wg.Wait()

	var okCount, dupCount int
	for _, err := range results {
		if err == nil {
			okCount++
			continue
		}
		if appErrors.FromError(err).Code == appErrors.ErrDuplicateEntry.Code {
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, dupCount)
	assert.Len(t, repo.created, 1)
}

func TestRoutineServiceSemesterRoutineGroupsByDayOrder(t *testing.T) {
	tuesday := slot("e2", "09:00", "10:00", "T2", "R2", "B")
	tuesday.Day = "TUESDAY"
	repo := &mockRoutineRepo{scope: []models.RoutineEntry{
		tuesday,
		slot("e1", "10:00", "11:00", "T1", "R1", "A"),
	}}
	svc := newTestRoutineService(repo, validReferences())

	view, err := svc.SemesterRoutine(context.Background(), "Fall 2026")
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "MONDAY", view[0].Day)
	assert.Equal(t, "TUESDAY", view[1].Day)
}

func TestRoutineServiceSemesterRoutineUnknownSemester(t *testing.T) {
	svc := newTestRoutineService(&mockRoutineRepo{}, validReferences())

	_, err := svc.SemesterRoutine(context.Background(), "Winter 2099")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
