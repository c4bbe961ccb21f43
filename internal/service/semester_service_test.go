package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

type mockSemesterRepo struct {
	items        map[string]*models.Semester
	routineUsage map[string]int
	created      []models.Semester
	updated      []models.Semester
	deleted      []string
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{
		items:        map[string]*models.Semester{},
		routineUsage: map[string]int{},
	}
}

func (m *mockSemesterRepo) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error) {
	out := make([]models.Semester, 0, len(m.items))
	for _, semester := range m.items {
		out = append(out, *semester)
	}
	return out, len(out), nil
}

func (m *mockSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	if semester, ok := m.items[id]; ok {
		cp := *semester
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSemesterRepo) FindByName(ctx context.Context, name string) (*models.Semester, error) {
	for _, semester := range m.items {
		if semester.Name == name {
			cp := *semester
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSemesterRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, semester := range m.items {
		if semester.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSemesterRepo) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = "generated"
	}
	cp := *semester
	m.items[semester.ID] = &cp
	m.created = append(m.created, cp)
	return nil
}

func (m *mockSemesterRepo) Update(ctx context.Context, semester *models.Semester) error {
	cp := *semester
	m.items[semester.ID] = &cp
	m.updated = append(m.updated, cp)
	return nil
}

func (m *mockSemesterRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSemesterRepo) CountRoutineEntries(ctx context.Context, name string) (int, error) {
	return m.routineUsage[name], nil
}

func TestSemesterServiceCreate(t *testing.T) {
	repo := newMockSemesterRepo()
	svc := NewSemesterService(repo, nil, nil)

	semester, err := svc.Create(context.Background(), CreateSemesterRequest{Name: "Fall 2026", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", semester.Name)
	assert.True(t, semester.IsActive)
	require.Len(t, repo.created, 1)
}

func TestSemesterServiceCreateDuplicateName(t *testing.T) {
	repo := newMockSemesterRepo()
	repo.items["s1"] = &models.Semester{ID: "s1", Name: "Fall 2026"}
	svc := NewSemesterService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSemesterRequest{Name: "Fall 2026"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceCreateMissingName(t *testing.T) {
	svc := NewSemesterService(newMockSemesterRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateSemesterRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceUpdateKeepsOwnName(t *testing.T) {
	repo := newMockSemesterRepo()
	repo.items["s1"] = &models.Semester{ID: "s1", Name: "Fall 2026", IsActive: true}
	svc := NewSemesterService(repo, nil, nil)

	inactive := false
	semester, err := svc.Update(context.Background(), "s1", UpdateSemesterRequest{Name: "Fall 2026", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, semester.IsActive)
	require.Len(t, repo.updated, 1)
}

func TestSemesterServiceUpdateNotFound(t *testing.T) {
	svc := NewSemesterService(newMockSemesterRepo(), nil, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateSemesterRequest{Name: "Fall 2026"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceDeleteBlockedByRoutineEntries(t *testing.T) {
	repo := newMockSemesterRepo()
	repo.items["s1"] = &models.Semester{ID: "s1", Name: "Fall 2026"}
	repo.routineUsage["Fall 2026"] = 4
	svc := NewSemesterService(repo, nil, nil)

	err := svc.Delete(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestSemesterServiceDelete(t *testing.T) {
	repo := newMockSemesterRepo()
	repo.items["s1"] = &models.Semester{ID: "s1", Name: "Fall 2026"}
	svc := NewSemesterService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
}
