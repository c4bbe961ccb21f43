package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
	"github.com/campusworks/routine-api/internal/service"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routineServiceMock struct {
	listFn         func(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, *models.Pagination, error)
	getFn          func(ctx context.Context, id string) (*models.RoutineEntry, error)
	createFn       func(ctx context.Context, req service.CreateRoutineEntryRequest) (*models.RoutineEntry, error)
	updateFn       func(ctx context.Context, id string, req service.UpdateRoutineEntryRequest) (*models.RoutineEntry, error)
	deleteFn       func(ctx context.Context, id string) error
	checkFn        func(ctx context.Context, req service.CheckRoutineConflictsRequest) (*service.ConflictCheckResult, error)
	semesterViewFn func(ctx context.Context, semesterName string) ([]service.DayRoutine, error)
	teacherViewFn  func(ctx context.Context, teacherID string) ([]service.DayRoutine, error)
}

func (m *routineServiceMock) List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, *models.Pagination, error) {
	return m.listFn(ctx, filter)
}

func (m *routineServiceMock) Get(ctx context.Context, id string) (*models.RoutineEntry, error) {
	return m.getFn(ctx, id)
}

func (m *routineServiceMock) Create(ctx context.Context, req service.CreateRoutineEntryRequest) (*models.RoutineEntry, error) {
	return m.createFn(ctx, req)
}

func (m *routineServiceMock) Update(ctx context.Context, id string, req service.UpdateRoutineEntryRequest) (*models.RoutineEntry, error) {
	return m.updateFn(ctx, id, req)
}

func (m *routineServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *routineServiceMock) CheckConflicts(ctx context.Context, req service.CheckRoutineConflictsRequest) (*service.ConflictCheckResult, error) {
	return m.checkFn(ctx, req)
}

func (m *routineServiceMock) SemesterRoutine(ctx context.Context, semesterName string) ([]service.DayRoutine, error) {
	return m.semesterViewFn(ctx, semesterName)
}

func (m *routineServiceMock) TeacherRoutine(ctx context.Context, teacherID string) ([]service.DayRoutine, error) {
	return m.teacherViewFn(ctx, teacherID)
}

func routinePayload() map[string]interface{} {
	return map[string]interface{}{
		"semester_name": "Fall 2026",
		"day":           "Monday",
		"start_time":    "10:00",
		"end_time":      "11:30",
		"course_id":     "CSE-2101",
		"teacher_id":    "T1",
		"room_no":       "R1",
		"section":       "A",
		"class_type":    "Theory",
	}
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path string, payload interface{}, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params

	handler(c)
	return w
}

func TestRoutineHandlerCreate(t *testing.T) {
	svc := &routineServiceMock{
		createFn: func(ctx context.Context, req service.CreateRoutineEntryRequest) (*models.RoutineEntry, error) {
			assert.Equal(t, "Fall 2026", req.SemesterName)
			return &models.RoutineEntry{ID: "e1", SemesterName: req.SemesterName, Day: "MONDAY"}, nil
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.Create, http.MethodPost, "/api/v1/routine", routinePayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.RoutineEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "e1", envelope.Data.ID)
}

func TestRoutineHandlerCreateInvalidJSON(t *testing.T) {
	h := NewRoutineHandler(&routineServiceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/routine", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutineHandlerCreateConflict(t *testing.T) {
	conflictErr := &models.RoutineConflictError{
		Message: "routine entry conflicts with existing slots",
		Messages: []string{
			"Overlapping class slot in the same room for the same section.",
			"Overlapping class slot with the same teacher for the same section.",
		},
	}
	svc := &routineServiceMock{
		createFn: func(ctx context.Context, req service.CreateRoutineEntryRequest) (*models.RoutineEntry, error) {
			return nil, appErrors.Wrap(conflictErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictErr.Message)
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.Create, http.MethodPost, "/api/v1/routine", routinePayload())
	assert.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error     *appErrors.Error `json:"error"`
		Conflicts []string         `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error.Code)
	assert.Equal(t, conflictErr.Messages, envelope.Conflicts)
}

func TestRoutineHandlerUpdateNotFound(t *testing.T) {
	svc := &routineServiceMock{
		updateFn: func(ctx context.Context, id string, req service.UpdateRoutineEntryRequest) (*models.RoutineEntry, error) {
			assert.Equal(t, "missing", id)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "routine entry not found")
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.Update, http.MethodPut, "/api/v1/routine/missing", routinePayload(),
		gin.Param{Key: "id", Value: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutineHandlerCheckConflicts(t *testing.T) {
	svc := &routineServiceMock{
		checkFn: func(ctx context.Context, req service.CheckRoutineConflictsRequest) (*service.ConflictCheckResult, error) {
			assert.Equal(t, "e9", req.ExcludeID)
			return &service.ConflictCheckResult{
				HasConflicts: true,
				Messages:     []string{"Overlapping class slot for the same section in different rooms."},
			}, nil
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	payload := routinePayload()
	payload["exclude_id"] = "e9"
	w := performJSON(t, h.CheckConflicts, http.MethodPost, "/api/v1/routine/check-conflicts", payload)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.ConflictCheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.HasConflicts)
	assert.Len(t, envelope.Data.Messages, 1)
}

func TestRoutineHandlerList(t *testing.T) {
	svc := &routineServiceMock{
		listFn: func(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, *models.Pagination, error) {
			assert.Equal(t, "Fall 2026", filter.SemesterName)
			assert.Equal(t, 2, filter.Page)
			return []models.RoutineEntry{{ID: "e1"}}, &models.Pagination{Page: 2, PageSize: 20, TotalCount: 21}, nil
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.List, http.MethodGet, "/api/v1/routine?semester=Fall+2026&page=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.RoutineEntry `json:"data"`
		Pagination *models.Pagination    `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 21, envelope.Pagination.TotalCount)
}

func TestRoutineHandlerSemesterRoutine(t *testing.T) {
	svc := &routineServiceMock{
		semesterViewFn: func(ctx context.Context, semesterName string) ([]service.DayRoutine, error) {
			assert.Equal(t, "Fall 2026", semesterName)
			return []service.DayRoutine{{Day: "MONDAY", Entries: []models.RoutineEntry{{ID: "e1"}}}}, nil
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.SemesterRoutine, http.MethodGet, "/api/v1/routine/semester/Fall%202026", nil,
		gin.Param{Key: "name", Value: "Fall 2026"})
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []service.DayRoutine `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "MONDAY", envelope.Data[0].Day)
}

func TestRoutineHandlerDelete(t *testing.T) {
	svc := &routineServiceMock{
		deleteFn: func(ctx context.Context, id string) error {
			assert.Equal(t, "e1", id)
			return nil
		},
	}
	h := NewRoutineHandler(svc, nil, nil)

	w := performJSON(t, h.Delete, http.MethodDelete, "/api/v1/routine/e1", nil,
		gin.Param{Key: "id", Value: "e1"})
	assert.Equal(t, http.StatusOK, w.Code)
}
