package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusworks/routine-api/internal/models"
	"github.com/campusworks/routine-api/internal/service"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
	"github.com/campusworks/routine-api/pkg/response"
)

type routineService interface {
	List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.RoutineEntry, error)
	Create(ctx context.Context, req service.CreateRoutineEntryRequest) (*models.RoutineEntry, error)
	Update(ctx context.Context, id string, req service.UpdateRoutineEntryRequest) (*models.RoutineEntry, error)
	Delete(ctx context.Context, id string) error
	CheckConflicts(ctx context.Context, req service.CheckRoutineConflictsRequest) (*service.ConflictCheckResult, error)
	SemesterRoutine(ctx context.Context, semesterName string) ([]service.DayRoutine, error)
	TeacherRoutine(ctx context.Context, teacherID string) ([]service.DayRoutine, error)
}

// RoutineHandler exposes class slot placement and routine view endpoints.
type RoutineHandler struct {
	service routineService
	metrics *service.MetricsService
	logger  *zap.Logger
}

// NewRoutineHandler constructs a routine handler. Metrics may be nil.
func NewRoutineHandler(svc routineService, metrics *service.MetricsService, logger *zap.Logger) *RoutineHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineHandler{service: svc, metrics: metrics, logger: logger}
}

// List godoc
// @Summary List routine entries
// @Description List routine entries with filters
// @Tags Routine
// @Produce json
// @Param semester query string false "Filter by semester name"
// @Param day query string false "Filter by day"
// @Param teacherId query string false "Filter by teacher code"
// @Param room query string false "Filter by room"
// @Param section query string false "Filter by section"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /routine [get]
func (h *RoutineHandler) List(c *gin.Context) {
	var filter models.RoutineFilter
	filter.SemesterName = c.Query("semester")
	filter.Day = c.Query("day")
	filter.TeacherID = c.Query("teacherId")
	filter.RoomNo = c.Query("room")
	filter.Section = c.Query("section")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get routine entry
// @Tags Routine
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /routine/{id} [get]
func (h *RoutineHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Place a class slot
// @Description Validates references, detects conflicts and saves the slot
// @Tags Routine
// @Accept json
// @Produce json
// @Param payload body service.CreateRoutineEntryRequest true "Routine entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routine [post]
func (h *RoutineHandler) Create(c *gin.Context) {
	var req service.CreateRoutineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.recordCheck(err)
		response.Error(c, err)
		return
	}
	h.recordCheck(nil)
	h.audit(c, "routine entry placed", entry)
	response.Created(c, entry)
}

// Update godoc
// @Summary Reschedule a class slot
// @Tags Routine
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateRoutineEntryRequest true "Routine entry payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routine/{id} [put]
func (h *RoutineHandler) Update(c *gin.Context) {
	var req service.UpdateRoutineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.recordCheck(err)
		response.Error(c, err)
		return
	}
	h.recordCheck(nil)
	h.audit(c, "routine entry rescheduled", entry)
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete routine entry
// @Tags Routine
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /routine/{id} [delete]
func (h *RoutineHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// CheckConflicts godoc
// @Summary Check a candidate slot for conflicts
// @Description Dry-runs the placement pipeline without saving anything
// @Tags Routine
// @Accept json
// @Produce json
// @Param payload body service.CheckRoutineConflictsRequest true "Candidate slot payload"
// @Success 200 {object} response.Envelope
// @Router /routine/check-conflicts [post]
func (h *RoutineHandler) CheckConflicts(c *gin.Context) {
	var req service.CheckRoutineConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordConflictCheck(result.HasConflicts)
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SemesterRoutine godoc
// @Summary Weekly routine of a semester
// @Tags Routine
// @Produce json
// @Param name path string true "Semester name"
// @Success 200 {object} response.Envelope
// @Router /routine/semester/{name} [get]
func (h *RoutineHandler) SemesterRoutine(c *gin.Context) {
	view, err := h.service.SemesterRoutine(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// TeacherRoutine godoc
// @Summary Weekly routine of a teacher
// @Tags Routine
// @Produce json
// @Param teacherId path string true "Teacher code"
// @Success 200 {object} response.Envelope
// @Router /routine/teacher/{teacherId} [get]
func (h *RoutineHandler) TeacherRoutine(c *gin.Context) {
	view, err := h.service.TeacherRoutine(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func (h *RoutineHandler) recordCheck(err error) {
	if h.metrics == nil {
		return
	}
	if err == nil {
		h.metrics.RecordConflictCheck(false)
		return
	}
	appErr := appErrors.FromError(err)
	h.metrics.RecordConflictCheck(appErr.Code == appErrors.ErrConflict.Code || appErr.Code == appErrors.ErrDuplicateEntry.Code)
}

func (h *RoutineHandler) audit(c *gin.Context, msg string, entry *models.RoutineEntry) {
	actor := "anonymous"
	if claims := claimsFromContext(c); claims != nil {
		actor = claims.UserID
	}
	h.logger.Info(msg,
		zap.String("actor", actor),
		zap.String("entry_id", entry.ID),
		zap.String("semester", entry.SemesterName),
		zap.String("day", entry.Day),
	)
}
