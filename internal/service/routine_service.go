package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusworks/routine-api/internal/models"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

type routineRepository interface {
	List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, int, error)
	FindByID(ctx context.Context, id string) (*models.RoutineEntry, error)
	ListByScope(ctx context.Context, semesterName, day string) ([]models.RoutineEntry, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.RoutineEntry, error)
	ListBySemester(ctx context.Context, semesterName string) ([]models.RoutineEntry, error)
	Create(ctx context.Context, entry *models.RoutineEntry) error
	Update(ctx context.Context, entry *models.RoutineEntry) error
	Delete(ctx context.Context, id string) error
}

type semesterReader interface {
	FindByName(ctx context.Context, name string) (*models.Semester, error)
}

type dayReader interface {
	FindByName(ctx context.Context, name string) (*models.Day, error)
	List(ctx context.Context, filter models.DayFilter) ([]models.Day, int, error)
}

type courseReader interface {
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
}

type teacherReader interface {
	FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error)
}

type roomReader interface {
	FindByRoomNo(ctx context.Context, roomNo string) (*models.Room, error)
}

type sectionReader interface {
	FindByName(ctx context.Context, name string) (*models.Section, error)
}

// RoutineCache is the cache surface used for assembled routine views.
type RoutineCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateRoutineEntryRequest describes payload for placing a class slot.
type CreateRoutineEntryRequest struct {
	SemesterName string           `json:"semester_name" validate:"required"`
	Day          string           `json:"day" validate:"required"`
	StartTime    string           `json:"start_time" validate:"required"`
	EndTime      string           `json:"end_time" validate:"required"`
	CourseID     string           `json:"course_id" validate:"required"`
	TeacherID    string           `json:"teacher_id" validate:"required"`
	RoomNo       string           `json:"room_no" validate:"required"`
	Section      string           `json:"section" validate:"required"`
	ClassType    models.ClassType `json:"class_type" validate:"required"`
}

// UpdateRoutineEntryRequest replaces every scheduling field of a slot.
type UpdateRoutineEntryRequest struct {
	SemesterName string           `json:"semester_name" validate:"required"`
	Day          string           `json:"day" validate:"required"`
	StartTime    string           `json:"start_time" validate:"required"`
	EndTime      string           `json:"end_time" validate:"required"`
	CourseID     string           `json:"course_id" validate:"required"`
	TeacherID    string           `json:"teacher_id" validate:"required"`
	RoomNo       string           `json:"room_no" validate:"required"`
	Section      string           `json:"section" validate:"required"`
	ClassType    models.ClassType `json:"class_type" validate:"required"`
}

// CheckRoutineConflictsRequest probes a candidate slot without saving it.
// ExcludeID lets a reschedule preflight ignore the entry being moved.
type CheckRoutineConflictsRequest struct {
	CreateRoutineEntryRequest
	ExcludeID string `json:"exclude_id"`
}

// ConflictCheckResult reports what a candidate slot would collide with.
type ConflictCheckResult struct {
	HasConflicts bool                     `json:"has_conflicts"`
	Duplicate    bool                     `json:"duplicate"`
	Conflicts    []models.RoutineConflict `json:"conflicts"`
	Messages     []string                 `json:"messages"`
}

// DayRoutine groups one day's slots for weekly rendering.
type DayRoutine struct {
	Day     string                `json:"day"`
	Entries []models.RoutineEntry `json:"entries"`
}

// RoutineService orchestrates class slot placement, conflict detection and
// routine views.
type RoutineService struct {
	repo      routineRepository
	semesters semesterReader
	days      dayReader
	courses   courseReader
	teachers  teacherReader
	rooms     roomReader
	sections  sectionReader
	cache     RoutineCache
	cacheTTL  time.Duration
	scopes    *scopeLock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoutineService creates a new routine service instance. Cache may be nil
// when routine view caching is disabled.
func NewRoutineService(
	repo routineRepository,
	semesters semesterReader,
	days dayReader,
	courses courseReader,
	teachers teacherReader,
	rooms roomReader,
	sections sectionReader,
	cache RoutineCache,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &RoutineService{
		repo:      repo,
		semesters: semesters,
		days:      days,
		courses:   courses,
		teachers:  teachers,
		rooms:     rooms,
		sections:  sections,
		cache:     cache,
		cacheTTL:  cacheTTL,
		scopes:    newScopeLock(),
		validator: validate,
		logger:    logger,
	}
}

// List returns paginated routine entries.
func (s *RoutineService) List(ctx context.Context, filter models.RoutineFilter) ([]models.RoutineEntry, *models.Pagination, error) {
	filter.Day = strings.ToUpper(filter.Day)
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routine entries")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return entries, pagination, nil
}

// Get returns a routine entry by ID.
func (s *RoutineService) Get(ctx context.Context, id string) (*models.RoutineEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "routine entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine entry")
	}
	return entry, nil
}

// Create places a new class slot after full validation and conflict
// detection. The check and insert run under the scope lock so a concurrent
// writer cannot sneak a clashing slot in between.
func (s *RoutineService) Create(ctx context.Context, req CreateRoutineEntryRequest) (*models.RoutineEntry, error) {
	candidate, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	release := s.scopes.acquire(candidate.SemesterName, candidate.Day)
	defer release()

	scope, err := s.repo.ListByScope(ctx, candidate.SemesterName, candidate.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check routine conflicts")
	}

	if dup := findDuplicate(candidate, scope, ""); dup != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntry, "identical routine entry already exists")
	}

	if conflicts := detectConflicts(candidate, scope, ""); len(conflicts) > 0 {
		return nil, s.wrapConflicts(conflicts)
	}

	if err := s.repo.Create(ctx, &candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create routine entry")
	}

	s.invalidateViews(ctx)
	return &candidate, nil
}

// Update reschedules an existing slot, excluding it from its own conflict
// check.
func (s *RoutineService) Update(ctx context.Context, id string, req UpdateRoutineEntryRequest) (*models.RoutineEntry, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "routine entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine entry")
	}

	candidate, err := s.resolve(ctx, CreateRoutineEntryRequest(req))
	if err != nil {
		return nil, err
	}
	candidate.ID = existing.ID
	candidate.CreatedAt = existing.CreatedAt

	release := s.scopes.acquire(candidate.SemesterName, candidate.Day)
	defer release()

	scope, err := s.repo.ListByScope(ctx, candidate.SemesterName, candidate.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check routine conflicts")
	}

	if dup := findDuplicate(candidate, scope, existing.ID); dup != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntry, "identical routine entry already exists")
	}

	if conflicts := detectConflicts(candidate, scope, existing.ID); len(conflicts) > 0 {
		return nil, s.wrapConflicts(conflicts)
	}

	if err := s.repo.Update(ctx, &candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update routine entry")
	}

	s.invalidateViews(ctx)
	return &candidate, nil
}

// Delete removes a routine entry.
func (s *RoutineService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "routine entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine entry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete routine entry")
	}

	s.invalidateViews(ctx)
	return nil
}

// CheckConflicts dry-runs the placement pipeline for a candidate slot and
// reports what it would collide with. Nothing is written.
func (s *RoutineService) CheckConflicts(ctx context.Context, req CheckRoutineConflictsRequest) (*ConflictCheckResult, error) {
	candidate, err := s.resolve(ctx, req.CreateRoutineEntryRequest)
	if err != nil {
		return nil, err
	}

	scope, err := s.repo.ListByScope(ctx, candidate.SemesterName, candidate.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check routine conflicts")
	}

	result := &ConflictCheckResult{
		Duplicate: findDuplicate(candidate, scope, req.ExcludeID) != nil,
		Conflicts: detectConflicts(candidate, scope, req.ExcludeID),
	}
	for _, c := range result.Conflicts {
		result.Messages = append(result.Messages, c.Message)
	}
	result.HasConflicts = len(result.Conflicts) > 0 || result.Duplicate
	return result, nil
}

// SemesterRoutine returns the full weekly routine of a semester grouped by
// day in day-number order.
func (s *RoutineService) SemesterRoutine(ctx context.Context, semesterName string) ([]DayRoutine, error) {
	if _, err := s.semesters.FindByName(ctx, semesterName); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	cacheKey := "routine:semester:" + semesterName
	if s.cache != nil {
		var cached []DayRoutine
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.ListBySemester(ctx, semesterName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester routine")
	}

	view, err := s.groupByDay(ctx, entries)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache semester routine", zap.String("semester", semesterName), zap.Error(err))
		}
	}
	return view, nil
}

// TeacherRoutine returns the weekly routine of a teacher grouped by day.
func (s *RoutineService) TeacherRoutine(ctx context.Context, teacherID string) ([]DayRoutine, error) {
	if _, err := s.teachers.FindByTeacherID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	cacheKey := "routine:teacher:" + teacherID
	if s.cache != nil {
		var cached []DayRoutine
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher routine")
	}

	view, err := s.groupByDay(ctx, entries)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache teacher routine", zap.String("teacher_id", teacherID), zap.Error(err))
		}
	}
	return view, nil
}

// resolve validates the payload, normalizes it and verifies every reference
// exists. References are checked in a fixed order so error messages are
// deterministic: semester, day, course, teacher, room, section.
func (s *RoutineService) resolve(ctx context.Context, req CreateRoutineEntryRequest) (models.RoutineEntry, error) {
	var zero models.RoutineEntry

	if err := s.validator.Struct(req); err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine entry payload")
	}

	if !req.ClassType.Valid() {
		return zero, appErrors.Clone(appErrors.ErrInvalidClassType, "class type must be Theory or Lab")
	}

	if !validTime(req.StartTime) || !validTime(req.EndTime) {
		return zero, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time must be 24-hour HH:MM")
	}
	if req.StartTime >= req.EndTime {
		return zero, appErrors.Clone(appErrors.ErrInvalidInterval, "start time must be before end time")
	}

	day := strings.ToUpper(req.Day)

	if _, err := s.semesters.FindByName(ctx, req.SemesterName); err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	if _, err := s.days.FindByName(ctx, day); err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "day not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	course, err := s.courses.FindByCourseID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if _, err := s.teachers.FindByTeacherID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	if _, err := s.rooms.FindByRoomNo(ctx, req.RoomNo); err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	if _, err := s.sections.FindByName(ctx, req.Section); err != nil {
		if err == sql.ErrNoRows {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	if course.SemesterName != nil && *course.SemesterName != req.SemesterName {
		msg := fmt.Sprintf("course %s belongs to semester %s, not %s", req.CourseID, *course.SemesterName, req.SemesterName)
		return zero, appErrors.Clone(appErrors.ErrCourseSemesterMismatch, msg)
	}

	return models.RoutineEntry{
		SemesterName: req.SemesterName,
		Day:          day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CourseID:     req.CourseID,
		TeacherID:    req.TeacherID,
		RoomNo:       req.RoomNo,
		Section:      req.Section,
		ClassType:    req.ClassType,
	}, nil
}

func (s *RoutineService) wrapConflicts(conflicts []models.RoutineConflict) error {
	messages := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		messages = append(messages, c.Message)
	}
	domainErr := &models.RoutineConflictError{
		Message:   "routine entry conflicts with existing slots",
		Conflicts: conflicts,
		Messages:  messages,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, domainErr.Message)
}

// groupByDay orders entries into day buckets using the day table ordering.
// Days with no entries are omitted.
func (s *RoutineService) groupByDay(ctx context.Context, entries []models.RoutineEntry) ([]DayRoutine, error) {
	days, _, err := s.days.List(ctx, models.DayFilter{PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load days")
	}

	buckets := make(map[string][]models.RoutineEntry, len(days))
	for _, entry := range entries {
		buckets[entry.Day] = append(buckets[entry.Day], entry)
	}

	view := make([]DayRoutine, 0, len(days))
	for _, day := range days {
		slots, ok := buckets[day.Name]
		if !ok {
			continue
		}
		view = append(view, DayRoutine{Day: day.Name, Entries: slots})
		delete(buckets, day.Name)
	}

	// entries on a day no longer present in the day table still render last
	for name, slots := range buckets {
		view = append(view, DayRoutine{Day: name, Entries: slots})
	}
	return view, nil
}

func (s *RoutineService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "routine:*"); err != nil {
		s.logger.Warn("failed to invalidate routine view cache", zap.Error(err))
	}
}
