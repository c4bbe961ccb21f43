package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusworks/routine-api/internal/models"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	ExistsByCourseID(ctx context.Context, courseID, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseSemesterReader interface {
	FindByName(ctx context.Context, name string) (*models.Semester, error)
}

type courseUsageCounter interface {
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

// CreateCourseRequest describes payload for creating curriculum courses.
type CreateCourseRequest struct {
	CourseID     string           `json:"course_id" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Credit       float64          `json:"credit" validate:"required,gt=0"`
	Type         models.ClassType `json:"type" validate:"required"`
	SemesterName *string          `json:"semester_name"`
}

// UpdateCourseRequest updates mutable fields on a course.
type UpdateCourseRequest struct {
	CourseID     string           `json:"course_id" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Credit       float64          `json:"credit" validate:"required,gt=0"`
	Type         models.ClassType `json:"type" validate:"required"`
	SemesterName *string          `json:"semester_name"`
}

// CourseService orchestrates course catalog workflows.
type CourseService struct {
	repo      courseRepository
	semesters courseSemesterReader
	usage     courseUsageCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service instance.
func NewCourseService(repo courseRepository, semesters courseSemesterReader, usage courseUsageCounter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, semesters: semesters, usage: usage, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
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
	return courses, pagination, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course ensuring code uniqueness and a valid semester
// assignment.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidClassType, "class type must be Theory or Lab")
	}

	if err := s.checkSemester(ctx, req.SemesterName); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCourseID(ctx, req.CourseID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
	}

	course := &models.Course{
		CourseID:     req.CourseID,
		Name:         req.Name,
		Credit:       req.Credit,
		Type:         req.Type,
		SemesterName: req.SemesterName,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies a course record.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidClassType, "class type must be Theory or Lab")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.checkSemester(ctx, req.SemesterName); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCourseID(ctx, req.CourseID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
	}

	course.CourseID = req.CourseID
	course.Name = req.Name
	course.Credit = req.Credit
	course.Type = req.Type
	course.SemesterName = req.SemesterName

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course when no routine entries reference it.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	count, err := s.usage.CountByCourse(ctx, course.CourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count course routine entries")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has routine entries and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) checkSemester(ctx context.Context, name *string) error {
	if name == nil || *name == "" {
		return nil
	}
	if _, err := s.semesters.FindByName(ctx, *name); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return nil
}
