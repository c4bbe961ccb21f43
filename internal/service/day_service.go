package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusworks/routine-api/internal/models"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
)

type dayRepository interface {
	List(ctx context.Context, filter models.DayFilter) ([]models.Day, int, error)
	FindByID(ctx context.Context, id string) (*models.Day, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, day *models.Day) error
	Update(ctx context.Context, day *models.Day) error
	Delete(ctx context.Context, id string) error
	CountRoutineEntries(ctx context.Context, name string) (int, error)
}

// CreateDayRequest describes payload for adding a teaching day.
type CreateDayRequest struct {
	Name  string `json:"name" validate:"required"`
	DayNo int    `json:"day_no" validate:"required,min=1,max=7"`
}

// UpdateDayRequest updates mutable fields on a day.
type UpdateDayRequest struct {
	Name  string `json:"name" validate:"required"`
	DayNo int    `json:"day_no" validate:"required,min=1,max=7"`
}

// DayService orchestrates teaching day workflows. Names are normalized to
// uppercase before storage so lookups from routine placement always match.
type DayService struct {
	repo      dayRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDayService creates a new day service instance.
func NewDayService(repo dayRepository, validate *validator.Validate, logger *zap.Logger) *DayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated days.
func (s *DayService) List(ctx context.Context, filter models.DayFilter) ([]models.Day, *models.Pagination, error) {
	filter.Name = strings.ToUpper(filter.Name)
	days, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list days")
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
	return days, pagination, nil
}

// Get returns a day by ID.
func (s *DayService) Get(ctx context.Context, id string) (*models.Day, error) {
	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}
	return day, nil
}

// Create adds a new teaching day.
func (s *DayService) Create(ctx context.Context, req CreateDayRequest) (*models.Day, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day payload")
	}

	name := strings.ToUpper(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check day uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "day already exists")
	}

	day := &models.Day{Name: name, DayNo: req.DayNo}
	if err := s.repo.Create(ctx, day); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create day")
	}
	return day, nil
}

// Update modifies a day record.
func (s *DayService) Update(ctx context.Context, id string, req UpdateDayRequest) (*models.Day, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day payload")
	}

	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	name := strings.ToUpper(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check day uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "day already exists")
	}

	day.Name = name
	day.DayNo = req.DayNo

	if err := s.repo.Update(ctx, day); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update day")
	}
	return day, nil
}

// Delete removes a day when no routine entries are placed on it.
func (s *DayService) Delete(ctx context.Context, id string) error {
	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "day not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	count, err := s.repo.CountRoutineEntries(ctx, day.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count day routine entries")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "day has routine entries and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete day")
	}
	return nil
}
