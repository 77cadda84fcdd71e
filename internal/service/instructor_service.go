package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type instructorStore interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	Delete(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, instructorID string) ([]models.InstructorAvailability, error)
	CreateAvailability(ctx context.Context, window *models.InstructorAvailability) error
	DeleteAvailability(ctx context.Context, id string) error
	ListPreferences(ctx context.Context, instructorID string) ([]models.InstructorPreference, error)
	UpsertPreference(ctx context.Context, pref *models.InstructorPreference) error
}

// DefaultMaxHoursPerWeek applies when an instructor is registered without an
// explicit weekly budget.
const DefaultMaxHoursPerWeek = 40

// InstructorService manages instructors, their availability windows, and
// course preferences.
type InstructorService struct {
	repo      instructorStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs the instructor service.
func NewInstructorService(repo instructorStore, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// List returns instructors with pagination metadata.
func (s *InstructorService) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, *models.Pagination, error) {
	instructors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return instructors, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one instructor.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

// Create registers a new instructor.
func (s *InstructorService) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := &models.Instructor{
		Name:            req.Name,
		Email:           req.Email,
		DepartmentID:    req.DepartmentID,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
	}
	if instructor.MaxHoursPerWeek <= 0 {
		instructor.MaxHoursPerWeek = DefaultMaxHoursPerWeek
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update patches instructor fields.
func (s *InstructorService) Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		instructor.Name = *req.Name
	}
	if req.Email != nil {
		instructor.Email = *req.Email
	}
	if req.MaxHoursPerWeek != nil {
		instructor.MaxHoursPerWeek = *req.MaxHoursPerWeek
	}
	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return instructor, nil
}

// Delete removes an instructor.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	return nil
}

// ListAvailability returns the declared availability windows for an
// instructor.
func (s *InstructorService) ListAvailability(ctx context.Context, instructorID string) ([]models.InstructorAvailability, error) {
	if _, err := s.Get(ctx, instructorID); err != nil {
		return nil, err
	}
	windows, err := s.repo.ListAvailability(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return windows, nil
}

// AddAvailability declares one availability window.
func (s *InstructorService) AddAvailability(ctx context.Context, instructorID string, req dto.AvailabilityRequest) (*models.InstructorAvailability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if _, err := s.Get(ctx, instructorID); err != nil {
		return nil, err
	}

	day := models.DayOfWeek(req.Day)
	if !models.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}
	start, end, err := parseClockRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	window := &models.InstructorAvailability{
		InstructorID: instructorID,
		Day:          day,
		StartMinute:  start,
		EndMinute:    end,
		IsAvailable:  available,
	}
	if err := s.repo.CreateAvailability(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability")
	}
	return window, nil
}

// RemoveAvailability deletes one availability window.
func (s *InstructorService) RemoveAvailability(ctx context.Context, instructorID, windowID string) error {
	if _, err := s.Get(ctx, instructorID); err != nil {
		return err
	}
	if err := s.repo.DeleteAvailability(ctx, windowID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability")
	}
	return nil
}

// ListPreferences returns the stored course preferences for an instructor.
func (s *InstructorService) ListPreferences(ctx context.Context, instructorID string) ([]models.InstructorPreference, error) {
	if _, err := s.Get(ctx, instructorID); err != nil {
		return nil, err
	}
	prefs, err := s.repo.ListPreferences(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	return prefs, nil
}

// SetPreference stores or replaces a preference score.
func (s *InstructorService) SetPreference(ctx context.Context, instructorID string, req dto.PreferenceRequest) (*models.InstructorPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	if _, err := s.Get(ctx, instructorID); err != nil {
		return nil, err
	}
	pref := &models.InstructorPreference{
		InstructorID: instructorID,
		CourseID:     req.CourseID,
		Level:        req.Level,
	}
	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preference")
	}
	return pref, nil
}
