package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type semesterStore interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	List(ctx context.Context) ([]models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
}

// SemesterService manages academic terms.
type SemesterService struct {
	repo     semesterStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSemesterService constructs the service.
func NewSemesterService(repo semesterStore, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, validate: validate, logger: logger}
}

// List returns every registered semester, newest first.
func (s *SemesterService) List(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to list semesters")
	}
	return semesters, nil
}

// Get loads one semester.
func (s *SemesterService) Get(ctx context.Context, id string) (*models.Semester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to load semester")
	}
	return semester, nil
}

// Create registers a new semester.
func (s *SemesterService) Create(ctx context.Context, req dto.CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be after start date")
	}

	semester := &models.Semester{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.repo.Create(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to create semester")
	}
	s.logger.Sugar().Infow("semester created", "semester_id", semester.ID, "name", semester.Name)
	return semester, nil
}
