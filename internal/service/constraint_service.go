package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type constraintStore interface {
	ListAll(ctx context.Context) ([]models.ConstraintDefinition, error)
	Upsert(ctx context.Context, def *models.ConstraintDefinition) error
	Delete(ctx context.Context, id string) error
}

// ConstraintService manages the constraint registry. Kinds without a stored
// definition are treated as hard by the generator, so the registry is how
// operators soften or re-weight individual rules.
type ConstraintService struct {
	repo      constraintStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService constructs the constraint service.
func NewConstraintService(repo constraintStore, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// List returns every registered constraint definition.
func (s *ConstraintService) List(ctx context.Context) ([]models.ConstraintDefinition, error) {
	defs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return defs, nil
}

// Upsert registers or updates the definition for a constraint kind.
func (s *ConstraintService) Upsert(ctx context.Context, req dto.ConstraintUpsertRequest) (*models.ConstraintDefinition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	kind := models.ConstraintKind(req.Kind)
	if !models.ValidConstraintKind(kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown constraint kind %q", req.Kind))
	}

	isHard := true
	if req.IsHard != nil {
		isHard = *req.IsHard
	}
	weight := req.Weight
	if weight <= 0 {
		weight = 1
	}

	def := &models.ConstraintDefinition{
		Name:   req.Name,
		Kind:   kind,
		IsHard: isHard,
		Weight: weight,
	}
	if len(req.Parameters) > 0 {
		def.Parameters = types.JSONText(req.Parameters)
	}
	if err := s.repo.Upsert(ctx, def); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store constraint")
	}
	return def, nil
}

// Delete removes a constraint definition. The generator falls back to
// treating the kind as hard once the definition is gone.
func (s *ConstraintService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete constraint")
	}
	return nil
}
