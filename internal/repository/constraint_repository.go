package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// ConstraintRepository provides persistence for constraint definitions.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository creates a new constraint repository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

const constraintColumns = "id, name, kind, is_hard, weight, parameters, created_at, updated_at"

// ListAll returns every registered constraint definition. Loaded once per
// generation run.
func (r *ConstraintRepository) ListAll(ctx context.Context) ([]models.ConstraintDefinition, error) {
	query := fmt.Sprintf("SELECT %s FROM constraint_definitions ORDER BY kind ASC", constraintColumns)
	var defs []models.ConstraintDefinition
	if err := r.db.SelectContext(ctx, &defs, query); err != nil {
		return nil, fmt.Errorf("list constraint definitions: %w", err)
	}
	return defs, nil
}

// Upsert stores or replaces the definition for a constraint kind.
func (r *ConstraintRepository) Upsert(ctx context.Context, def *models.ConstraintDefinition) error {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}
	def.UpdatedAt = now

	const query = `INSERT INTO constraint_definitions (id, name, kind, is_hard, weight, parameters, created_at, updated_at) VALUES (:id, :name, :kind, :is_hard, :weight, :parameters, :created_at, :updated_at) ON CONFLICT (kind) DO UPDATE SET name = EXCLUDED.name, is_hard = EXCLUDED.is_hard, weight = EXCLUDED.weight, parameters = EXCLUDED.parameters, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, def); err != nil {
		return fmt.Errorf("upsert constraint definition: %w", err)
	}
	return nil
}

// Delete removes a constraint definition by id.
func (r *ConstraintRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM constraint_definitions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete constraint definition: %w", err)
	}
	return nil
}
