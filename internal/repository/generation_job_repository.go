package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// GenerationJobRepository persists generation job lifecycle records.
type GenerationJobRepository struct {
	db *sqlx.DB
}

// NewGenerationJobRepository creates a new generation job repository.
func NewGenerationJobRepository(db *sqlx.DB) *GenerationJobRepository {
	return &GenerationJobRepository{db: db}
}

type generationJobRow struct {
	ID            string                    `db:"id"`
	SemesterID    string                    `db:"semester_id"`
	Status        models.GenerationStatus   `db:"status"`
	Strategy      models.GenerationStrategy `db:"strategy"`
	ErrorMessage  *string                   `db:"error_message"`
	ResultMetrics types.NullJSONText        `db:"result_metrics"`
	CreatedAt     time.Time                 `db:"created_at"`
	CompletedAt   *time.Time                `db:"completed_at"`
}

func (row generationJobRow) toModel() (*models.GenerationJob, error) {
	job := &models.GenerationJob{
		ID:           row.ID,
		SemesterID:   row.SemesterID,
		Status:       row.Status,
		Strategy:     row.Strategy,
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt,
		CompletedAt:  row.CompletedAt,
	}
	if row.ResultMetrics.Valid && len(row.ResultMetrics.JSONText) > 0 {
		var metrics models.GenerationMetrics
		if err := json.Unmarshal(row.ResultMetrics.JSONText, &metrics); err != nil {
			return nil, fmt.Errorf("decode job result metrics: %w", err)
		}
		job.ResultMetrics = &metrics
	}
	return job, nil
}

const generationJobColumns = "id, semester_id, status, strategy, error_message, result_metrics, created_at, completed_at"

// Create stores a new job record, Pending unless a status is preset.
func (r *GenerationJobRepository) Create(ctx context.Context, job *models.GenerationJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.GenerationPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO generation_jobs (id, semester_id, status, strategy, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, job.ID, job.SemesterID, job.Status, job.Strategy, job.CreatedAt); err != nil {
		return fmt.Errorf("create generation job: %w", err)
	}
	return nil
}

// FindByID loads a job by id.
func (r *GenerationJobRepository) FindByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	query := fmt.Sprintf("SELECT %s FROM generation_jobs WHERE id = $1", generationJobColumns)
	var row generationJobRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// ListBySemester returns jobs for a semester, newest first.
func (r *GenerationJobRepository) ListBySemester(ctx context.Context, semesterID string, limit int) ([]models.GenerationJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM generation_jobs WHERE semester_id = $1 ORDER BY created_at DESC LIMIT %d", generationJobColumns, limit)
	var rows []generationJobRow
	if err := r.db.SelectContext(ctx, &rows, query, semesterID); err != nil {
		return nil, fmt.Errorf("list generation jobs: %w", err)
	}
	jobs := make([]models.GenerationJob, 0, len(rows))
	for _, row := range rows {
		job, err := row.toModel()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// ListPending returns jobs still waiting for a worker, oldest first. Used to
// replay queued work after a process restart.
func (r *GenerationJobRepository) ListPending(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM generation_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT %d", generationJobColumns, limit)
	var rows []generationJobRow
	if err := r.db.SelectContext(ctx, &rows, query, models.GenerationPending); err != nil {
		return nil, fmt.Errorf("list pending generation jobs: %w", err)
	}
	jobs := make([]models.GenerationJob, 0, len(rows))
	for _, row := range rows {
		job, err := row.toModel()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// MarkRunning transitions a job to Running.
func (r *GenerationJobRepository) MarkRunning(ctx context.Context, id string) error {
	const query = `UPDATE generation_jobs SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.GenerationRunning); err != nil {
		return fmt.Errorf("mark generation job running: %w", err)
	}
	return nil
}

// MarkCompleted transitions a job to Completed with its metrics blob.
func (r *GenerationJobRepository) MarkCompleted(ctx context.Context, id string, metrics models.GenerationMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode job result metrics: %w", err)
	}
	const query = `UPDATE generation_jobs SET status = $2, result_metrics = $3, completed_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.GenerationCompleted, types.JSONText(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("mark generation job completed: %w", err)
	}
	return nil
}

// MarkFailed transitions a job to Failed with the captured error message.
func (r *GenerationJobRepository) MarkFailed(ctx context.Context, id string, message string) error {
	const query = `UPDATE generation_jobs SET status = $2, error_message = $3, completed_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.GenerationFailed, message, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark generation job failed: %w", err)
	}
	return nil
}
