package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/jobs"
)

type generationJobStore interface {
	Create(ctx context.Context, job *models.GenerationJob) error
	FindByID(ctx context.Context, id string) (*models.GenerationJob, error)
	ListBySemester(ctx context.Context, semesterID string, limit int) ([]models.GenerationJob, error)
	ListPending(ctx context.Context, limit int) ([]models.GenerationJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, metrics models.GenerationMetrics) error
	MarkFailed(ctx context.Context, id string, message string) error
}

type generationSemesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type generationDispatcher interface {
	Enqueue(job jobs.Job) error
}

type timetableRunner interface {
	Run(ctx context.Context, opts RunOptions) (*models.GenerationMetrics, error)
}

// GenerationService manages the generation job lifecycle: it validates run
// requests, persists job records, and hands work to the background queue.
// Callers poll the job until it reaches a terminal status.
type GenerationService struct {
	repo      generationJobStore
	semesters generationSemesterReader
	queue     generationDispatcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGenerationService constructs the generation service.
func NewGenerationService(repo generationJobStore, semesters generationSemesterReader, queue generationDispatcher, validate *validator.Validate, logger *zap.Logger) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		repo:      repo,
		semesters: semesters,
		queue:     queue,
		validator: validate,
		logger:    logger,
	}
}

// CreateJob validates the request, persists a Pending job, and enqueues the
// run.
func (s *GenerationService) CreateJob(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	if _, err := s.semesters.FindByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = models.StrategyBalanced
	}

	job := &models.GenerationJob{
		SemesterID: req.SemesterID,
		Status:     models.GenerationPending,
		Strategy:   strategy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create generation job")
	}

	opts := runOptionsFromRequest(req, strategy)
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "timetable_generation", Payload: opts}); err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, "failed to enqueue generation job"); markErr != nil {
			s.logger.Sugar().Warnw("failed to mark job failed after enqueue error", "job_id", job.ID, "error", markErr)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}

	return jobResponse(job), nil
}

// GetJob returns the current state of a job.
func (s *GenerationService) GetJob(ctx context.Context, id string) (*dto.GenerationJobResponse, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}
	return jobResponse(job), nil
}

// GetResult returns the run outcome for a terminal job.
func (s *GenerationService) GetResult(ctx context.Context, id string) (*dto.GenerationRunResult, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}
	if job.Status != models.GenerationCompleted && job.Status != models.GenerationFailed {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "generation job has not finished")
	}

	result := &dto.GenerationRunResult{JobID: job.ID, Status: job.Status}
	if job.ResultMetrics != nil {
		result.EntriesCreated = job.ResultMetrics.EntriesCreated
		result.ConflictsDetected = job.ResultMetrics.ConflictList
		result.Statistics = job.ResultMetrics.Statistics
		result.ExecutionTimeSeconds = job.ResultMetrics.ExecutionTimeSeconds
	}
	return result, nil
}

// ListJobs returns recent jobs for a semester.
func (s *GenerationService) ListJobs(ctx context.Context, semesterID string, limit int) ([]dto.GenerationJobResponse, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	list, err := s.repo.ListBySemester(ctx, semesterID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list generation jobs")
	}
	out := make([]dto.GenerationJobResponse, 0, len(list))
	for i := range list {
		out = append(out, *jobResponse(&list[i]))
	}
	return out, nil
}

// RecoverPendingJobs replays Pending jobs after a process restart. Replayed
// runs use the stored semester and strategy with default budgets; the
// original request tuning does not survive a restart.
func (s *GenerationService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListPending(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover pending generation jobs", "error", err)
		return
	}
	for _, job := range pending {
		opts := RunOptions{
			SemesterID:      job.SemesterID,
			Strategy:        job.Strategy,
			RespectExisting: true,
			TimeLimit:       -1,
		}
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "timetable_generation", Payload: opts}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending generation job", "job_id", job.ID, "error", err)
		}
	}
}

func runOptionsFromRequest(req dto.GenerateTimetableRequest, strategy models.GenerationStrategy) RunOptions {
	respectExisting := true
	if req.RespectExisting != nil {
		respectExisting = *req.RespectExisting
	}
	timeLimit := time.Duration(-1)
	if req.TimeLimitSeconds != nil {
		timeLimit = time.Duration(*req.TimeLimitSeconds) * time.Second
	}
	return RunOptions{
		SemesterID:      req.SemesterID,
		DepartmentIDs:   req.DepartmentIDs,
		ProgrammeIDs:    req.ProgrammeIDs,
		Strategy:        strategy,
		RespectExisting: respectExisting,
		ClearExisting:   req.ClearExisting,
		MaxIterations:   req.MaxIterations,
		TimeLimit:       timeLimit,
		Seed:            req.Seed,
	}
}

func jobResponse(job *models.GenerationJob) *dto.GenerationJobResponse {
	return &dto.GenerationJobResponse{
		ID:            job.ID,
		SemesterID:    job.SemesterID,
		Status:        job.Status,
		Strategy:      job.Strategy,
		ErrorMessage:  job.ErrorMessage,
		ResultMetrics: job.ResultMetrics,
	}
}

type generationMetricsRecorder interface {
	RecordGenerationRun(status models.GenerationStatus, entriesCreated int, duration time.Duration)
}

// GenerationWorker bridges queue jobs to the generation engine. A failed run
// marks the job Failed and does not retry; bookings committed before the
// failure stay in the ledger.
type GenerationWorker struct {
	repo    generationJobStore
	engine  timetableRunner
	metrics generationMetricsRecorder
	logger  *zap.Logger
}

// NewGenerationWorker constructs a worker. The metrics recorder is optional.
func NewGenerationWorker(repo generationJobStore, engine timetableRunner, metrics generationMetricsRecorder, logger *zap.Logger) *GenerationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationWorker{repo: repo, engine: engine, metrics: metrics, logger: logger}
}

// Handle processes one queued generation job.
func (w *GenerationWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.FindByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if record.Status == models.GenerationCompleted || record.Status == models.GenerationFailed {
		return nil
	}

	opts, ok := job.Payload.(RunOptions)
	if !ok {
		opts = RunOptions{
			SemesterID:      record.SemesterID,
			Strategy:        record.Strategy,
			RespectExisting: true,
			TimeLimit:       -1,
		}
	}

	if err := w.repo.MarkRunning(ctx, job.ID); err != nil {
		return err
	}

	started := time.Now()
	metrics, err := w.engine.Run(ctx, opts)
	if err != nil {
		w.logger.Sugar().Errorw("generation run failed", "job_id", job.ID, "semester_id", opts.SemesterID, "error", err)
		if markErr := w.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", markErr)
		}
		if w.metrics != nil {
			w.metrics.RecordGenerationRun(models.GenerationFailed, 0, time.Since(started))
		}
		return nil
	}

	if err := w.repo.MarkCompleted(ctx, job.ID, *metrics); err != nil {
		w.logger.Sugar().Warnw("failed to mark job completed", "job_id", job.ID, "error", err)
		return err
	}
	if w.metrics != nil {
		w.metrics.RecordGenerationRun(models.GenerationCompleted, metrics.EntriesCreated, time.Since(started))
	}
	return nil
}
