package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/jobs"
)

type fakeJobStore struct {
	jobs       map[string]*models.GenerationJob
	nextID     int
	createErr  error
	failedMsgs map[string]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*models.GenerationJob), failedMsgs: make(map[string]string)}
}

func (f *fakeJobStore) Create(_ context.Context, job *models.GenerationJob) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	job.ID = string(rune('0' + f.nextID))
	job.CreatedAt = time.Now()
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeJobStore) FindByID(_ context.Context, id string) (*models.GenerationJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) ListBySemester(_ context.Context, semesterID string, _ int) ([]models.GenerationJob, error) {
	var out []models.GenerationJob
	for _, job := range f.jobs {
		if job.SemesterID == semesterID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobStore) ListPending(_ context.Context, _ int) ([]models.GenerationJob, error) {
	var out []models.GenerationJob
	for _, job := range f.jobs {
		if job.Status == models.GenerationPending {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobStore) MarkRunning(_ context.Context, id string) error {
	job, ok := f.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = models.GenerationRunning
	return nil
}

func (f *fakeJobStore) MarkCompleted(_ context.Context, id string, metrics models.GenerationMetrics) error {
	job, ok := f.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = models.GenerationCompleted
	job.ResultMetrics = &metrics
	now := time.Now()
	job.CompletedAt = &now
	return nil
}

func (f *fakeJobStore) MarkFailed(_ context.Context, id string, message string) error {
	job, ok := f.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = models.GenerationFailed
	job.ErrorMessage = &message
	f.failedMsgs[id] = message
	return nil
}

type fakeSemesterReader struct {
	semesters map[string]*models.Semester
}

func (f *fakeSemesterReader) FindByID(_ context.Context, id string) (*models.Semester, error) {
	semester, ok := f.semesters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return semester, nil
}

type fakeQueue struct {
	enqueued []jobs.Job
	err      error
}

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

type fakeRunner struct {
	metrics *models.GenerationMetrics
	err     error
	gotOpts RunOptions
}

func (f *fakeRunner) Run(_ context.Context, opts RunOptions) (*models.GenerationMetrics, error) {
	f.gotOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func newGenerationFixture() (*GenerationService, *fakeJobStore, *fakeQueue) {
	store := newFakeJobStore()
	queue := &fakeQueue{}
	semesters := &fakeSemesterReader{semesters: map[string]*models.Semester{
		"sem1": {ID: "sem1", Name: "Fall 2026"},
	}}
	svc := NewGenerationService(store, semesters, queue, nil, nil)
	return svc, store, queue
}

func TestCreateJobEnqueuesPendingJob(t *testing.T) {
	svc, store, queue := newGenerationFixture()

	resp, err := svc.CreateJob(context.Background(), dto.GenerateTimetableRequest{SemesterID: "sem1"})
	require.NoError(t, err)

	assert.Equal(t, models.GenerationPending, resp.Status)
	assert.Equal(t, models.StrategyBalanced, resp.Strategy)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "timetable_generation", queue.enqueued[0].Type)

	opts, ok := queue.enqueued[0].Payload.(RunOptions)
	require.True(t, ok)
	assert.Equal(t, "sem1", opts.SemesterID)
	assert.True(t, opts.RespectExisting)
	assert.Equal(t, time.Duration(-1), opts.TimeLimit)

	stored, err := store.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationPending, stored.Status)
}

func TestCreateJobUnknownSemester(t *testing.T) {
	svc, _, queue := newGenerationFixture()

	_, err := svc.CreateJob(context.Background(), dto.GenerateTimetableRequest{SemesterID: "missing"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, queue.enqueued)
}

func TestCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	svc, store, queue := newGenerationFixture()
	queue.err = errors.New("queue stopped")

	_, err := svc.CreateJob(context.Background(), dto.GenerateTimetableRequest{SemesterID: "sem1"})
	require.Error(t, err)

	require.Len(t, store.jobs, 1)
	for id := range store.jobs {
		assert.Equal(t, models.GenerationFailed, store.jobs[id].Status)
	}
}

func TestCreateJobCarriesRequestTuning(t *testing.T) {
	svc, _, queue := newGenerationFixture()

	respectExisting := false
	limit := 30
	seed := int64(42)
	_, err := svc.CreateJob(context.Background(), dto.GenerateTimetableRequest{
		SemesterID:       "sem1",
		Strategy:         models.StrategyRooms,
		RespectExisting:  &respectExisting,
		ClearExisting:    true,
		MaxIterations:    250,
		TimeLimitSeconds: &limit,
		Seed:             &seed,
	})
	require.NoError(t, err)

	opts := queue.enqueued[0].Payload.(RunOptions)
	assert.Equal(t, models.StrategyRooms, opts.Strategy)
	assert.False(t, opts.RespectExisting)
	assert.True(t, opts.ClearExisting)
	assert.Equal(t, 250, opts.MaxIterations)
	assert.Equal(t, 30*time.Second, opts.TimeLimit)
	require.NotNil(t, opts.Seed)
	assert.Equal(t, int64(42), *opts.Seed)
}

func TestGetResultRequiresTerminalStatus(t *testing.T) {
	svc, store, _ := newGenerationFixture()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationRunning}

	_, err := svc.GetResult(context.Background(), "j1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestGetResultReturnsMetrics(t *testing.T) {
	svc, store, _ := newGenerationFixture()
	store.jobs["j1"] = &models.GenerationJob{
		ID: "j1", SemesterID: "sem1", Status: models.GenerationCompleted,
		ResultMetrics: &models.GenerationMetrics{
			EntriesCreated:       12,
			ExecutionTimeSeconds: 1.5,
			ConflictList:         []models.ConflictRecord{{Kind: "NoSuitableRoom"}},
		},
	}

	result, err := svc.GetResult(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, 12, result.EntriesCreated)
	assert.Equal(t, 1.5, result.ExecutionTimeSeconds)
	require.Len(t, result.ConflictsDetected, 1)
}

func TestListJobsRequiresSemester(t *testing.T) {
	svc, _, _ := newGenerationFixture()
	_, err := svc.ListJobs(context.Background(), "", 10)
	require.Error(t, err)
}

func TestRecoverPendingJobsReenqueues(t *testing.T) {
	svc, store, queue := newGenerationFixture()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationPending, Strategy: models.StrategyRooms}
	store.jobs["j2"] = &models.GenerationJob{ID: "j2", SemesterID: "sem1", Status: models.GenerationCompleted}

	svc.RecoverPendingJobs(context.Background())

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "j1", queue.enqueued[0].ID)
	opts := queue.enqueued[0].Payload.(RunOptions)
	assert.Equal(t, models.StrategyRooms, opts.Strategy)
	assert.True(t, opts.RespectExisting)
	assert.Equal(t, time.Duration(-1), opts.TimeLimit)
}

func TestWorkerMarksCompleted(t *testing.T) {
	store := newFakeJobStore()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationPending}
	runner := &fakeRunner{metrics: &models.GenerationMetrics{EntriesCreated: 4}}

	worker := NewGenerationWorker(store, runner, nil, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: RunOptions{SemesterID: "sem1"}})
	require.NoError(t, err)

	assert.Equal(t, models.GenerationCompleted, store.jobs["j1"].Status)
	require.NotNil(t, store.jobs["j1"].ResultMetrics)
	assert.Equal(t, 4, store.jobs["j1"].ResultMetrics.EntriesCreated)
	assert.Equal(t, "sem1", runner.gotOpts.SemesterID)
}

func TestWorkerMarksFailedWithoutRetry(t *testing.T) {
	store := newFakeJobStore()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationPending}
	runner := &fakeRunner{err: errors.New("ledger unavailable")}

	worker := NewGenerationWorker(store, runner, nil, nil)
	// A nil return keeps the queue from retrying; the failure lives on the
	// job record instead.
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: RunOptions{SemesterID: "sem1"}})
	require.NoError(t, err)

	assert.Equal(t, models.GenerationFailed, store.jobs["j1"].Status)
	assert.Equal(t, "ledger unavailable", store.failedMsgs["j1"])
}

func TestWorkerSkipsTerminalJobs(t *testing.T) {
	store := newFakeJobStore()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationCompleted}
	runner := &fakeRunner{metrics: &models.GenerationMetrics{}}

	worker := NewGenerationWorker(store, runner, nil, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1"})
	require.NoError(t, err)

	assert.Equal(t, models.GenerationCompleted, store.jobs["j1"].Status)
	assert.Empty(t, runner.gotOpts.SemesterID)
}

func TestWorkerRebuildsOptionsFromRecord(t *testing.T) {
	store := newFakeJobStore()
	store.jobs["j1"] = &models.GenerationJob{ID: "j1", SemesterID: "sem1", Status: models.GenerationPending, Strategy: models.StrategyStudents}
	runner := &fakeRunner{metrics: &models.GenerationMetrics{}}

	worker := NewGenerationWorker(store, runner, nil, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: "not-run-options"})
	require.NoError(t, err)

	assert.Equal(t, "sem1", runner.gotOpts.SemesterID)
	assert.Equal(t, models.StrategyStudents, runner.gotOpts.Strategy)
	assert.True(t, runner.gotOpts.RespectExisting)
}
