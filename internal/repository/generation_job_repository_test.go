package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func newJobRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGenerationJobRepositoryCreateDefaultsPending(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectExec("INSERT INTO generation_jobs").
		WithArgs(sqlmock.AnyArg(), "sem1", string(models.GenerationPending), string(models.StrategyBalanced), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.GenerationJob{SemesterID: "sem1", Strategy: models.StrategyBalanced}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.GenerationPending, job.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryFindByIDWithoutMetrics(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "semester_id", "status", "strategy", "error_message", "result_metrics", "created_at", "completed_at"}).
		AddRow("j1", "sem1", "Pending", "balanced", nil, nil, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_id, status, strategy, error_message, result_metrics, created_at, completed_at FROM generation_jobs WHERE id = $1")).
		WithArgs("j1").
		WillReturnRows(rows)

	job, err := repo.FindByID(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, models.GenerationPending, job.Status)
	assert.Nil(t, job.ResultMetrics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryFindByIDDecodesMetrics(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	metricsJSON := `{"entries_created":4,"conflicts":1,"soft_penalty":2,"execution_time_seconds":0.5,"statistics":{"total_courses":5,"courses_scheduled":4}}`
	completed := time.Now()
	rows := sqlmock.NewRows([]string{"id", "semester_id", "status", "strategy", "error_message", "result_metrics", "created_at", "completed_at"}).
		AddRow("j1", "sem1", "Completed", "rooms", nil, []byte(metricsJSON), time.Now(), completed)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_id, status, strategy, error_message, result_metrics, created_at, completed_at FROM generation_jobs WHERE id = $1")).
		WithArgs("j1").
		WillReturnRows(rows)

	job, err := repo.FindByID(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, job.ResultMetrics)
	assert.Equal(t, 4, job.ResultMetrics.EntriesCreated)
	assert.Equal(t, 1, job.ResultMetrics.Conflicts)
	assert.Equal(t, 5, job.ResultMetrics.Statistics.TotalCourses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "semester_id", "status", "strategy", "error_message", "result_metrics", "created_at", "completed_at"}).
		AddRow("j1", "sem1", "Pending", "balanced", nil, nil, time.Now(), nil).
		AddRow("j2", "sem2", "Pending", "students", nil, nil, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_id, status, strategy, error_message, result_metrics, created_at, completed_at FROM generation_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT 50")).
		WithArgs(string(models.GenerationPending)).
		WillReturnRows(rows)

	jobs, err := repo.ListPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryMarkTransitions(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectExec("UPDATE generation_jobs SET status").
		WithArgs("j1", string(models.GenerationRunning)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkRunning(context.Background(), "j1"))

	mock.ExpectExec("UPDATE generation_jobs SET status").
		WithArgs("j1", string(models.GenerationCompleted), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkCompleted(context.Background(), "j1", models.GenerationMetrics{EntriesCreated: 3}))

	mock.ExpectExec("UPDATE generation_jobs SET status").
		WithArgs("j1", string(models.GenerationFailed), "queue full", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkFailed(context.Background(), "j1", "queue full"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
