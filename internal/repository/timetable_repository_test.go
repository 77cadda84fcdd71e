package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func timetableRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course_id", "instructor_id", "room_id", "day", "start_minute", "end_minute", "semester_id", "created_at", "updated_at"})
}

func TestTimetableRepositoryList(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := timetableRows().
		AddRow("e1", "c1", "i1", "r1", "Monday", 480, 540, "sem1", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, instructor_id, room_id, day, start_minute, end_minute, semester_id, created_at, updated_at FROM timetable_entries WHERE 1=1 AND semester_id = $1 ORDER BY day ASC, start_minute ASC LIMIT 50 OFFSET 0")).
		WithArgs("sem1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE 1=1 AND semester_id = $1")).
		WithArgs("sem1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.TimetableFilter{SemesterID: "sem1"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByRoomDay(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := timetableRows().
		AddRow("e1", "c1", "i1", "r1", "Monday", 480, 540, "sem1", time.Now(), time.Now()).
		AddRow("e2", "c2", "i2", "r1", "Monday", 600, 720, "sem1", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, instructor_id, room_id, day, start_minute, end_minute, semester_id, created_at, updated_at FROM timetable_entries WHERE room_id = $1 AND day = $2 AND semester_id = $3 ORDER BY start_minute ASC")).
		WithArgs("r1", string(models.Monday), "sem1").
		WillReturnRows(rows)

	entries, err := repo.ListByRoomDay(context.Background(), "r1", models.Monday, "sem1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 600, entries[1].StartMinute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryInstructorMinutes(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(end_minute - start_minute), 0) FROM timetable_entries WHERE instructor_id = $1 AND semester_id = $2")).
		WithArgs("i1", "sem1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(180))

	minutes, err := repo.InstructorMinutes(context.Background(), "i1", "sem1")
	require.NoError(t, err)
	assert.Equal(t, 180, minutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryExistsForCourse(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM timetable_entries WHERE course_id = $1 AND semester_id = $2 LIMIT 1")).
		WithArgs("c1", "sem1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))

	exists, err := repo.ExistsForCourse(context.Background(), "c1", "sem1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM timetable_entries WHERE course_id = $1 AND semester_id = $2 LIMIT 1")).
		WithArgs("c2", "sem1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	exists, err = repo.ExistsForCourse(context.Background(), "c2", "sem1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("INSERT INTO timetable_entries").
		WithArgs(sqlmock.AnyArg(), "c1", "i1", "r1", string(models.Monday), 480, 540, "sem1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.TimetableEntry{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		Day:          models.Monday,
		StartMinute:  480,
		EndMinute:    540,
		SemesterID:   "sem1",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteBySemester(t *testing.T) {
	db, mock, cleanup := newJobRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("DELETE FROM timetable_entries WHERE semester_id").
		WithArgs("sem1").
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := repo.DeleteBySemester(context.Background(), "sem1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
