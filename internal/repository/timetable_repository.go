package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// TimetableRepository is the booking ledger: it persists committed timetable
// entries and serves the conflict-check reads the generator depends on.
// Reads reflect all prior commits within a run (every commit hits the
// database before the next feasibility check).
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const timetableColumns = "id, course_id, instructor_id, room_id, day, start_minute, end_minute, semester_id, created_at, updated_at"

// List returns timetable entries with optional filtering and pagination.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, int, error) {
	base := "FROM timetable_entries WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"day":          true,
		"start_minute": true,
		"created_at":   true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "day"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_minute ASC LIMIT %d OFFSET %d", timetableColumns, base, sortBy, order, size, offset)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable entries: %w", err)
	}

	return entries, total, nil
}

// FindByID loads an entry by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE id = $1", timetableColumns)
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByRoomDay returns bookings for a room on a day within a semester.
func (r *TimetableRepository) ListByRoomDay(ctx context.Context, roomID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE room_id = $1 AND day = $2 AND semester_id = $3 ORDER BY start_minute ASC", timetableColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, roomID, day, semesterID); err != nil {
		return nil, fmt.Errorf("list bookings by room and day: %w", err)
	}
	return entries, nil
}

// ListByInstructorDay returns bookings for an instructor on a day within a
// semester.
func (r *TimetableRepository) ListByInstructorDay(ctx context.Context, instructorID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE instructor_id = $1 AND day = $2 AND semester_id = $3 ORDER BY start_minute ASC", timetableColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, instructorID, day, semesterID); err != nil {
		return nil, fmt.Errorf("list bookings by instructor and day: %w", err)
	}
	return entries, nil
}

// ListBySemester returns every booking in a semester.
func (r *TimetableRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE semester_id = $1 ORDER BY day ASC, start_minute ASC", timetableColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, semesterID); err != nil {
		return nil, fmt.Errorf("list bookings by semester: %w", err)
	}
	return entries, nil
}

// InstructorMinutes sums booked minutes for an instructor within a semester.
func (r *TimetableRepository) InstructorMinutes(ctx context.Context, instructorID, semesterID string) (int, error) {
	const query = `SELECT COALESCE(SUM(end_minute - start_minute), 0) FROM timetable_entries WHERE instructor_id = $1 AND semester_id = $2`
	var minutes int
	if err := r.db.GetContext(ctx, &minutes, query, instructorID, semesterID); err != nil {
		return 0, fmt.Errorf("sum instructor minutes: %w", err)
	}
	return minutes, nil
}

// ExistsForCourse reports whether a course already has a booking in the
// semester.
func (r *TimetableRepository) ExistsForCourse(ctx context.Context, courseID, semesterID string) (bool, error) {
	const query = `SELECT id FROM timetable_entries WHERE course_id = $1 AND semester_id = $2 LIMIT 1`
	var id string
	if err := r.db.GetContext(ctx, &id, query, courseID, semesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check booking for course: %w", err)
	}
	return true, nil
}

// Create appends a booking to the ledger.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO timetable_entries (id, course_id, instructor_id, room_id, day, start_minute, end_minute, semester_id, created_at, updated_at) VALUES (:id, :course_id, :instructor_id, :room_id, :day, :start_minute, :end_minute, :semester_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// Update modifies an entry record.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_entries SET instructor_id = :instructor_id, room_id = :room_id, day = :day, start_minute = :start_minute, end_minute = :end_minute, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return nil
}

// DeleteBySemester bulk-clears every booking in a semester, returning the
// number of removed rows.
func (r *TimetableRepository) DeleteBySemester(ctx context.Context, semesterID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE semester_id = $1`, semesterID)
	if err != nil {
		return 0, fmt.Errorf("clear timetable entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear timetable entries: %w", err)
	}
	return affected, nil
}
