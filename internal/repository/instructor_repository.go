package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// InstructorRepository provides persistence for instructors, their
// availability windows, and their course preferences.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new instructor repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = "id, name, email, department_id, max_hours_per_week, created_at, updated_at"

// List returns instructors with optional filtering and pagination.
func (r *InstructorRepository) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error) {
	base := "FROM instructors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":               true,
		"email":              true,
		"max_hours_per_week": true,
		"created_at":         true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", instructorColumns, base, sortBy, order, size, offset)
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list instructors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count instructors: %w", err)
	}

	return instructors, total, nil
}

// ListForScheduling returns the instructor pool for a run, narrowed by the
// optional department filter.
func (r *InstructorRepository) ListForScheduling(ctx context.Context, departmentIDs []string) ([]models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructors", instructorColumns)
	var args []interface{}
	if len(departmentIDs) > 0 {
		query += " WHERE department_id = ANY($1)"
		args = append(args, pq.Array(departmentIDs))
	}
	query += " ORDER BY name ASC"

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, fmt.Errorf("list instructors for scheduling: %w", err)
	}
	return instructors, nil
}

// FindByID loads an instructor by id.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructors WHERE id = $1", instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// Create stores a new instructor record.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if instructor.CreatedAt.IsZero() {
		instructor.CreatedAt = now
	}
	instructor.UpdatedAt = now

	const query = `INSERT INTO instructors (id, name, email, department_id, max_hours_per_week, created_at, updated_at) VALUES (:id, :name, :email, :department_id, :max_hours_per_week, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

// Update modifies an instructor record.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	instructor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE instructors SET name = :name, email = :email, max_hours_per_week = :max_hours_per_week, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("update instructor: %w", err)
	}
	return nil
}

// Delete removes an instructor by id.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}
	return nil
}

// ListAvailability returns the declared availability windows for an
// instructor, available ones only, ordered by day and start.
func (r *InstructorRepository) ListAvailability(ctx context.Context, instructorID string) ([]models.InstructorAvailability, error) {
	const query = `SELECT id, instructor_id, day, start_minute, end_minute, is_available, created_at, updated_at FROM instructor_availability WHERE instructor_id = $1 AND is_available = TRUE ORDER BY day ASC, start_minute ASC`
	var windows []models.InstructorAvailability
	if err := r.db.SelectContext(ctx, &windows, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor availability: %w", err)
	}
	return windows, nil
}

// CreateAvailability stores one availability window.
func (r *InstructorRepository) CreateAvailability(ctx context.Context, window *models.InstructorAvailability) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now

	const query = `INSERT INTO instructor_availability (id, instructor_id, day, start_minute, end_minute, is_available, created_at, updated_at) VALUES (:id, :instructor_id, :day, :start_minute, :end_minute, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create instructor availability: %w", err)
	}
	return nil
}

// DeleteAvailability removes one availability window.
func (r *InstructorRepository) DeleteAvailability(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM instructor_availability WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete instructor availability: %w", err)
	}
	return nil
}

// ListPreferences returns the stored course preferences for an instructor.
func (r *InstructorRepository) ListPreferences(ctx context.Context, instructorID string) ([]models.InstructorPreference, error) {
	const query = `SELECT id, instructor_id, course_id, level, created_at, updated_at FROM instructor_preferences WHERE instructor_id = $1`
	var prefs []models.InstructorPreference
	if err := r.db.SelectContext(ctx, &prefs, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor preferences: %w", err)
	}
	return prefs, nil
}

// UpsertPreference stores or replaces a preference score.
func (r *InstructorRepository) UpsertPreference(ctx context.Context, pref *models.InstructorPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now

	const query = `INSERT INTO instructor_preferences (id, instructor_id, course_id, level, created_at, updated_at) VALUES (:id, :instructor_id, :course_id, :level, :created_at, :updated_at) ON CONFLICT (instructor_id, course_id) DO UPDATE SET level = EXCLUDED.level, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert instructor preference: %w", err)
	}
	return nil
}
