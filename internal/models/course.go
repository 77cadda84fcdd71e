package models

import "time"

// CourseKind distinguishes theory lectures from lab sessions.
type CourseKind string

const (
	CourseTheory CourseKind = "Theory"
	CourseLab    CourseKind = "Lab"
)

// Course represents a course offered in a semester. Immutable during a
// generation run.
type Course struct {
	ID               string     `db:"id" json:"id"`
	Code             string     `db:"code" json:"code"`
	Name             string     `db:"name" json:"name"`
	Kind             CourseKind `db:"kind" json:"kind"`
	ProgrammeID      string     `db:"programme_id" json:"programme_id"`
	SemesterID       string     `db:"semester_id" json:"semester_id"`
	CreditHours      int        `db:"credit_hours" json:"credit_hours"`
	ExpectedStudents *int       `db:"expected_students" json:"expected_students,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	SemesterID  string
	ProgrammeID string
	Kind        string
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
