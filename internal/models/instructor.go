package models

import "time"

// Instructor teaches courses subject to a weekly hour budget.
type Instructor struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	DepartmentID    string    `db:"department_id" json:"department_id"`
	MaxHoursPerWeek int       `db:"max_hours_per_week" json:"max_hours_per_week"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorAvailability is one declared teaching window. Multiple windows
// per instructor per day are allowed; a day with no window falls back to the
// default teaching hours for that day.
type InstructorAvailability struct {
	ID           string    `db:"id" json:"id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	Day          DayOfWeek `db:"day" json:"day"`
	StartMinute  int       `db:"start_minute" json:"start_minute"`
	EndMinute    int       `db:"end_minute" json:"end_minute"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorPreference scores how much an instructor wants a course, 1-5.
// Missing rows default to a neutral 3.
type InstructorPreference struct {
	ID           string    `db:"id" json:"id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Level        int       `db:"level" json:"level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultPreferenceLevel applies when an instructor has no stored preference
// for a course.
const DefaultPreferenceLevel = 3

// InstructorFilter captures filtering criteria for listing instructors.
type InstructorFilter struct {
	DepartmentID string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
