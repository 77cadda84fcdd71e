package dto

import "encoding/json"

// CreateCourseRequest registers a course for a semester.
type CreateCourseRequest struct {
	Code             string `json:"code" validate:"required,max=10"`
	Name             string `json:"name" validate:"required,max=100"`
	Kind             string `json:"kind" validate:"required,oneof=Theory Lab"`
	ProgrammeID      string `json:"programmeId" validate:"required"`
	SemesterID       string `json:"semesterId" validate:"required"`
	CreditHours      int    `json:"creditHours" validate:"omitempty,min=1,max=10"`
	ExpectedStudents *int   `json:"expectedStudents" validate:"omitempty,min=1"`
}

// UpdateCourseRequest patches course fields.
type UpdateCourseRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=100"`
	Kind             *string `json:"kind" validate:"omitempty,oneof=Theory Lab"`
	CreditHours      *int    `json:"creditHours" validate:"omitempty,min=1,max=10"`
	ExpectedStudents *int    `json:"expectedStudents" validate:"omitempty,min=1"`
}

// CreateRoomRequest registers a teaching room.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Kind     string `json:"kind" validate:"required,oneof='Lecture Hall' Lab"`
}

// UpdateRoomRequest patches room fields.
type UpdateRoomRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=50"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
	Kind     *string `json:"kind" validate:"omitempty,oneof='Lecture Hall' Lab"`
}

// CreateInstructorRequest registers an instructor.
type CreateInstructorRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	DepartmentID    string `json:"departmentId" validate:"required"`
	MaxHoursPerWeek int    `json:"maxHoursPerWeek" validate:"omitempty,min=1,max=60"`
}

// UpdateInstructorRequest patches instructor fields.
type UpdateInstructorRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	MaxHoursPerWeek *int    `json:"maxHoursPerWeek" validate:"omitempty,min=1,max=60"`
}

// AvailabilityRequest declares one availability window for an instructor.
type AvailabilityRequest struct {
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

// PreferenceRequest scores an instructor's interest in a course.
type PreferenceRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Level    int    `json:"level" validate:"required,min=1,max=5"`
}

// CreateSemesterRequest registers an academic term.
type CreateSemesterRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// ConstraintUpsertRequest registers or updates a constraint definition.
type ConstraintUpsertRequest struct {
	Kind       string          `json:"kind" validate:"required"`
	Name       string          `json:"name" validate:"required,max=100"`
	IsHard     *bool           `json:"isHard"`
	Weight     int             `json:"weight" validate:"omitempty,min=1"`
	Parameters json.RawMessage `json:"parameters"`
}
