package dto

// CreateTimetableEntryRequest creates one manual timetable entry. Times are
// HH:MM clock strings.
type CreateTimetableEntryRequest struct {
	CourseID     string `json:"courseId" validate:"required"`
	InstructorID string `json:"instructorId" validate:"required"`
	RoomID       string `json:"roomId" validate:"required"`
	SemesterID   string `json:"semesterId" validate:"required"`
	Day          string `json:"day" validate:"required"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
}

// UpdateTimetableEntryRequest moves an existing entry.
type UpdateTimetableEntryRequest struct {
	InstructorID *string `json:"instructorId"`
	RoomID       *string `json:"roomId"`
	Day          *string `json:"day"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
}

// TimetableQuery filters timetable listings.
type TimetableQuery struct {
	SemesterID   string `form:"semesterId"`
	CourseID     string `form:"courseId"`
	InstructorID string `form:"instructorId"`
	RoomID       string `form:"roomId"`
	Day          string `form:"day"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	SortBy       string `form:"sort"`
	SortOrder    string `form:"order"`
}
