package models

import (
	"fmt"
	"time"
)

// DayOfWeek names a calendar day in timetable entries and availability rows.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// AllDays lists the seven days in calendar order.
var AllDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ValidDay reports whether the value is one of the seven day names.
func ValidDay(day DayOfWeek) bool {
	for _, d := range AllDays {
		if d == day {
			return true
		}
	}
	return false
}

// TimetableEntry is one committed (course, instructor, room, day, window)
// assignment. Entries are created by the generator or by manual entry
// creation and are never mutated in place by a run.
type TimetableEntry struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	Day          DayOfWeek `db:"day" json:"day"`
	StartMinute  int       `db:"start_minute" json:"start_minute"`
	EndMinute    int       `db:"end_minute" json:"end_minute"`
	SemesterID   string    `db:"semester_id" json:"semester_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the entry length.
func (e TimetableEntry) DurationMinutes() int {
	return e.EndMinute - e.StartMinute
}

// Overlaps reports whether the [start,end) windows of two entries intersect.
func (e TimetableEntry) Overlaps(startMinute, endMinute int) bool {
	return IntervalsOverlap(e.StartMinute, e.EndMinute, startMinute, endMinute)
}

// IntervalsOverlap reports whether two half-open minute intervals intersect.
func IntervalsOverlap(start1, end1, start2, end2 int) bool {
	return max(start1, start2) < min(end1, end2)
}

// MinutesToClock renders minutes from midnight as HH:MM.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes parses HH:MM into minutes from midnight.
func ClockToMinutes(clock string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock %q out of range", clock)
	}
	return hour*60 + minute, nil
}

// TimetableFilter captures filtering criteria for listing entries.
type TimetableFilter struct {
	SemesterID   string
	CourseID     string
	InstructorID string
	RoomID       string
	Day          string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
