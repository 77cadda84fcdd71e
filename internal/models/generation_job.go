package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GenerationStatus captures the generation job lifecycle. Transitions are
// monotonic: Pending -> Running -> {Completed, Failed}.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "Pending"
	GenerationRunning   GenerationStatus = "Running"
	GenerationCompleted GenerationStatus = "Completed"
	GenerationFailed    GenerationStatus = "Failed"
)

// GenerationStrategy selects course ordering during a run.
type GenerationStrategy string

const (
	StrategyBalanced       GenerationStrategy = "balanced"
	StrategyRooms          GenerationStrategy = "rooms"
	StrategyInstructors    GenerationStrategy = "instructors"
	StrategyStudents       GenerationStrategy = "students"
	StrategyMinimalChanges GenerationStrategy = "minimal_changes"
)

// ValidStrategy reports whether the value is a known strategy.
func ValidStrategy(s GenerationStrategy) bool {
	switch s {
	case StrategyBalanced, StrategyRooms, StrategyInstructors, StrategyStudents, StrategyMinimalChanges:
		return true
	default:
		return false
	}
}

// GenerationJob is the persisted lifecycle record for one generator run.
type GenerationJob struct {
	ID            string             `db:"id" json:"id"`
	SemesterID    string             `db:"semester_id" json:"semester_id"`
	Status        GenerationStatus   `db:"status" json:"status"`
	Strategy      GenerationStrategy `db:"strategy" json:"strategy"`
	ErrorMessage  *string            `db:"error_message" json:"error_message,omitempty"`
	ResultMetrics *GenerationMetrics `db:"result_metrics" json:"result_metrics,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	CompletedAt   *time.Time         `db:"completed_at" json:"completed_at,omitempty"`
}

// GenerationMetrics is the serialized result blob stored on completed jobs.
type GenerationMetrics struct {
	EntriesCreated       int                 `json:"entries_created"`
	Conflicts            int                 `json:"conflicts"`
	SoftPenalty          int                 `json:"soft_penalty"`
	ExecutionTimeSeconds float64             `json:"execution_time_seconds"`
	Statistics           TimetableStatistics `json:"statistics"`
	ConflictList         []ConflictRecord    `json:"conflict_list,omitempty"`
}

// TimeWindow is one attempted (day, start, end) slot referenced by a
// conflict record.
type TimeWindow struct {
	Day         DayOfWeek `json:"day"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
}

// ConflictRecord is an unschedulable-course diagnostic accumulated during a
// run. The time slot is nil when no slot was ever reached.
type ConflictRecord struct {
	Kind       string      `json:"kind"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	EntityName string      `json:"entity_name"`
	TimeSlot   *TimeWindow `json:"time_slot,omitempty"`
	Details    string      `json:"details"`
}

// TimetableStatistics aggregates post-run metrics over the booking ledger.
// The preference/suitability percentages are acknowledged approximations
// (scheduled ÷ total), not exact derivations.
type TimetableStatistics struct {
	TotalCourses                     int     `json:"total_courses"`
	CoursesScheduled                 int     `json:"courses_scheduled"`
	TotalInstructors                 int     `json:"total_instructors"`
	TotalRooms                       int     `json:"total_rooms"`
	TotalHoursScheduled              int     `json:"total_hours_scheduled"`
	RoomUtilizationPercentage        float64 `json:"room_utilization_percentage"`
	InstructorUtilizationPercentage  float64 `json:"instructor_utilization_percentage"`
	PreferredInstructorPercentage    float64 `json:"courses_with_preferred_instructors_percentage"`
	SuitableRoomPercentage           float64 `json:"courses_in_suitable_rooms_percentage"`
}

// Value marshals metrics to JSON for persistence.
func (m GenerationMetrics) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal generation metrics: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the metrics struct.
func (m *GenerationMetrics) Scan(value interface{}) error {
	if value == nil {
		*m = GenerationMetrics{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for GenerationMetrics", value)
	}
	if len(data) == 0 {
		*m = GenerationMetrics{}
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal generation metrics: %w", err)
	}
	return nil
}
