package dto

import "github.com/noah-isme/uni-timetable-api/internal/models"

// GenerateTimetableRequest starts a generation run for a semester.
type GenerateTimetableRequest struct {
	SemesterID       string                    `json:"semesterId" validate:"required"`
	DepartmentIDs    []string                  `json:"departmentIds"`
	ProgrammeIDs     []string                  `json:"programmeIds"`
	Strategy         models.GenerationStrategy `json:"strategy" validate:"omitempty,oneof=balanced rooms instructors students minimal_changes"`
	RespectExisting  *bool                     `json:"respectExisting"`
	ClearExisting    bool                      `json:"clearExisting"`
	MaxIterations    int                       `json:"maxIterations" validate:"omitempty,min=1"`
	TimeLimitSeconds *int                      `json:"timeLimitSeconds" validate:"omitempty,min=0"`
	Seed             *int64                    `json:"seed"`
}

// GenerationJobResponse describes a queued or finished generation job.
type GenerationJobResponse struct {
	ID            string                    `json:"id"`
	SemesterID    string                    `json:"semester_id"`
	Status        models.GenerationStatus   `json:"status"`
	Strategy      models.GenerationStrategy `json:"strategy"`
	ErrorMessage  *string                   `json:"error_message,omitempty"`
	ResultMetrics *models.GenerationMetrics `json:"result_metrics,omitempty"`
}

// GenerationRunResult is the outcome of one completed run, surfaced on the
// job once it reaches a terminal status.
type GenerationRunResult struct {
	JobID                string                     `json:"job_id"`
	Status               models.GenerationStatus    `json:"status"`
	EntriesCreated       int                        `json:"entries_created"`
	ConflictsDetected    []models.ConflictRecord    `json:"conflicts_detected"`
	Statistics           models.TimetableStatistics `json:"statistics"`
	ExecutionTimeSeconds float64                    `json:"execution_time_seconds"`
}
