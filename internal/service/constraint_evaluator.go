package service

import (
	"context"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

type evaluatorLedgerReader interface {
	ListByRoomDay(ctx context.Context, roomID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
	ListByInstructorDay(ctx context.Context, instructorID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
	InstructorMinutes(ctx context.Context, instructorID, semesterID string) (int, error)
}

// candidateAssignment is one tentative (course, instructor, room, slot)
// tuple awaiting constraint evaluation.
type candidateAssignment struct {
	Course     models.Course
	Instructor models.Instructor
	Room       models.Room
	Slot       models.TimeWindow
	SemesterID string
}

// constraintCheck reports whether the candidate violates one constraint kind.
type constraintCheck func(ctx context.Context, c candidateAssignment) (bool, error)

// constraintEvaluator runs every registered check against a candidate. Checks
// are independent and all evaluated; the scheduler decides afterwards which
// violations block the commit. New kinds plug in via the checks map without
// touching scheduler control flow.
type constraintEvaluator struct {
	ledger evaluatorLedgerReader
	checks map[models.ConstraintKind]constraintCheck
}

func newConstraintEvaluator(ledger evaluatorLedgerReader) *constraintEvaluator {
	e := &constraintEvaluator{ledger: ledger}
	e.checks = map[models.ConstraintKind]constraintCheck{
		models.ConstraintRoomTypeMatch:        e.checkRoomTypeMatch,
		models.ConstraintRoomCapacity:         e.checkRoomCapacity,
		models.ConstraintInstructorMaxHours:   e.checkInstructorMaxHours,
		models.ConstraintNoRoomConflict:       e.checkNoRoomConflict,
		models.ConstraintNoInstructorConflict: e.checkNoInstructorConflict,
	}
	return e
}

// Violations returns every constraint kind the candidate breaks. Evaluation
// order follows KnownConstraintKinds so results are stable across runs.
func (e *constraintEvaluator) Violations(ctx context.Context, c candidateAssignment) ([]models.ConstraintKind, error) {
	var violated []models.ConstraintKind
	for _, kind := range models.KnownConstraintKinds {
		check, ok := e.checks[kind]
		if !ok {
			continue
		}
		broken, err := check(ctx, c)
		if err != nil {
			return nil, err
		}
		if broken {
			violated = append(violated, kind)
		}
	}
	return violated, nil
}

func (e *constraintEvaluator) checkRoomTypeMatch(_ context.Context, c candidateAssignment) (bool, error) {
	return models.RoomKindForCourse(c.Course.Kind) != c.Room.Kind, nil
}

func (e *constraintEvaluator) checkRoomCapacity(_ context.Context, c candidateAssignment) (bool, error) {
	if c.Course.ExpectedStudents == nil {
		return false, nil
	}
	return c.Room.Capacity < *c.Course.ExpectedStudents, nil
}

// checkInstructorMaxHours rounds both booked time and the candidate duration
// down to whole hours before comparing against the weekly budget.
func (e *constraintEvaluator) checkInstructorMaxHours(ctx context.Context, c candidateAssignment) (bool, error) {
	bookedMinutes, err := e.ledger.InstructorMinutes(ctx, c.Instructor.ID, c.SemesterID)
	if err != nil {
		return false, err
	}
	bookedHours := bookedMinutes / 60
	slotHours := (c.Slot.EndMinute - c.Slot.StartMinute) / 60
	return bookedHours+slotHours > c.Instructor.MaxHoursPerWeek, nil
}

func (e *constraintEvaluator) checkNoRoomConflict(ctx context.Context, c candidateAssignment) (bool, error) {
	busy, err := e.ledger.ListByRoomDay(ctx, c.Room.ID, c.Slot.Day, c.SemesterID)
	if err != nil {
		return false, err
	}
	return anyOverlap(busy, c.Slot.StartMinute, c.Slot.EndMinute), nil
}

func (e *constraintEvaluator) checkNoInstructorConflict(ctx context.Context, c candidateAssignment) (bool, error) {
	busy, err := e.ledger.ListByInstructorDay(ctx, c.Instructor.ID, c.Slot.Day, c.SemesterID)
	if err != nil {
		return false, err
	}
	return anyOverlap(busy, c.Slot.StartMinute, c.Slot.EndMinute), nil
}
