package service

import (
	"context"
	"math/rand"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// Slot durations are fixed by course kind; candidate starts advance in
// 30-minute steps within each availability window.
const (
	theoryDurationMinutes = 60
	labDurationMinutes    = 120
	slotStepMinutes       = 30
)

type minuteRange struct {
	Start int
	End   int
}

// defaultTeachingHours are the campus-wide teaching windows. Days without an
// entry are non-teaching days and are skipped entirely.
var defaultTeachingHours = map[models.DayOfWeek]minuteRange{
	models.Monday:    {Start: 8 * 60, End: 17 * 60},
	models.Tuesday:   {Start: 8 * 60, End: 17 * 60},
	models.Wednesday: {Start: 8 * 60, End: 17 * 60},
	models.Thursday:  {Start: 8 * 60, End: 17 * 60},
	models.Friday:    {Start: 8 * 60, End: 17 * 60},
	models.Saturday:  {Start: 8 * 60, End: 13 * 60},
}

func durationForCourse(kind models.CourseKind) int {
	if kind == models.CourseLab {
		return labDurationMinutes
	}
	return theoryDurationMinutes
}

type slotLedgerReader interface {
	ListByRoomDay(ctx context.Context, roomID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
	ListByInstructorDay(ctx context.Context, instructorID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
}

// slotFinder performs the first-fit search for a feasible (day, start, end)
// window. Day order is randomized per call so load spreads across the week
// instead of always filling Monday first.
type slotFinder struct {
	ledger slotLedgerReader
	rng    *rand.Rand
}

func newSlotFinder(ledger slotLedgerReader, rng *rand.Rand) *slotFinder {
	return &slotFinder{ledger: ledger, rng: rng}
}

// FindSlot returns the first window feasible for both instructor and room, or
// nil when no day holds one. The availability map is the instructor's
// declared windows after the default-hours fallback; each window is clipped
// to the teaching hours of its day before candidate slots are enumerated.
func (f *slotFinder) FindSlot(ctx context.Context, course models.Course, instructorID string, availability map[models.DayOfWeek][]minuteRange, roomID, semesterID string) (*models.TimeWindow, error) {
	duration := durationForCourse(course.Kind)

	days := make([]models.DayOfWeek, len(models.AllDays))
	copy(days, models.AllDays)
	f.rng.Shuffle(len(days), func(i, j int) {
		days[i], days[j] = days[j], days[i]
	})

	for _, day := range days {
		teaching, ok := defaultTeachingHours[day]
		if !ok {
			continue
		}

		windows := clipWindows(availability[day], teaching)
		if len(windows) == 0 {
			continue
		}

		instructorBusy, err := f.ledger.ListByInstructorDay(ctx, instructorID, day, semesterID)
		if err != nil {
			return nil, err
		}
		roomBusy, err := f.ledger.ListByRoomDay(ctx, roomID, day, semesterID)
		if err != nil {
			return nil, err
		}

		for _, window := range windows {
			for start := window.Start; start+duration <= window.End; start += slotStepMinutes {
				end := start + duration
				if anyOverlap(instructorBusy, start, end) {
					continue
				}
				if anyOverlap(roomBusy, start, end) {
					continue
				}
				return &models.TimeWindow{Day: day, StartMinute: start, EndMinute: end}, nil
			}
		}
	}
	return nil, nil
}

// clipWindows intersects each window with the day's teaching hours, dropping
// empty intersections.
func clipWindows(windows []minuteRange, teaching minuteRange) []minuteRange {
	clipped := make([]minuteRange, 0, len(windows))
	for _, w := range windows {
		start := w.Start
		if start < teaching.Start {
			start = teaching.Start
		}
		end := w.End
		if end > teaching.End {
			end = teaching.End
		}
		if start < end {
			clipped = append(clipped, minuteRange{Start: start, End: end})
		}
	}
	return clipped
}

func anyOverlap(entries []models.TimetableEntry, startMinute, endMinute int) bool {
	for _, entry := range entries {
		if entry.Overlaps(startMinute, endMinute) {
			return true
		}
	}
	return false
}
