package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func singleDayAvailability(day models.DayOfWeek, start, end int) map[models.DayOfWeek][]minuteRange {
	return map[models.DayOfWeek][]minuteRange{day: {{Start: start, End: end}}}
}

func TestFindSlotSkipsNonTeachingDays(t *testing.T) {
	finder := newSlotFinder(&fakeLedger{}, rand.New(rand.NewSource(1)))
	course := models.Course{ID: "c1", Kind: models.CourseTheory}

	slot, err := finder.FindSlot(context.Background(), course, "i1", singleDayAvailability(models.Sunday, 480, 1020), "r1", "sem1")
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestFindSlotClipsToSaturdayWindow(t *testing.T) {
	// The room is busy all Saturday morning, leaving 11:00 as the only start
	// that fits a two-hour lab before the 13:00 close.
	ledger := &fakeLedger{entries: []models.TimetableEntry{
		{ID: "e1", RoomID: "r1", InstructorID: "other", Day: models.Saturday, StartMinute: 480, EndMinute: 660, SemesterID: "sem1"},
	}}
	finder := newSlotFinder(ledger, rand.New(rand.NewSource(1)))
	course := models.Course{ID: "c1", Kind: models.CourseLab}

	slot, err := finder.FindSlot(context.Background(), course, "i1", singleDayAvailability(models.Saturday, 480, 18*60), "r1", "sem1")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, models.Saturday, slot.Day)
	assert.Equal(t, 660, slot.StartMinute)
	assert.Equal(t, 780, slot.EndMinute)
}

func TestFindSlotAvoidsInstructorBookings(t *testing.T) {
	ledger := &fakeLedger{entries: []models.TimetableEntry{
		{ID: "e1", RoomID: "other", InstructorID: "i1", Day: models.Monday, StartMinute: 480, EndMinute: 540, SemesterID: "sem1"},
	}}
	finder := newSlotFinder(ledger, rand.New(rand.NewSource(1)))
	course := models.Course{ID: "c1", Kind: models.CourseTheory}

	slot, err := finder.FindSlot(context.Background(), course, "i1", singleDayAvailability(models.Monday, 480, 600), "r1", "sem1")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, 540, slot.StartMinute)
	assert.Equal(t, 600, slot.EndMinute)
}

func TestFindSlotReturnsNilWhenDayIsFull(t *testing.T) {
	ledger := &fakeLedger{entries: []models.TimetableEntry{
		{ID: "e1", RoomID: "r1", InstructorID: "other", Day: models.Monday, StartMinute: 480, EndMinute: 1020, SemesterID: "sem1"},
	}}
	finder := newSlotFinder(ledger, rand.New(rand.NewSource(1)))
	course := models.Course{ID: "c1", Kind: models.CourseTheory}

	slot, err := finder.FindSlot(context.Background(), course, "i1", singleDayAvailability(models.Monday, 480, 1020), "r1", "sem1")
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestFindSlotIgnoresOtherSemesters(t *testing.T) {
	ledger := &fakeLedger{entries: []models.TimetableEntry{
		{ID: "e1", RoomID: "r1", InstructorID: "i1", Day: models.Monday, StartMinute: 480, EndMinute: 1020, SemesterID: "sem2"},
	}}
	finder := newSlotFinder(ledger, rand.New(rand.NewSource(1)))
	course := models.Course{ID: "c1", Kind: models.CourseTheory}

	slot, err := finder.FindSlot(context.Background(), course, "i1", singleDayAvailability(models.Monday, 480, 600), "r1", "sem1")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, 480, slot.StartMinute)
}

func TestDurationForCourse(t *testing.T) {
	assert.Equal(t, 60, durationForCourse(models.CourseTheory))
	assert.Equal(t, 120, durationForCourse(models.CourseLab))
}

func TestClipWindows(t *testing.T) {
	teaching := minuteRange{Start: 480, End: 1020}

	clipped := clipWindows([]minuteRange{
		{Start: 400, End: 560},
		{Start: 900, End: 1200},
		{Start: 100, End: 200},
	}, teaching)

	require.Len(t, clipped, 2)
	assert.Equal(t, minuteRange{Start: 480, End: 560}, clipped[0])
	assert.Equal(t, minuteRange{Start: 900, End: 1020}, clipped[1])
}
