package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type generatorCourseSource interface {
	ListForScheduling(ctx context.Context, semesterID string, programmeIDs, departmentIDs []string) ([]models.Course, error)
	CountBySemester(ctx context.Context, semesterID string) (int, error)
}

type generatorRoomSource interface {
	ListSuitable(ctx context.Context, kind models.RoomKind, expectedStudents *int) ([]models.Room, error)
	CountAll(ctx context.Context) (int, error)
}

type generatorInstructorSource interface {
	ListForScheduling(ctx context.Context, departmentIDs []string) ([]models.Instructor, error)
	ListAvailability(ctx context.Context, instructorID string) ([]models.InstructorAvailability, error)
	ListPreferences(ctx context.Context, instructorID string) ([]models.InstructorPreference, error)
}

type generatorLedger interface {
	slotLedgerReader
	InstructorMinutes(ctx context.Context, instructorID, semesterID string) (int, error)
	ListBySemester(ctx context.Context, semesterID string) ([]models.TimetableEntry, error)
	ExistsForCourse(ctx context.Context, courseID, semesterID string) (bool, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	DeleteBySemester(ctx context.Context, semesterID string) (int64, error)
}

type constraintSource interface {
	ListAll(ctx context.Context) ([]models.ConstraintDefinition, error)
}

// RunOptions parameterize one generation run. A negative TimeLimit applies
// the configured default; a zero TimeLimit terminates the run before any
// course is attempted.
type RunOptions struct {
	SemesterID      string
	DepartmentIDs   []string
	ProgrammeIDs    []string
	Strategy        models.GenerationStrategy
	RespectExisting bool
	ClearExisting   bool
	MaxIterations   int
	TimeLimit       time.Duration
	Seed            *int64
}

// GeneratorConfig carries run defaults applied when a request leaves them
// unset.
type GeneratorConfig struct {
	MaxIterations int
	TimeLimit     time.Duration
}

// TimetableGeneratorService is the constraint-satisfaction engine. It pulls
// the course pool for a scope, ranks rooms and instructors, searches for
// feasible slots, validates them against the constraint registry, and commits
// bookings one at a time. Runs against the same semester are serialized; two
// concurrent runs over one ledger could both pass conflict checks on stale
// reads and commit overlapping bookings.
type TimetableGeneratorService struct {
	courses     generatorCourseSource
	rooms       generatorRoomSource
	instructors generatorInstructorSource
	ledger      generatorLedger
	constraints constraintSource
	logger      *zap.Logger
	cfg         GeneratorConfig

	mu     sync.Mutex
	active map[string]bool
}

// NewTimetableGeneratorService wires the generation engine.
func NewTimetableGeneratorService(
	courses generatorCourseSource,
	rooms generatorRoomSource,
	instructors generatorInstructorSource,
	ledger generatorLedger,
	constraints constraintSource,
	logger *zap.Logger,
	cfg GeneratorConfig,
) *TimetableGeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 1000
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = 5 * time.Minute
	}
	return &TimetableGeneratorService{
		courses:     courses,
		rooms:       rooms,
		instructors: instructors,
		ledger:      ledger,
		constraints: constraints,
		logger:      logger,
		cfg:         cfg,
		active:      make(map[string]bool),
	}
}

func (s *TimetableGeneratorService) acquire(semesterID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[semesterID] {
		return false
	}
	s.active[semesterID] = true
	return true
}

func (s *TimetableGeneratorService) release(semesterID string) {
	s.mu.Lock()
	delete(s.active, semesterID)
	s.mu.Unlock()
}

// instructorContext caches per-instructor data loaded once per run.
type instructorContext struct {
	instructor   models.Instructor
	availability map[models.DayOfWeek][]minuteRange
	preferences  map[string]int
}

// Run executes one generation pass and returns its metrics. Storage failures
// abort the run but leave earlier commits in the ledger; partial results
// survive a failed run.
func (s *TimetableGeneratorService) Run(ctx context.Context, opts RunOptions) (*models.GenerationMetrics, error) {
	if opts.Strategy == "" {
		opts.Strategy = models.StrategyBalanced
	}
	if !models.ValidStrategy(opts.Strategy) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown strategy %q", opts.Strategy))
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = s.cfg.MaxIterations
	}
	if opts.TimeLimit < 0 {
		opts.TimeLimit = s.cfg.TimeLimit
	}

	if !s.acquire(opts.SemesterID) {
		return nil, appErrors.ErrGenerationInProgress
	}
	defer s.release(opts.SemesterID)

	started := time.Now()

	var seed int64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = started.UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if opts.ClearExisting {
		removed, err := s.ledger.DeleteBySemester(ctx, opts.SemesterID)
		if err != nil {
			return nil, fmt.Errorf("clear existing bookings: %w", err)
		}
		s.logger.Sugar().Infow("cleared existing bookings", "semester_id", opts.SemesterID, "removed", removed)
	}

	courses, err := s.courses.ListForScheduling(ctx, opts.SemesterID, opts.ProgrammeIDs, opts.DepartmentIDs)
	if err != nil {
		return nil, fmt.Errorf("load course pool: %w", err)
	}
	orderCourses(courses, opts.Strategy, rng)

	pool, err := s.loadInstructors(ctx, opts.DepartmentIDs)
	if err != nil {
		return nil, err
	}

	defs, err := s.loadConstraintDefs(ctx)
	if err != nil {
		return nil, err
	}

	finder := newSlotFinder(s.ledger, rng)
	evaluator := newConstraintEvaluator(s.ledger)

	var (
		entriesCreated int
		softPenalty    int
		conflicts      []models.ConflictRecord
		iterations     int
	)

	for _, course := range courses {
		if iterations >= opts.MaxIterations || time.Since(started) >= opts.TimeLimit {
			s.logger.Sugar().Infow("generation budget exhausted",
				"semester_id", opts.SemesterID, "iterations", iterations, "elapsed", time.Since(started))
			break
		}
		iterations++

		if opts.RespectExisting && !opts.ClearExisting {
			exists, err := s.ledger.ExistsForCourse(ctx, course.ID, opts.SemesterID)
			if err != nil {
				return nil, fmt.Errorf("check existing booking: %w", err)
			}
			if exists {
				continue
			}
		}

		rooms, err := s.rooms.ListSuitable(ctx, models.RoomKindForCourse(course.Kind), course.ExpectedStudents)
		if err != nil {
			return nil, fmt.Errorf("load suitable rooms: %w", err)
		}
		if len(rooms) == 0 {
			conflicts = append(conflicts, models.ConflictRecord{
				Kind:       "NoSuitableRoom",
				EntityType: "course",
				EntityID:   course.ID,
				EntityName: course.Name,
				Details:    fmt.Sprintf("no %s room available for course %s", models.RoomKindForCourse(course.Kind), course.Code),
			})
			continue
		}

		candidates := rankInstructors(pool, course.ID)
		if len(candidates) == 0 {
			conflicts = append(conflicts, models.ConflictRecord{
				Kind:       "NoSuitableInstructor",
				EntityType: "course",
				EntityID:   course.ID,
				EntityName: course.Name,
				Details:    fmt.Sprintf("no instructor available for course %s", course.Code),
			})
			continue
		}

		scheduled := false
	pairSearch:
		for _, candidate := range candidates {
			for _, room := range rooms {
				slot, err := finder.FindSlot(ctx, course, candidate.instructor.ID, candidate.availability, room.ID, opts.SemesterID)
				if err != nil {
					return nil, fmt.Errorf("find slot: %w", err)
				}
				if slot == nil {
					continue
				}

				violations, err := evaluator.Violations(ctx, candidateAssignment{
					Course:     course,
					Instructor: candidate.instructor,
					Room:       room,
					Slot:       *slot,
					SemesterID: opts.SemesterID,
				})
				if err != nil {
					return nil, fmt.Errorf("evaluate constraints: %w", err)
				}

				hard, penalty := splitViolations(violations, defs)
				if len(hard) > 0 {
					conflicts = append(conflicts, models.ConflictRecord{
						Kind:       string(hard[0]),
						EntityType: "course",
						EntityID:   course.ID,
						EntityName: course.Name,
						TimeSlot:   slot,
						Details: fmt.Sprintf("constraint %s violated for course %s in room %s",
							hard[0], course.Code, room.Name),
					})
					continue
				}

				entry := &models.TimetableEntry{
					CourseID:     course.ID,
					InstructorID: candidate.instructor.ID,
					RoomID:       room.ID,
					Day:          slot.Day,
					StartMinute:  slot.StartMinute,
					EndMinute:    slot.EndMinute,
					SemesterID:   opts.SemesterID,
				}
				if err := s.ledger.Create(ctx, entry); err != nil {
					return nil, fmt.Errorf("commit booking: %w", err)
				}
				entriesCreated++
				softPenalty += penalty
				scheduled = true
				break pairSearch
			}
		}

		if !scheduled {
			conflicts = append(conflicts, models.ConflictRecord{
				Kind:       "NoSuitableTimeSlot",
				EntityType: "course",
				EntityID:   course.ID,
				EntityName: course.Name,
				Details:    fmt.Sprintf("no feasible time slot found for course %s", course.Code),
			})
		}
	}

	stats, err := s.ComputeStatistics(ctx, opts.SemesterID, len(courses))
	if err != nil {
		return nil, err
	}

	metrics := &models.GenerationMetrics{
		EntriesCreated:       entriesCreated,
		Conflicts:            len(conflicts),
		SoftPenalty:          softPenalty,
		ExecutionTimeSeconds: time.Since(started).Seconds(),
		Statistics:           *stats,
		ConflictList:         conflicts,
	}

	s.logger.Sugar().Infow("generation run finished",
		"semester_id", opts.SemesterID,
		"strategy", opts.Strategy,
		"seed", seed,
		"entries_created", entriesCreated,
		"conflicts", len(conflicts),
		"elapsed", time.Since(started))

	return metrics, nil
}

// Statistics reports current ledger metrics for a semester outside any run.
func (s *TimetableGeneratorService) Statistics(ctx context.Context, semesterID string) (*models.TimetableStatistics, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	totalCourses, err := s.courses.CountBySemester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count semester courses: %w", err)
	}
	return s.ComputeStatistics(ctx, semesterID, totalCourses)
}

// ComputeStatistics aggregates utilization metrics over the current ledger.
// Room capacity ceiling is 45 hours per week, instructor ceiling 40.
func (s *TimetableGeneratorService) ComputeStatistics(ctx context.Context, semesterID string, totalCourses int) (*models.TimetableStatistics, error) {
	entries, err := s.ledger.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load ledger for statistics: %w", err)
	}

	courseSet := make(map[string]bool)
	instructorMinutes := make(map[string]int)
	roomSet := make(map[string]bool)
	totalMinutes := 0
	for _, entry := range entries {
		courseSet[entry.CourseID] = true
		instructorMinutes[entry.InstructorID] += entry.DurationMinutes()
		roomSet[entry.RoomID] = true
		totalMinutes += entry.DurationMinutes()
	}

	roomCount, err := s.rooms.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}

	totalHours := totalMinutes / 60

	var roomUtil float64
	if roomCount > 0 {
		roomUtil = capPercentage(float64(totalHours) / float64(roomCount*45) * 100)
	}

	var instructorUtil float64
	if len(instructorMinutes) > 0 {
		sumHours := 0
		for _, minutes := range instructorMinutes {
			sumHours += minutes / 60
		}
		avgHours := float64(sumHours) / float64(len(instructorMinutes))
		instructorUtil = capPercentage(avgHours / 40 * 100)
	}

	var scheduledRatio float64
	if totalCourses > 0 {
		scheduledRatio = float64(len(courseSet)) / float64(totalCourses) * 100
	}

	return &models.TimetableStatistics{
		TotalCourses:                    totalCourses,
		CoursesScheduled:                len(courseSet),
		TotalInstructors:                len(instructorMinutes),
		TotalRooms:                      len(roomSet),
		TotalHoursScheduled:             totalHours,
		RoomUtilizationPercentage:       roomUtil,
		InstructorUtilizationPercentage: instructorUtil,
		PreferredInstructorPercentage:   scheduledRatio,
		SuitableRoomPercentage:          scheduledRatio,
	}, nil
}

func (s *TimetableGeneratorService) loadInstructors(ctx context.Context, departmentIDs []string) ([]instructorContext, error) {
	instructors, err := s.instructors.ListForScheduling(ctx, departmentIDs)
	if err != nil {
		return nil, fmt.Errorf("load instructor pool: %w", err)
	}

	pool := make([]instructorContext, 0, len(instructors))
	for _, instructor := range instructors {
		windows, err := s.instructors.ListAvailability(ctx, instructor.ID)
		if err != nil {
			return nil, fmt.Errorf("load availability for %s: %w", instructor.ID, err)
		}
		availability := make(map[models.DayOfWeek][]minuteRange)
		for _, w := range windows {
			availability[w.Day] = append(availability[w.Day], minuteRange{Start: w.StartMinute, End: w.EndMinute})
		}
		// Days without a declared window fall back to the full teaching hours.
		for day, teaching := range defaultTeachingHours {
			if _, ok := availability[day]; !ok {
				availability[day] = []minuteRange{teaching}
			}
		}

		prefs, err := s.instructors.ListPreferences(ctx, instructor.ID)
		if err != nil {
			return nil, fmt.Errorf("load preferences for %s: %w", instructor.ID, err)
		}
		preferences := make(map[string]int, len(prefs))
		for _, p := range prefs {
			preferences[p.CourseID] = p.Level
		}

		pool = append(pool, instructorContext{
			instructor:   instructor,
			availability: availability,
			preferences:  preferences,
		})
	}
	return pool, nil
}

func (s *TimetableGeneratorService) loadConstraintDefs(ctx context.Context) (map[models.ConstraintKind]models.ConstraintDefinition, error) {
	list, err := s.constraints.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load constraint definitions: %w", err)
	}
	defs := make(map[models.ConstraintKind]models.ConstraintDefinition, len(list))
	for _, def := range list {
		defs[def.Kind] = def
	}
	return defs, nil
}

// orderCourses sorts the pool in place according to the strategy. The
// instructors and minimal_changes strategies currently fall back to the
// balanced shuffle.
func orderCourses(courses []models.Course, strategy models.GenerationStrategy, rng *rand.Rand) {
	switch strategy {
	case models.StrategyRooms:
		// Lab courses first; they compete for the tightest room pool.
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].Kind == models.CourseLab && courses[j].Kind != models.CourseLab
		})
	case models.StrategyStudents:
		sort.SliceStable(courses, func(i, j int) bool {
			return expectedOrZero(courses[i]) > expectedOrZero(courses[j])
		})
	default:
		rng.Shuffle(len(courses), func(i, j int) {
			courses[i], courses[j] = courses[j], courses[i]
		})
	}
}

func expectedOrZero(course models.Course) int {
	if course.ExpectedStudents == nil {
		return 0
	}
	return *course.ExpectedStudents
}

// rankInstructors orders candidates by descending preference for the course.
// Missing preference rows score the neutral default.
func rankInstructors(pool []instructorContext, courseID string) []instructorContext {
	ranked := make([]instructorContext, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return preferenceFor(ranked[i], courseID) > preferenceFor(ranked[j], courseID)
	})
	return ranked
}

func preferenceFor(c instructorContext, courseID string) int {
	if level, ok := c.preferences[courseID]; ok {
		return level
	}
	return models.DefaultPreferenceLevel
}

// splitViolations partitions violations into hard kinds and an accumulated
// soft penalty. A kind with no registered definition is treated as hard.
func splitViolations(violations []models.ConstraintKind, defs map[models.ConstraintKind]models.ConstraintDefinition) ([]models.ConstraintKind, int) {
	var hard []models.ConstraintKind
	penalty := 0
	for _, kind := range violations {
		def, ok := defs[kind]
		if !ok || def.IsHard {
			hard = append(hard, kind)
			continue
		}
		penalty += def.Weight
	}
	return hard, penalty
}

func capPercentage(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
