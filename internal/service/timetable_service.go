package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/export"
)

type timetableEntryStore interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, int, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	ListByRoomDay(ctx context.Context, roomID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
	ListByInstructorDay(ctx context.Context, instructorID string, day models.DayOfWeek, semesterID string) ([]models.TimetableEntry, error)
	ListBySemester(ctx context.Context, semesterID string) ([]models.TimetableEntry, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	DeleteBySemester(ctx context.Context, semesterID string) (int64, error)
}

type timetableCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type timetableRoomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type timetableInstructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TimetableService manages manual timetable entries and semester views. Manual
// creates and moves pass the same hard checks the generator enforces: room
// kind compatibility and room/instructor overlap.
type TimetableService struct {
	entries     timetableEntryStore
	courses     timetableCourseReader
	rooms       timetableRoomReader
	instructors timetableInstructorReader
	cache       timetableCache
	validator   *validator.Validate
	logger      *zap.Logger
	cacheTTL    time.Duration

	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewTimetableService constructs the timetable service. The cache is
// optional; a nil cache disables semester view caching.
func NewTimetableService(
	entries timetableEntryStore,
	courses timetableCourseReader,
	rooms timetableRoomReader,
	instructors timetableInstructorReader,
	cache timetableCache,
	validate *validator.Validate,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &TimetableService{
		entries:     entries,
		courses:     courses,
		rooms:       rooms,
		instructors: instructors,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		cacheTTL:    cacheTTL,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// List returns timetable entries with pagination metadata.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableEntry, *models.Pagination, error) {
	filter := models.TimetableFilter{
		SemesterID:   query.SemesterID,
		CourseID:     query.CourseID,
		InstructorID: query.InstructorID,
		RoomID:       query.RoomID,
		Day:          query.Day,
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	}
	entries, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// SemesterView returns every entry in a semester, served from cache when
// fresh.
func (s *TimetableService) SemesterView(ctx context.Context, semesterID string) ([]models.TimetableEntry, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}

	cacheKey := semesterViewKey(semesterID)
	if s.cache != nil {
		var cached []models.TimetableEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("semester view cache read failed", "semester_id", semesterID, "error", err)
		}
	}

	entries, err := s.entries.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester timetable")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("semester view cache write failed", "semester_id", semesterID, "error", err)
		}
	}
	return entries, nil
}

// Get loads one entry.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return entry, nil
}

// Create validates and commits one manual entry.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable entry payload")
	}

	day := models.DayOfWeek(req.Day)
	if !models.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}
	start, end, err := parseClockRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	course, err := s.loadCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	room, err := s.loadRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	if models.RoomKindForCourse(course.Kind) != room.Kind {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %s kind %s does not suit a %s course", room.Name, room.Kind, course.Kind))
	}

	if err := s.ensureSlotFree(ctx, req.RoomID, req.InstructorID, day, start, end, req.SemesterID, ""); err != nil {
		return nil, err
	}

	entry := &models.TimetableEntry{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		RoomID:       req.RoomID,
		Day:          day,
		StartMinute:  start,
		EndMinute:    end,
		SemesterID:   req.SemesterID,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}
	s.invalidateSemester(ctx, req.SemesterID)
	return entry, nil
}

// Update moves an existing entry to a new instructor, room, or window.
func (s *TimetableService) Update(ctx context.Context, id string, req dto.UpdateTimetableEntryRequest) (*models.TimetableEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.InstructorID != nil {
		if _, err := s.loadInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
		entry.InstructorID = *req.InstructorID
	}
	if req.RoomID != nil {
		course, err := s.loadCourse(ctx, entry.CourseID)
		if err != nil {
			return nil, err
		}
		room, err := s.loadRoom(ctx, *req.RoomID)
		if err != nil {
			return nil, err
		}
		if models.RoomKindForCourse(course.Kind) != room.Kind {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %s kind %s does not suit a %s course", room.Name, room.Kind, course.Kind))
		}
		entry.RoomID = *req.RoomID
	}
	if req.Day != nil {
		day := models.DayOfWeek(*req.Day)
		if !models.ValidDay(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", *req.Day))
		}
		entry.Day = day
	}
	if req.StartTime != nil || req.EndTime != nil {
		startClock := models.MinutesToClock(entry.StartMinute)
		endClock := models.MinutesToClock(entry.EndMinute)
		if req.StartTime != nil {
			startClock = *req.StartTime
		}
		if req.EndTime != nil {
			endClock = *req.EndTime
		}
		start, end, err := parseClockRange(startClock, endClock)
		if err != nil {
			return nil, err
		}
		entry.StartMinute = start
		entry.EndMinute = end
	}

	if err := s.ensureSlotFree(ctx, entry.RoomID, entry.InstructorID, entry.Day, entry.StartMinute, entry.EndMinute, entry.SemesterID, entry.ID); err != nil {
		return nil, err
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
	}
	s.invalidateSemester(ctx, entry.SemesterID)
	return entry, nil
}

// Delete removes one entry.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	s.invalidateSemester(ctx, entry.SemesterID)
	return nil
}

// ClearSemester bulk-removes every entry in a semester and reports the count.
func (s *TimetableService) ClearSemester(ctx context.Context, semesterID string) (int64, error) {
	if semesterID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	removed, err := s.entries.DeleteBySemester(ctx, semesterID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear semester timetable")
	}
	s.invalidateSemester(ctx, semesterID)
	s.logger.Sugar().Infow("semester timetable cleared", "semester_id", semesterID, "removed", removed)
	return removed, nil
}

// ExportCSV renders the semester timetable as CSV bytes.
func (s *TimetableService) ExportCSV(ctx context.Context, semesterID string) ([]byte, error) {
	data, err := s.exportDataset(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(*data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, nil
}

// ExportPDF renders the semester timetable as a tabular PDF.
func (s *TimetableService) ExportPDF(ctx context.Context, semesterID string) ([]byte, error) {
	data, err := s.exportDataset(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(*data, "Semester Timetable")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, nil
}

func (s *TimetableService) exportDataset(ctx context.Context, semesterID string) (*export.Dataset, error) {
	entries, err := s.SemesterView(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	courseNames := make(map[string]string)
	instructorNames := make(map[string]string)
	roomNames := make(map[string]string)

	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		courseName, ok := courseNames[entry.CourseID]
		if !ok {
			course, err := s.loadCourse(ctx, entry.CourseID)
			if err != nil {
				return nil, err
			}
			courseName = fmt.Sprintf("%s %s", course.Code, course.Name)
			courseNames[entry.CourseID] = courseName
		}
		instructorName, ok := instructorNames[entry.InstructorID]
		if !ok {
			instructor, err := s.loadInstructor(ctx, entry.InstructorID)
			if err != nil {
				return nil, err
			}
			instructorName = instructor.Name
			instructorNames[entry.InstructorID] = instructorName
		}
		roomName, ok := roomNames[entry.RoomID]
		if !ok {
			room, err := s.loadRoom(ctx, entry.RoomID)
			if err != nil {
				return nil, err
			}
			roomName = room.Name
			roomNames[entry.RoomID] = roomName
		}

		rows = append(rows, map[string]string{
			"Day":        string(entry.Day),
			"Start":      models.MinutesToClock(entry.StartMinute),
			"End":        models.MinutesToClock(entry.EndMinute),
			"Course":     courseName,
			"Instructor": instructorName,
			"Room":       roomName,
		})
	}

	return &export.Dataset{
		Headers: []string{"Day", "Start", "End", "Course", "Instructor", "Room"},
		Rows:    rows,
	}, nil
}

// ensureSlotFree rejects a window that overlaps any other booking for the
// room or instructor on that day. excludeID skips the entry being moved.
func (s *TimetableService) ensureSlotFree(ctx context.Context, roomID, instructorID string, day models.DayOfWeek, start, end int, semesterID, excludeID string) error {
	roomBusy, err := s.entries.ListByRoomDay(ctx, roomID, day, semesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room bookings")
	}
	for _, other := range roomBusy {
		if other.ID != excludeID && other.Overlaps(start, end) {
			return appErrors.Clone(appErrors.ErrScheduleConflict, fmt.Sprintf("room is booked %s-%s on %s",
				models.MinutesToClock(other.StartMinute), models.MinutesToClock(other.EndMinute), day))
		}
	}

	instructorBusy, err := s.entries.ListByInstructorDay(ctx, instructorID, day, semesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor bookings")
	}
	for _, other := range instructorBusy {
		if other.ID != excludeID && other.Overlaps(start, end) {
			return appErrors.Clone(appErrors.ErrScheduleConflict, fmt.Sprintf("instructor is booked %s-%s on %s",
				models.MinutesToClock(other.StartMinute), models.MinutesToClock(other.EndMinute), day))
		}
	}
	return nil
}

func (s *TimetableService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *TimetableService) loadRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

func (s *TimetableService) loadInstructor(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

func (s *TimetableService) invalidateSemester(ctx context.Context, semesterID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, semesterViewKey(semesterID)); err != nil {
		s.logger.Sugar().Warnw("semester view cache invalidation failed", "semester_id", semesterID, "error", err)
	}
}

func semesterViewKey(semesterID string) string {
	return "timetable:semester:" + semesterID
}

func parseClockRange(startClock, endClock string) (int, int, error) {
	start, err := models.ClockToMinutes(startClock)
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start time %q", startClock))
	}
	end, err := models.ClockToMinutes(endClock)
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid end time %q", endClock))
	}
	if start >= end {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return start, end, nil
}
