package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type reservationExamRepository interface {
	List(ctx context.Context) ([]models.ExamWithRoom, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.ExamWithRoom, error)
	Create(ctx context.Context, exam *models.Exam) error
	FindByID(ctx context.Context, id string) (*models.ExamWithRoom, error)
}

type reservationRoomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type reservationCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// dateAnalysisProvider decorates calendar cells with the per-date exam
// load metric. A nil provider leaves the grid unannotated, the
// reduced-feature rendering of the calendar.
type dateAnalysisProvider interface {
	ForCourse(ctx context.Context, courseID string) ([]models.DateAnalysis, error)
	Invalidate(ctx context.Context, courseID string)
}

// ReservationService drives the exam reservation flow: month grids,
// per-room slot boards and booking creation.
type ReservationService struct {
	exams     reservationExamRepository
	rooms     reservationRoomRepository
	courses   reservationCourseRepository
	analysis  dateAnalysisProvider
	calendar  *reservation.Calendar
	engine    *reservation.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReservationService constructs a ReservationService.
func NewReservationService(
	exams reservationExamRepository,
	rooms reservationRoomRepository,
	courses reservationCourseRepository,
	analysis dateAnalysisProvider,
	calendar *reservation.Calendar,
	engine *reservation.Engine,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReservationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReservationService{
		exams:     exams,
		rooms:     rooms,
		courses:   courses,
		analysis:  analysis,
		calendar:  calendar,
		engine:    engine,
		validator: validate,
		logger:    logger,
	}
}

// Calendar builds the Jalaali month grid. Year/month zero defaults to
// the current month. A courseID attaches the date-analysis overlay when
// the provider is configured; a selected Gregorian date (YYYY-MM-DD)
// marks the matching cell.
func (s *ReservationService) Calendar(ctx context.Context, year, month int, courseID, selected string) (*models.MonthGrid, error) {
	now := time.Now().In(s.calendar.Location())
	if year == 0 || month == 0 {
		year, month, _ = s.calendar.ToJalaali(now)
	}
	if month < 1 || month > 12 || year < 1300 || year > 1500 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid jalaali year or month")
	}

	opts := reservation.GridOptions{Now: now}
	if selected != "" {
		sel, err := time.ParseInLocation("2006-01-02", selected, s.calendar.Location())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selected date")
		}
		opts.Selected = sel
	}
	if courseID != "" && s.analysis != nil {
		analyses, err := s.analysis.ForCourse(ctx, courseID)
		if err != nil {
			// The overlay is decoration; the grid must not fail with it.
			s.logger.Warn("date analysis unavailable", zap.String("course_id", courseID), zap.Error(err))
		} else {
			opts.Analyses = analyses
		}
	}

	grid := s.calendar.MonthGrid(year, month, opts)
	return &grid, nil
}

// Availability returns the slot board of every room for the given
// Gregorian date (YYYY-MM-DD, interpreted as a wall-clock day).
func (s *ReservationService) Availability(ctx context.Context, date string) ([]models.RoomAvailability, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.calendar.Location())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	exams, err := s.examsOnDay(ctx, day)
	if err != nil {
		return nil, err
	}

	return s.engine.BuildAvailability(rooms, day, exams), nil
}

// ListExams returns every booking with its room, ordered by start.
func (s *ReservationService) ListExams(ctx context.Context) ([]models.Exam, error) {
	rows, err := s.exams.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	exams := make([]models.Exam, 0, len(rows))
	for i := range rows {
		exams = append(exams, rows[i].Hydrate())
	}
	return exams, nil
}

// CreateExam validates and stores a new booking. The requested range
// must sit inside the bookable day window and be fully free in the
// chosen room; conflicting requests are rejected, never recorded.
func (s *ReservationService) CreateExam(ctx context.Context, req models.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.calendar.Location())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	startHour, startMinute, err := parseWallClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	endHour, endMinute, err := parseWallClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}

	if !s.engine.WithinDayWindow(startHour, startMinute, endHour, endMinute) {
		return nil, appErrors.Clone(appErrors.ErrOutsideDayWindow, "requested time is outside the bookable day window")
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exams, err := s.examsOnDay(ctx, day)
	if err != nil {
		return nil, err
	}
	board := s.engine.BuildRoomAvailability(*room, day, exams)
	if !s.engine.IsRangeAvailable(board, startHour, startMinute, endHour, endMinute) {
		return nil, appErrors.Clone(appErrors.ErrSlotConflict, "requested time overlaps an existing booking")
	}

	exam := &models.Exam{
		Name:     req.Name,
		CourseID: req.CourseID,
		RoomID:   room.ID,
		StartAt:  s.engine.At(day, startHour, startMinute),
		EndAt:    s.engine.At(day, endHour, endMinute),
		Status:   models.ExamStatusPending,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store exam")
	}

	exam.Room = room
	if s.analysis != nil {
		s.analysis.Invalidate(ctx, exam.CourseID)
	}
	s.logger.Info("exam reserved",
		zap.String("exam_id", exam.ID),
		zap.String("room_id", room.ID),
		zap.Time("start_at", exam.StartAt))
	return exam, nil
}

// examsOnDay loads the bookings whose start can fall on the wall-clock
// day. The scan window is padded by a day on each side so that zone
// offsets never exclude a candidate; the engine re-filters by calendar
// day components.
func (s *ReservationService) examsOnDay(ctx context.Context, day time.Time) ([]models.Exam, error) {
	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 2)
	rows, err := s.exams.ListBetween(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	exams := make([]models.Exam, 0, len(rows))
	for i := range rows {
		exams = append(exams, rows[i].Hydrate())
	}
	return exams, nil
}

func parseWallClock(value string) (hour, minute int, err error) {
	if _, perr := fmt.Sscanf(value, "%d:%d", &hour, &minute); perr != nil {
		return 0, 0, fmt.Errorf("parse wall clock %q: %w", value, perr)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("wall clock %q out of range", value)
	}
	return hour, minute, nil
}
