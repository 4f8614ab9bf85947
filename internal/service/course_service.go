package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	CountStudents(ctx context.Context, courseID string) (int, error)
	CountExams(ctx context.Context, courseID string) (int, error)
}

type courseTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type courseStudentRepository interface {
	ListByCourse(ctx context.Context, courseID string, page, pageSize int) ([]models.Student, int, error)
}

type courseExamRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ExamWithRoom, error)
}

// CourseDetailsPage is the course detail response: the aggregate plus
// roster pagination and derived exam views.
type CourseDetailsPage struct {
	models.CourseDetails
	Stats         models.CourseStats         `json:"stats"`
	UpcomingExams []models.ExamScheduleEntry `json:"upcoming_exams"`
	Pagination    models.Pagination          `json:"-"`
}

// CourseService assembles the course detail page.
type CourseService struct {
	courses  courseRepository
	teachers courseTeacherRepository
	students courseStudentRepository
	exams    courseExamRepository
	calendar *reservation.Calendar
	logger   *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(
	courses courseRepository,
	teachers courseTeacherRepository,
	students courseStudentRepository,
	exams courseExamRepository,
	calendar *reservation.Calendar,
	logger *zap.Logger,
) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:  courses,
		teachers: teachers,
		students: students,
		exams:    exams,
		calendar: calendar,
		logger:   logger,
	}
}

// RosterPageSize is the fixed roster page length on the course page.
const RosterPageSize = 10

// Details loads one course with teacher, one roster page, exams, stats
// and upcoming exam views.
func (s *CourseService) Details(ctx context.Context, courseID string, page int) (*CourseDetailsPage, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	teacher, err := s.teachers.FindByID(ctx, course.TeacherID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	students, totalStudents, err := s.students.ListByCourse(ctx, courseID, page, RosterPageSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	rows, err := s.exams.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	exams := make([]models.Exam, 0, len(rows))
	for i := range rows {
		exams = append(exams, rows[i].Hydrate())
	}

	now := time.Now().In(s.calendar.Location())
	details := &CourseDetailsPage{
		CourseDetails: models.CourseDetails{
			Course:   *course,
			Students: students,
			Exams:    exams,
		},
		Stats:         s.stats(exams, totalStudents, now),
		UpcomingExams: s.upcoming(exams, now),
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   RosterPageSize,
			TotalCount: totalStudents,
		},
	}
	if teacher != nil {
		details.Teacher = *teacher
	}
	return details, nil
}

func (s *CourseService) stats(exams []models.Exam, totalStudents int, now time.Time) models.CourseStats {
	stats := models.CourseStats{
		TotalStudents: totalStudents,
		TotalExams:    len(exams),
	}
	for _, exam := range exams {
		if reservation.SameCalendarDay(exam.StartAt, now, s.calendar.Location()) {
			stats.TodayExams++
		}
		if exam.StartAt.After(now) {
			stats.UpcomingExams++
		}
	}
	return stats
}

// upcoming projects future bookings into display entries sorted by
// start, closest first.
func (s *CourseService) upcoming(exams []models.Exam, now time.Time) []models.ExamScheduleEntry {
	entries := make([]models.ExamScheduleEntry, 0, len(exams))
	for _, exam := range exams {
		if !exam.StartAt.After(now) {
			continue
		}
		entries = append(entries, s.scheduleEntry(exam, now))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartAt.Before(entries[j].StartAt)
	})
	return entries
}

func (s *CourseService) scheduleEntry(exam models.Exam, now time.Time) models.ExamScheduleEntry {
	loc := s.calendar.Location()
	start := exam.StartAt.In(loc)
	end := exam.EndAt.In(loc)

	entry := models.ExamScheduleEntry{
		Exam:        exam,
		PersianDate: s.calendar.FormatJalaali(start),
		WeekdayName: s.calendar.WeekdayName(start),
		TimeRange:   fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04")),
	}
	switch {
	case start.Before(now):
		entry.StatusLabel = "past"
	case start.Sub(now) <= 7*24*time.Hour:
		entry.IsSoon = true
		entry.StatusLabel = "soon"
	default:
		entry.StatusLabel = "upcoming"
	}
	return entry
}

// ScheduleEntries projects every booking of a course, past included,
// for the schedule export.
func (s *CourseService) ScheduleEntries(ctx context.Context, courseID string) ([]models.ExamScheduleEntry, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	rows, err := s.exams.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}

	now := time.Now().In(s.calendar.Location())
	entries := make([]models.ExamScheduleEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, s.scheduleEntry(rows[i].Hydrate(), now))
	}
	return entries, nil
}
