package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type dashboardTeacherRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

type dashboardStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type dashboardCourseRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	CountStudents(ctx context.Context, courseID string) (int, error)
	CountExams(ctx context.Context, courseID string) (int, error)
}

type dashboardExamRepository interface {
	ListForTeacher(ctx context.Context, teacherID string) ([]models.ExamWithRoom, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.ExamWithRoom, error)
}

// TeacherDashboard is the teacher landing page payload.
type TeacherDashboard struct {
	Teacher       models.Teacher            `json:"teacher"`
	Courses       []models.CourseSummary    `json:"courses"`
	UpcomingExams []models.UpcomingExamView `json:"upcoming_exams"`
}

// StudentDashboard is the student landing page payload.
type StudentDashboard struct {
	Student       models.Student            `json:"student"`
	Courses       []models.CourseSummary    `json:"courses"`
	TotalUnits    int                       `json:"total_units"`
	UpcomingExams []models.UpcomingExamView `json:"upcoming_exams"`
}

// DashboardService assembles the role-specific landing pages.
type DashboardService struct {
	teachers dashboardTeacherRepository
	students dashboardStudentRepository
	courses  dashboardCourseRepository
	exams    dashboardExamRepository
	calendar *reservation.Calendar
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	teachers dashboardTeacherRepository,
	students dashboardStudentRepository,
	courses dashboardCourseRepository,
	exams dashboardExamRepository,
	calendar *reservation.Calendar,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		teachers: teachers,
		students: students,
		courses:  courses,
		exams:    exams,
		calendar: calendar,
		logger:   logger,
	}
}

// ForTeacher builds the dashboard of the teacher linked to userID.
func (s *DashboardService) ForTeacher(ctx context.Context, userID string) (*TeacherDashboard, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	courses, err := s.courses.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	summaries, err := s.summarize(ctx, courses, "")
	if err != nil {
		return nil, err
	}

	rows, err := s.exams.ListForTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}

	return &TeacherDashboard{
		Teacher:       *teacher,
		Courses:       summaries,
		UpcomingExams: s.upcomingViews(rows, courses),
	}, nil
}

// ForStudent builds the dashboard of the student linked to userID.
func (s *DashboardService) ForStudent(ctx context.Context, userID string) (*StudentDashboard, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	courses, err := s.courses.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	summaries, err := s.summarize(ctx, courses, "")
	if err != nil {
		return nil, err
	}

	totalUnits := 0
	for _, course := range courses {
		totalUnits += course.UnitCount
	}

	rows, err := s.exams.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}

	return &StudentDashboard{
		Student:       *student,
		Courses:       summaries,
		TotalUnits:    totalUnits,
		UpcomingExams: s.upcomingViews(rows, courses),
	}, nil
}

func (s *DashboardService) summarize(ctx context.Context, courses []models.Course, teacherName string) ([]models.CourseSummary, error) {
	summaries := make([]models.CourseSummary, 0, len(courses))
	for _, course := range courses {
		studentCount, err := s.courses.CountStudents(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
		}
		examCount, err := s.courses.CountExams(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count exams")
		}
		summaries = append(summaries, models.CourseSummary{
			ID:           course.ID,
			CourseCode:   course.CourseCode,
			CourseName:   course.CourseName,
			UnitCount:    course.UnitCount,
			StudentCount: studentCount,
			ExamCount:    examCount,
			TeacherName:  teacherName,
			DayOfWeek:    course.DayOfWeek,
			ClassRoom:    course.ClassRoom,
			ClassTime:    course.ClassTime,
		})
	}
	return summaries, nil
}

// upcomingViews projects future bookings into the dashboard cards. The
// repository returns rows sorted by start, so the output stays sorted,
// closest exam first.
func (s *DashboardService) upcomingViews(rows []models.ExamWithRoom, courses []models.Course) []models.UpcomingExamView {
	byID := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	loc := s.calendar.Location()
	now := time.Now().In(loc)
	views := make([]models.UpcomingExamView, 0, len(rows))
	for i := range rows {
		exam := rows[i].Hydrate()
		if !exam.StartAt.After(now) {
			continue
		}
		start := exam.StartAt.In(loc)
		end := exam.EndAt.In(loc)
		_, _, jalaaliDay := s.calendar.ToJalaali(start)

		view := models.UpcomingExamView{
			ID:          exam.ID,
			Name:        exam.Name,
			RoomName:    rows[i].RoomName,
			Date:        s.calendar.FormatJalaali(start),
			StartTime:   start.Format("15:04"),
			EndTime:     end.Format("15:04"),
			StartMillis: exam.StartAt.UnixMilli(),
			WeekColor:   reservation.WeekColor(jalaaliDay),
			CourseID:    exam.CourseID,
			Status:      string(exam.Status),
		}
		if course, ok := byID[exam.CourseID]; ok {
			view.CourseName = course.CourseName
			view.CourseCode = course.CourseCode
		}
		views = append(views, view)
	}
	return views
}
