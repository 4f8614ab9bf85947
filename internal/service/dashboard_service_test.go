package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

func dashboardFixture(t *testing.T, exams *mockScheduleExamRepo) *DashboardService {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	dayOfWeek := "شنبه"
	courses := &mockCourseRepo{
		byTeacher: map[string][]models.Course{
			"t1": {
				{ID: "c1", CourseCode: "CS101", CourseName: "مبانی برنامه‌نویسی", UnitCount: 3, TeacherID: "t1", DayOfWeek: &dayOfWeek},
				{ID: "c2", CourseCode: "CS201", CourseName: "ساختمان داده", UnitCount: 2, TeacherID: "t1"},
			},
		},
		byStudent: map[string][]models.Course{
			"st1": {
				{ID: "c1", CourseCode: "CS101", CourseName: "مبانی برنامه‌نویسی", UnitCount: 3, TeacherID: "t1"},
				{ID: "c2", CourseCode: "CS201", CourseName: "ساختمان داده", UnitCount: 2, TeacherID: "t1"},
			},
		},
		students: map[string]int{"c1": 28, "c2": 17},
		exams:    map[string]int{"c1": 2, "c2": 1},
	}
	teachers := &mockTeacherDirectory{
		byUserID: map[string]*models.Teacher{
			"u-t1": {ID: "t1", FirstName: "رضا", LastName: "احمدی", TeacherCode: "T-1001"},
		},
	}
	students := &mockStudentRepo{
		students: map[string]*models.Student{
			"u-st1": {ID: "st1", FirstName: "سارا", LastName: "عباسی", StudentNumber: "40012345"},
		},
	}
	return NewDashboardService(teachers, students, courses, exams, reservation.NewCalendar(loc), nil)
}

func TestTeacherDashboard_Assembles(t *testing.T) {
	exams := &mockScheduleExamRepo{byTeacher: map[string][]models.ExamWithRoom{
		"t1": {
			relExam(t, "past", -30*time.Hour, 2),
			relExam(t, "next", 48*time.Hour, 2),
		},
	}}
	svc := dashboardFixture(t, exams)

	dashboard, err := svc.ForTeacher(context.Background(), "u-t1")
	require.NoError(t, err)

	assert.Equal(t, "t1", dashboard.Teacher.ID)
	require.Len(t, dashboard.Courses, 2)
	assert.Equal(t, 28, dashboard.Courses[0].StudentCount)
	assert.Equal(t, 2, dashboard.Courses[0].ExamCount)
	assert.Equal(t, 17, dashboard.Courses[1].StudentCount)

	require.Len(t, dashboard.UpcomingExams, 1)
	view := dashboard.UpcomingExams[0]
	assert.Equal(t, "next", view.ID)
	assert.Equal(t, "مبانی برنامه‌نویسی", view.CourseName)
	assert.Equal(t, "CS101", view.CourseCode)
	assert.NotEmpty(t, view.Date)
	assert.NotEmpty(t, view.StartTime)
	assert.Greater(t, view.StartMillis, int64(0))
	assert.GreaterOrEqual(t, view.WeekColor, 0)
	assert.LessOrEqual(t, view.WeekColor, 2)
}

func TestStudentDashboard_SumsUnits(t *testing.T) {
	exams := &mockScheduleExamRepo{byStudent: map[string][]models.ExamWithRoom{
		"st1": {relExam(t, "next", 72*time.Hour, 2)},
	}}
	svc := dashboardFixture(t, exams)

	dashboard, err := svc.ForStudent(context.Background(), "u-st1")
	require.NoError(t, err)

	assert.Equal(t, "st1", dashboard.Student.ID)
	assert.Equal(t, 5, dashboard.TotalUnits)
	require.Len(t, dashboard.UpcomingExams, 1)
	assert.Equal(t, "next", dashboard.UpcomingExams[0].ID)
}

func TestTeacherDashboard_ProfileNotFound(t *testing.T) {
	svc := dashboardFixture(t, &mockScheduleExamRepo{})

	_, err := svc.ForTeacher(context.Background(), "u-unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
