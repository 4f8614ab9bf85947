package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type mockExamRepo struct {
	exams   []models.ExamWithRoom
	created []*models.Exam
	listErr error
}

func (m *mockExamRepo) List(ctx context.Context) ([]models.ExamWithRoom, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.exams, nil
}

func (m *mockExamRepo) ListBetween(ctx context.Context, from, to time.Time) ([]models.ExamWithRoom, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.ExamWithRoom
	for _, e := range m.exams {
		if !e.StartAt.Before(from) && e.StartAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = "generated"
	}
	m.created = append(m.created, exam)
	m.exams = append(m.exams, models.ExamWithRoom{Exam: *exam})
	return nil
}

func (m *mockExamRepo) FindByID(ctx context.Context, id string) (*models.ExamWithRoom, error) {
	for i := range m.exams {
		if m.exams[i].ID == id {
			return &m.exams[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockRoomRepo struct {
	rooms []models.Room
}

func (m *mockRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	for _, room := range m.rooms {
		if room.ID == id {
			cp := room
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockCourseFinder struct {
	courses map[string]*models.Course
}

func (m *mockCourseFinder) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockAnalysisProvider struct {
	analyses    []models.DateAnalysis
	err         error
	invalidated []string
}

func (m *mockAnalysisProvider) ForCourse(ctx context.Context, courseID string) ([]models.DateAnalysis, error) {
	return m.analyses, m.err
}

func (m *mockAnalysisProvider) Invalidate(ctx context.Context, courseID string) {
	m.invalidated = append(m.invalidated, courseID)
}

func reservationFixture(t *testing.T, exams *mockExamRepo) *ReservationService {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	rooms := &mockRoomRepo{rooms: []models.Room{
		{ID: "r1", Name: "Room 101", Capacity: 40},
		{ID: "r2", Name: "Room 202", Capacity: 30},
	}}
	courses := &mockCourseFinder{courses: map[string]*models.Course{
		"c1": {ID: "c1", CourseCode: "CS101", CourseName: "مبانی برنامه‌نویسی", TeacherID: "t1"},
	}}

	return NewReservationService(
		exams, rooms, courses, nil,
		reservation.NewCalendar(loc),
		reservation.NewEngine(loc),
		nil, nil,
	)
}

func tehranExam(t *testing.T, id, room, name, date, start, end string) models.ExamWithRoom {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)
	startAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+start, loc)
	require.NoError(t, err)
	endAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+end, loc)
	require.NoError(t, err)
	return models.ExamWithRoom{
		Exam:     models.Exam{ID: id, Name: name, CourseID: "c1", RoomID: room, StartAt: startAt, EndAt: endAt, Status: models.ExamStatusPending},
		RoomName: "Room 101",
	}
}

func TestCreateExam_Success(t *testing.T) {
	exams := &mockExamRepo{}
	svc := reservationFixture(t, exams)

	created, err := svc.CreateExam(context.Background(), models.CreateExamRequest{
		Name:      "میان‌ترم ریاضی",
		CourseID:  "c1",
		RoomID:    "r1",
		Date:      "2024-05-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
	require.Len(t, exams.created, 1)

	loc, _ := time.LoadLocation("Asia/Tehran")
	assert.Equal(t, 10, created.StartAt.In(loc).Hour())
	assert.Equal(t, 12, created.EndAt.In(loc).Hour())
	assert.True(t, created.StartAt.Before(created.EndAt))
	assert.Equal(t, models.ExamStatusPending, created.Status)
}

func TestCreateExam_Conflict(t *testing.T) {
	exams := &mockExamRepo{exams: []models.ExamWithRoom{
		tehranExam(t, "e1", "r1", "فیزیک", "2024-05-10", "09:00", "11:00"),
	}}
	svc := reservationFixture(t, exams)

	_, err := svc.CreateExam(context.Background(), models.CreateExamRequest{
		Name:      "شیمی پایه",
		CourseID:  "c1",
		RoomID:    "r1",
		Date:      "2024-05-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, exams.created)
}

func TestCreateExam_OtherRoomUnaffected(t *testing.T) {
	exams := &mockExamRepo{exams: []models.ExamWithRoom{
		tehranExam(t, "e1", "r1", "فیزیک", "2024-05-10", "09:00", "11:00"),
	}}
	svc := reservationFixture(t, exams)

	_, err := svc.CreateExam(context.Background(), models.CreateExamRequest{
		Name:      "شیمی پایه",
		CourseID:  "c1",
		RoomID:    "r2",
		Date:      "2024-05-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
}

func TestCreateExam_OutsideDayWindow(t *testing.T) {
	svc := reservationFixture(t, &mockExamRepo{})

	_, err := svc.CreateExam(context.Background(), models.CreateExamRequest{
		Name:      "آزمون صبحگاهی",
		CourseID:  "c1",
		RoomID:    "r1",
		Date:      "2024-05-10",
		StartTime: "07:00",
		EndTime:   "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutsideDayWindow.Code, appErrors.FromError(err).Code)
}

func TestCreateExam_RoomNotFound(t *testing.T) {
	svc := reservationFixture(t, &mockExamRepo{})

	_, err := svc.CreateExam(context.Background(), models.CreateExamRequest{
		Name:      "آزمون",
		CourseID:  "c1",
		RoomID:    "missing",
		Date:      "2024-05-10",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAvailability_MarksOccupiedRoomOnly(t *testing.T) {
	exams := &mockExamRepo{exams: []models.ExamWithRoom{
		tehranExam(t, "e1", "r1", "فیزیک", "2024-05-10", "09:00", "11:00"),
	}}
	svc := reservationFixture(t, exams)

	boards, err := svc.Availability(context.Background(), "2024-05-10")
	require.NoError(t, err)
	require.Len(t, boards, 2)

	occupied := func(board models.RoomAvailability) int {
		n := 0
		for _, s := range board.Slots {
			if s.Occupied {
				n++
				assert.Equal(t, "فیزیک", s.OccupiedBy)
			}
		}
		return n
	}
	assert.Equal(t, 4, occupied(boards[0]))
	assert.Equal(t, 0, occupied(boards[1]))
}

func TestCalendar_InvalidMonth(t *testing.T) {
	svc := reservationFixture(t, &mockExamRepo{})

	_, err := svc.Calendar(context.Background(), 1403, 13, "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCalendar_AnalysisOverlayDegradesGracefully(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	svc := NewReservationService(
		&mockExamRepo{}, &mockRoomRepo{}, &mockCourseFinder{},
		&mockAnalysisProvider{err: appErrors.ErrInternal},
		reservation.NewCalendar(loc),
		reservation.NewEngine(loc),
		nil, nil,
	)

	grid, err := svc.Calendar(context.Background(), 1403, 2, "c1", "")
	require.NoError(t, err)
	for _, d := range grid.Days {
		assert.Nil(t, d.Analysis)
	}
}
