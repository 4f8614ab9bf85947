package models

import "time"

// Room is the immutable exam-room reference data.
type Room struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// ExamStatus tracks the lifecycle of a booking.
type ExamStatus string

const (
	ExamStatusPending   ExamStatus = "pending"
	ExamStatusActive    ExamStatus = "active"
	ExamStatusCompleted ExamStatus = "completed"
	ExamStatusCancelled ExamStatus = "cancelled"
)

// Exam represents a room booking for a course exam.
// Invariant: StartAt < EndAt.
type Exam struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	CourseID  string     `db:"course_id" json:"course_id"`
	RoomID    string     `db:"room_id" json:"-"`
	StartAt   time.Time  `db:"start_at" json:"start_date"`
	EndAt     time.Time  `db:"end_at" json:"end_date"`
	Status    ExamStatus `db:"status" json:"status"`
	Room      *Room      `db:"-" json:"room,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ExamWithRoom is the flat row shape used when joining exams with rooms.
type ExamWithRoom struct {
	Exam
	RoomName     string `db:"room_name" json:"-"`
	RoomCapacity int    `db:"room_capacity" json:"-"`
}

// Hydrate attaches the joined room columns as a nested Room value.
func (e *ExamWithRoom) Hydrate() Exam {
	exam := e.Exam
	exam.Room = &Room{ID: e.RoomID, Name: e.RoomName, Capacity: e.RoomCapacity}
	return exam
}

// UpcomingExamView is the dashboard-facing projection of a booking:
// Jalaali date string, wall-clock times and a three-way week color band.
type UpcomingExamView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RoomName    string `json:"room_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	StartMillis int64  `json:"start_millis"`
	WeekColor   int    `json:"week_color"`
	CourseID    string `json:"course_id,omitempty"`
	CourseName  string `json:"course_name,omitempty"`
	CourseCode  string `json:"course_code,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ExamScheduleEntry is the course-page projection of a future booking.
type ExamScheduleEntry struct {
	Exam
	PersianDate string `json:"persian_date"`
	WeekdayName string `json:"weekday_name"`
	TimeRange   string `json:"time_range"`
	IsSoon      bool   `json:"is_soon"`
	StatusLabel string `json:"status_label"`
}
