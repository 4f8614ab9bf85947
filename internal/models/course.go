package models

import "time"

// Teacher represents a lecturer profile linked to a portal user.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	TeacherCode string    `db:"teacher_code" json:"teacher_code"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Student represents an enrolled student profile.
type Student struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"-"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Course represents an offered course taught by a teacher.
type Course struct {
	ID         string    `db:"id" json:"id"`
	CourseCode string    `db:"course_code" json:"course_code"`
	CourseName string    `db:"course_name" json:"course_name"`
	UnitCount  int       `db:"unit_count" json:"unit_count"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeek  *string   `db:"day_of_week" json:"day_of_week,omitempty"`
	ClassRoom  *string   `db:"class_room" json:"class_room,omitempty"`
	ClassTime  *string   `db:"class_time" json:"class_time,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetails aggregates a course with its teacher, roster and exams.
type CourseDetails struct {
	Course
	Teacher  Teacher   `json:"teacher"`
	Students []Student `json:"students"`
	Exams    []Exam    `json:"exams"`
}

// CourseStats summarises headline numbers for the course detail page.
type CourseStats struct {
	TotalStudents int `json:"total_students"`
	TotalExams    int `json:"total_exams"`
	TodayExams    int `json:"today_exams"`
	UpcomingExams int `json:"upcoming_exams"`
}

// CourseSummary is the compact course view used on dashboards.
type CourseSummary struct {
	ID           string  `json:"id"`
	CourseCode   string  `json:"course_code"`
	CourseName   string  `json:"course_name"`
	UnitCount    int     `json:"unit_count"`
	StudentCount int     `json:"student_count"`
	ExamCount    int     `json:"exam_count"`
	TeacherName  string  `json:"teacher_name,omitempty"`
	DayOfWeek    *string `json:"day_of_week,omitempty"`
	ClassRoom    *string `json:"class_room,omitempty"`
	ClassTime    *string `json:"class_time,omitempty"`
}
