package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parsuni/exam-portal-api/internal/models"
)

// CourseRepository provides persistence for courses and their summaries.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID loads a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, course_code, course_name, unit_count, teacher_id, day_of_week, class_room, class_time, created_at, updated_at FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// ListByTeacher returns the courses taught by a teacher ordered by name.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	const query = `SELECT id, course_code, course_name, unit_count, teacher_id, day_of_week, class_room, class_time, created_at, updated_at FROM courses WHERE teacher_id = $1 ORDER BY course_name ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list courses by teacher: %w", err)
	}
	return courses, nil
}

// ListByStudent returns the courses a student is enrolled in ordered by name.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.course_code, c.course_name, c.unit_count, c.teacher_id, c.day_of_week, c.class_room, c.class_time, c.created_at, c.updated_at FROM courses c JOIN enrollments e ON e.course_id = c.id WHERE e.student_id = $1 ORDER BY c.course_name ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses by student: %w", err)
	}
	return courses, nil
}

// CountStudents returns the enrollment headcount of a course.
func (r *CourseRepository) CountStudents(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count course students: %w", err)
	}
	return total, nil
}

// CountExams returns the number of bookings registered for a course.
func (r *CourseRepository) CountExams(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM exams WHERE course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count course exams: %w", err)
	}
	return total, nil
}
