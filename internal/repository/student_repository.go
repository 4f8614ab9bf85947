package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parsuni/exam-portal-api/internal/models"
)

const studentColumns = `s.id, s.user_id, s.first_name, s.last_name, s.student_number, s.email, s.phone, s.created_at, s.updated_at`

// StudentRepository provides persistence for student profiles and
// enrollments.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByUserID loads the student profile linked to a portal account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s WHERE s.user_id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user id: %w", err)
	}
	return &student, nil
}

// ListByCourse returns one page of a course's roster ordered by last
// name, with the total headcount for pagination.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string, page, pageSize int) ([]models.Student, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s FROM students s JOIN enrollments e ON e.student_id = s.id WHERE e.course_id = $1 ORDER BY s.last_name ASC, s.first_name ASC LIMIT %d OFFSET %d`, studentColumns, pageSize, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, 0, fmt.Errorf("list students by course: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, courseID); err != nil {
		return nil, 0, fmt.Errorf("count students by course: %w", err)
	}
	return students, total, nil
}

// IsEnrolled reports whether the student is enrolled in the course.
func (r *StudentRepository) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`
	var enrolled bool
	if err := r.db.GetContext(ctx, &enrolled, query, studentID, courseID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

// ListEnrolledStudentIDs returns the ids of every student enrolled in
// the course.
func (r *StudentRepository) ListEnrolledStudentIDs(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT student_id FROM enrollments WHERE course_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled student ids: %w", err)
	}
	return ids, nil
}
