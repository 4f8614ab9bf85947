package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/parsuni/exam-portal-api/internal/models"
)

const examColumns = `e.id, e.name, e.course_id, e.room_id, e.start_at, e.end_at, e.status, e.created_at, e.updated_at, r.name AS room_name, r.capacity AS room_capacity`

// ExamRepository provides persistence for exam bookings.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// List returns all bookings joined with their room, ordered by start.
func (r *ExamRepository) List(ctx context.Context) ([]models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id ORDER BY e.start_at ASC`, examColumns)
	var exams []models.ExamWithRoom
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// ListByCourse returns a course's bookings ordered by start.
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id WHERE e.course_id = $1 ORDER BY e.start_at ASC`, examColumns)
	var exams []models.ExamWithRoom
	if err := r.db.SelectContext(ctx, &exams, query, courseID); err != nil {
		return nil, fmt.Errorf("list exams by course: %w", err)
	}
	return exams, nil
}

// ListBetween returns bookings whose start falls inside [from, to),
// ordered by start. Callers narrow to a wall-clock calendar day in
// memory; this range only bounds the scan.
func (r *ExamRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id WHERE e.start_at >= $1 AND e.start_at < $2 ORDER BY e.start_at ASC`, examColumns)
	var exams []models.ExamWithRoom
	if err := r.db.SelectContext(ctx, &exams, query, from, to); err != nil {
		return nil, fmt.Errorf("list exams between: %w", err)
	}
	return exams, nil
}

// ListForStudent returns bookings of every course the student is
// enrolled in, ordered by start.
func (r *ExamRepository) ListForStudent(ctx context.Context, studentID string) ([]models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id JOIN enrollments en ON en.course_id = e.course_id WHERE en.student_id = $1 ORDER BY e.start_at ASC`, examColumns)
	var exams []models.ExamWithRoom
	if err := r.db.SelectContext(ctx, &exams, query, studentID); err != nil {
		return nil, fmt.Errorf("list exams for student: %w", err)
	}
	return exams, nil
}

// ListForTeacher returns bookings of every course taught by the teacher,
// ordered by start.
func (r *ExamRepository) ListForTeacher(ctx context.Context, teacherID string) ([]models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id JOIN courses c ON c.id = e.course_id WHERE c.teacher_id = $1 ORDER BY e.start_at ASC`, examColumns)
	var exams []models.ExamWithRoom
	if err := r.db.SelectContext(ctx, &exams, query, teacherID); err != nil {
		return nil, fmt.Errorf("list exams for teacher: %w", err)
	}
	return exams, nil
}

// ListStudentExamLoad returns (student, exam start) pairs for every
// student enrolled in the course, covering every exam of every course
// those students take within [from, to). Feeds the date-analysis
// aggregation.
func (r *ExamRepository) ListStudentExamLoad(ctx context.Context, courseID string, from, to time.Time) ([]models.StudentExamRow, error) {
	const query = `SELECT DISTINCT en2.student_id, e.start_at FROM enrollments en1 JOIN enrollments en2 ON en2.student_id = en1.student_id JOIN exams e ON e.course_id = en2.course_id WHERE en1.course_id = $1 AND e.start_at >= $2 AND e.start_at < $3`
	var rows []models.StudentExamRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID, from, to); err != nil {
		return nil, fmt.Errorf("list student exam load: %w", err)
	}
	return rows, nil
}

// FindByID loads a booking by id.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.ExamWithRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams e JOIN rooms r ON r.id = e.room_id WHERE e.id = $1 LIMIT 1`, examColumns)
	var exam models.ExamWithRoom
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam by id: %w", err)
	}
	return &exam, nil
}

// Create stores a new booking record.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = now
	}
	exam.UpdatedAt = now
	if exam.Status == "" {
		exam.Status = models.ExamStatusPending
	}

	const query = `INSERT INTO exams (id, name, course_id, room_id, start_at, end_at, status, created_at, updated_at) VALUES (:id, :name, :course_id, :room_id, :start_at, :end_at, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}
