package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStudentsByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name", "student_number", "email", "phone", "created_at", "updated_at"}).
		AddRow("st1", "u1", "Sara", "Abbasi", "40012345", nil, nil, now, now).
		AddRow("st2", "u2", "Reza", "Karimi", "40012346", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.last_name ASC, s.first_name ASC LIMIT 10 OFFSET 0")).
		WithArgs("c1").
		WillReturnRows(rows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(12)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnRows(countRows)

	students, total, err := repo.ListByCourse(context.Background(), "c1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 12, total)
	assert.Equal(t, "Abbasi", students[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsEnrolled(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)")).
		WithArgs("st1", "c1").
		WillReturnRows(rows)

	enrolled, err := repo.IsEnrolled(context.Background(), "st1", "c1")
	require.NoError(t, err)
	assert.False(t, enrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
