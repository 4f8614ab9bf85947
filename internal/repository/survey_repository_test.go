package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsuni/exam-portal-api/internal/models"
)

func TestCreateSurvey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO surveys").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO survey_options").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO survey_options").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	survey := &models.Survey{
		CourseID:  "c1",
		Title:     "کیفیت تدریس این ترم",
		CreatedBy: "t1",
		Options: []models.SurveyOption{
			{Text: "عالی"},
			{Text: "متوسط"},
		},
	}
	err := repo.Create(context.Background(), survey)
	require.NoError(t, err)
	assert.NotEmpty(t, survey.ID)
	assert.Equal(t, survey.ID, survey.Options[0].SurveyID)
	assert.Equal(t, 1, survey.Options[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSurveyByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	now := time.Now()
	surveyRows := sqlmock.NewRows([]string{"id", "course_id", "title", "created_by", "created_at"}).
		AddRow("s1", "c1", "نظرسنجی", "t1", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, title, created_by, created_at FROM surveys WHERE id = $1 LIMIT 1")).
		WithArgs("s1").
		WillReturnRows(surveyRows)

	optionRows := sqlmock.NewRows([]string{"id", "survey_id", "text", "position"}).
		AddRow("o1", "s1", "بله", 0).
		AddRow("o2", "s1", "خیر", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, survey_id, text, position FROM survey_options WHERE survey_id = $1 ORDER BY position ASC")).
		WithArgs("s1").
		WillReturnRows(optionRows)

	survey, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, survey.Options, 2)
	assert.Equal(t, "بله", survey.Options[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasVoted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM survey_votes WHERE survey_id = $1 AND student_id = $2)")).
		WithArgs("s1", "st1").
		WillReturnRows(rows)

	voted, err := repo.HasVoted(context.Background(), "s1", "st1")
	require.NoError(t, err)
	assert.True(t, voted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountVotesByOption(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	rows := sqlmock.NewRows([]string{"option_id", "votes"}).
		AddRow("o1", 7).
		AddRow("o2", 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT option_id, COUNT(*) AS votes FROM survey_votes WHERE survey_id = $1 GROUP BY option_id")).
		WithArgs("s1").
		WillReturnRows(rows)

	counts, err := repo.CountVotesByOption(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, counts["o1"])
	assert.Equal(t, 3, counts["o2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
