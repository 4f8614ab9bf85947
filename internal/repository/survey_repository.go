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

// SurveyRepository provides persistence for course surveys, their
// options and votes.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository creates a new survey repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// Create stores a survey and its options in one transaction.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create survey: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const surveyQuery = `INSERT INTO surveys (id, course_id, title, created_by, created_at) VALUES (:id, :course_id, :title, :created_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, surveyQuery, survey); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}

	const optionQuery = `INSERT INTO survey_options (id, survey_id, text, position) VALUES (:id, :survey_id, :text, :position)`
	for i := range survey.Options {
		opt := &survey.Options[i]
		if opt.ID == "" {
			opt.ID = uuid.NewString()
		}
		opt.SurveyID = survey.ID
		opt.Position = i
		if _, err = tx.NamedExecContext(ctx, optionQuery, opt); err != nil {
			return fmt.Errorf("create survey option: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create survey: %w", err)
	}
	return nil
}

// FindByID loads a survey with its options.
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*models.Survey, error) {
	const query = `SELECT id, course_id, title, created_by, created_at FROM surveys WHERE id = $1 LIMIT 1`
	var survey models.Survey
	if err := r.db.GetContext(ctx, &survey, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find survey by id: %w", err)
	}
	options, err := r.listOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	survey.Options = options
	return &survey, nil
}

// ListByCourse returns a course's surveys, newest first, with options.
func (r *SurveyRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Survey, error) {
	const query = `SELECT id, course_id, title, created_by, created_at FROM surveys WHERE course_id = $1 ORDER BY created_at DESC`
	var surveys []models.Survey
	if err := r.db.SelectContext(ctx, &surveys, query, courseID); err != nil {
		return nil, fmt.Errorf("list surveys by course: %w", err)
	}
	for i := range surveys {
		options, err := r.listOptions(ctx, surveys[i].ID)
		if err != nil {
			return nil, err
		}
		surveys[i].Options = options
	}
	return surveys, nil
}

func (r *SurveyRepository) listOptions(ctx context.Context, surveyID string) ([]models.SurveyOption, error) {
	const query = `SELECT id, survey_id, text, position FROM survey_options WHERE survey_id = $1 ORDER BY position ASC`
	var options []models.SurveyOption
	if err := r.db.SelectContext(ctx, &options, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey options: %w", err)
	}
	return options, nil
}

// HasVoted reports whether the student already voted in the survey.
func (r *SurveyRepository) HasVoted(ctx context.Context, surveyID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM survey_votes WHERE survey_id = $1 AND student_id = $2)`
	var voted bool
	if err := r.db.GetContext(ctx, &voted, query, surveyID, studentID); err != nil {
		return false, fmt.Errorf("check survey vote: %w", err)
	}
	return voted, nil
}

// RecordVote stores one student's choice.
func (r *SurveyRepository) RecordVote(ctx context.Context, vote *models.SurveyVote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO survey_votes (survey_id, option_id, student_id, created_at) VALUES (:survey_id, :option_id, :student_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vote); err != nil {
		return fmt.Errorf("record survey vote: %w", err)
	}
	return nil
}

// CountVotesByOption returns option id to vote count for a survey.
func (r *SurveyRepository) CountVotesByOption(ctx context.Context, surveyID string) (map[string]int, error) {
	const query = `SELECT option_id, COUNT(*) AS votes FROM survey_votes WHERE survey_id = $1 GROUP BY option_id`
	rows := []struct {
		OptionID string `db:"option_id"`
		Votes    int    `db:"votes"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, surveyID); err != nil {
		return nil, fmt.Errorf("count survey votes: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Votes
	}
	return counts, nil
}
