package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type surveyRepository interface {
	Create(ctx context.Context, survey *models.Survey) error
	FindByID(ctx context.Context, id string) (*models.Survey, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Survey, error)
	HasVoted(ctx context.Context, surveyID, studentID string) (bool, error)
	RecordVote(ctx context.Context, vote *models.SurveyVote) error
	CountVotesByOption(ctx context.Context, surveyID string) (map[string]int, error)
}

type surveyCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type surveyStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
}

type surveyTeacherRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

// CreateSurveyRequest is the survey creation payload.
type CreateSurveyRequest struct {
	Title   string   `json:"title" validate:"required,min=5"`
	Options []string `json:"options" validate:"required,min=2,dive,min=2,max=100"`
}

// VoteRequest records one student's survey choice.
type VoteRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

// SurveyService provides course survey use cases: creation by the
// course teacher, voting by enrolled students, aggregated results.
type SurveyService struct {
	surveys   surveyRepository
	courses   surveyCourseRepository
	students  surveyStudentRepository
	teachers  surveyTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(
	surveys surveyRepository,
	courses surveyCourseRepository,
	students surveyStudentRepository,
	teachers surveyTeacherRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *SurveyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SurveyService{
		surveys:   surveys,
		courses:   courses,
		students:  students,
		teachers:  teachers,
		validator: validate,
		logger:    logger,
	}
}

// Create validates and stores a survey for a course. Only the teacher
// owning the course may create one; options must be distinct after
// trimming.
func (s *SurveyService) Create(ctx context.Context, courseID, userID string, req CreateSurveyRequest) (*models.Survey, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid survey payload")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if course.TeacherID != teacher.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course teacher can create surveys")
	}

	seen := make(map[string]struct{}, len(req.Options))
	options := make([]models.SurveyOption, 0, len(req.Options))
	for _, raw := range req.Options {
		text := strings.TrimSpace(raw)
		if len(text) < 2 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "survey options must be at least 2 characters")
		}
		if _, dup := seen[text]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "survey options must be distinct")
		}
		seen[text] = struct{}{}
		options = append(options, models.SurveyOption{Text: text})
	}

	survey := &models.Survey{
		CourseID:  courseID,
		Title:     strings.TrimSpace(req.Title),
		CreatedBy: teacher.ID,
		Options:   options,
	}
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store survey")
	}

	s.logger.Info("survey created", zap.String("survey_id", survey.ID), zap.String("course_id", courseID))
	return survey, nil
}

// ListByCourse returns a course's surveys, newest first.
func (s *SurveyService) ListByCourse(ctx context.Context, courseID string) ([]models.Survey, error) {
	surveys, err := s.surveys.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list surveys")
	}
	return surveys, nil
}

// Vote records one enrolled student's choice. A second vote on the same
// survey is rejected.
func (s *SurveyService) Vote(ctx context.Context, surveyID, userID string, req VoteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vote payload")
	}

	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load survey")
	}

	valid := false
	for _, opt := range survey.Options {
		if opt.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return appErrors.Clone(appErrors.ErrValidation, "option does not belong to survey")
	}

	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "student profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	enrolled, err := s.students.IsEnrolled(ctx, student.ID, survey.CourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrForbidden, "student is not enrolled in the course")
	}

	voted, err := s.surveys.HasVoted(ctx, surveyID, student.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vote")
	}
	if voted {
		return appErrors.Clone(appErrors.ErrAlreadyVoted, "student has already voted in this survey")
	}

	vote := &models.SurveyVote{
		SurveyID:  surveyID,
		OptionID:  req.OptionID,
		StudentID: student.ID,
	}
	if err := s.surveys.RecordVote(ctx, vote); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record vote")
	}
	return nil
}

// Results aggregates vote counts per option.
func (s *SurveyService) Results(ctx context.Context, surveyID string) (*models.SurveyResults, error) {
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load survey")
	}

	counts, err := s.surveys.CountVotesByOption(ctx, surveyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count votes")
	}

	results := &models.SurveyResults{Survey: *survey}
	for _, opt := range survey.Options {
		votes := counts[opt.ID]
		results.TotalVotes += votes
		results.Options = append(results.Options, models.SurveyOptionResult{Option: opt, Votes: votes})
	}
	return results, nil
}
