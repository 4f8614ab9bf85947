package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type analysisStudentRepository interface {
	ListEnrolledStudentIDs(ctx context.Context, courseID string) ([]string, error)
}

type analysisExamRepository interface {
	ListStudentExamLoad(ctx context.Context, courseID string, from, to time.Time) ([]models.StudentExamRow, error)
}

// AnalysisConfig tunes the date-analysis feed.
type AnalysisConfig struct {
	Enabled     bool
	CacheTTL    time.Duration
	HorizonDays int
}

// AnalysisService computes the per-date exam-load feed for a course:
// for every day in a forward horizon, the share of the course's students
// that already sit an exam on that day, the day before and the day
// after, folded into a four-way recommendation.
type AnalysisService struct {
	students analysisStudentRepository
	exams    analysisExamRepository
	cache    *CacheService
	calendar *reservation.Calendar
	config   AnalysisConfig
	logger   *zap.Logger
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(
	students analysisStudentRepository,
	exams analysisExamRepository,
	cache *CacheService,
	calendar *reservation.Calendar,
	config AnalysisConfig,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.HorizonDays <= 0 {
		config.HorizonDays = 60
	}
	return &AnalysisService{
		students: students,
		exams:    exams,
		cache:    cache,
		calendar: calendar,
		config:   config,
		logger:   logger,
	}
}

// Enabled reports whether the feed is switched on. A disabled feed
// leaves the reservation calendar without its recommendation overlay.
func (s *AnalysisService) Enabled() bool {
	return s != nil && s.config.Enabled
}

func analysisCacheKey(courseID string) string {
	return fmt.Sprintf("analysis:course:%s", courseID)
}

// ForCourse returns the horizon's DateAnalysis entries for a course,
// cached per course.
func (s *AnalysisService) ForCourse(ctx context.Context, courseID string) ([]models.DateAnalysis, error) {
	if !s.Enabled() {
		return nil, nil
	}

	key := analysisCacheKey(courseID)
	var cached []models.DateAnalysis
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	analyses, err := s.compute(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, analyses, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache date analysis", zap.String("course_id", courseID), zap.Error(err))
	}
	return analyses, nil
}

// Invalidate drops the cached feed for a course, called after a new
// booking lands.
func (s *AnalysisService) Invalidate(ctx context.Context, courseID string) {
	if !s.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, analysisCacheKey(courseID)); err != nil {
		s.logger.Warn("failed to invalidate date analysis", zap.String("course_id", courseID), zap.Error(err))
	}
}

func (s *AnalysisService) compute(ctx context.Context, courseID string) ([]models.DateAnalysis, error) {
	ids, err := s.students.ListEnrolledStudentIDs(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	total := len(ids)

	loc := s.calendar.Location()
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// One day of slack on both ends so the yesterday/tomorrow shares of
	// the horizon's edge days are computable.
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, s.config.HorizonDays+2)
	rows, err := s.exams.ListStudentExamLoad(ctx, courseID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam load")
	}

	studentsByDay := make(map[string]map[string]struct{})
	for _, row := range rows {
		day := row.StartAt.In(loc).Format("2006-01-02")
		if studentsByDay[day] == nil {
			studentsByDay[day] = make(map[string]struct{})
		}
		studentsByDay[day][row.StudentID] = struct{}{}
	}

	percent := func(day time.Time) float64 {
		if total == 0 {
			return 0
		}
		n := len(studentsByDay[day.Format("2006-01-02")])
		return float64(n) / float64(total) * 100
	}

	analyses := make([]models.DateAnalysis, 0, s.config.HorizonDays)
	for i := 0; i < s.config.HorizonDays; i++ {
		day := today.AddDate(0, 0, i)
		onDay := percent(day)
		yesterday := percent(day.AddDate(0, 0, -1))
		tomorrow := percent(day.AddDate(0, 0, 1))

		analyses = append(analyses, models.DateAnalysis{
			Date:                     day.Format("2006-01-02"),
			RecommendationGroup:      classify(onDay, yesterday, tomorrow),
			StudentsOnDayPercent:     onDay,
			StudentsYesterdayPercent: yesterday,
			StudentsTomorrowPercent:  tomorrow,
			Holiday:                  day.Weekday() == time.Friday,
		})
	}
	return analyses, nil
}

// classify folds the three load shares into a recommendation: a day is
// EXCELLENT when no student has exams on it or its neighbours, GOOD
// when the day itself is free, FAIR while at most a quarter of the
// course sits another exam that day, POOR beyond that.
func classify(onDay, yesterday, tomorrow float64) models.RecommendationGroup {
	switch {
	case onDay == 0 && yesterday == 0 && tomorrow == 0:
		return models.RecommendationExcellent
	case onDay == 0:
		return models.RecommendationGood
	case onDay <= 25:
		return models.RecommendationFair
	default:
		return models.RecommendationPoor
	}
}
