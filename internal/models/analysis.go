package models

import "time"

// RecommendationGroup classifies how suitable a date is for scheduling
// a new exam, based on how loaded the course's students already are.
type RecommendationGroup string

const (
	RecommendationExcellent RecommendationGroup = "EXCELLENT"
	RecommendationGood      RecommendationGroup = "GOOD"
	RecommendationFair      RecommendationGroup = "FAIR"
	RecommendationPoor      RecommendationGroup = "POOR"
)

// Known reports whether the group is one of the four defined categories.
// Unknown values are passed through unclassified rather than rejected.
func (g RecommendationGroup) Known() bool {
	switch g {
	case RecommendationExcellent, RecommendationGood, RecommendationFair, RecommendationPoor:
		return true
	}
	return false
}

// StudentExamRow pairs a student with one exam start instant. Rows feed
// the per-date load aggregation behind DateAnalysis.
type StudentExamRow struct {
	StudentID string    `db:"student_id"`
	StartAt   time.Time `db:"start_at"`
}

// DateAnalysis is the per-Gregorian-date exam-load metric served to the
// reservation calendar. Date uses the YYYY-MM-DD form.
type DateAnalysis struct {
	Date                     string              `json:"date"`
	RecommendationGroup      RecommendationGroup `json:"recommendationGroup"`
	StudentsOnDayPercent     float64             `json:"studentsOnDayPercent"`
	StudentsYesterdayPercent float64             `json:"studentsYesterdayPercent"`
	StudentsTomorrowPercent  float64             `json:"studentsTomorrowPercent"`
	Holiday                  bool                `json:"friday"`
}
