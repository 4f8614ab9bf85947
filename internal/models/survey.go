package models

import "time"

// Survey is a course-scoped poll created by the course teacher.
type Survey struct {
	ID        string         `db:"id" json:"id"`
	CourseID  string         `db:"course_id" json:"course_id"`
	Title     string         `db:"title" json:"title"`
	CreatedBy string         `db:"created_by" json:"created_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	Options   []SurveyOption `db:"-" json:"options,omitempty"`
}

// SurveyOption is one selectable answer of a survey.
type SurveyOption struct {
	ID       string `db:"id" json:"id"`
	SurveyID string `db:"survey_id" json:"-"`
	Text     string `db:"text" json:"text"`
	Position int    `db:"position" json:"position"`
}

// SurveyVote records a single student's choice. One vote per student per survey.
type SurveyVote struct {
	SurveyID  string    `db:"survey_id" json:"survey_id"`
	OptionID  string    `db:"option_id" json:"option_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SurveyOptionResult pairs an option with its vote count.
type SurveyOptionResult struct {
	Option SurveyOption `json:"option"`
	Votes  int          `json:"votes"`
}

// SurveyResults aggregates vote counts for a survey.
type SurveyResults struct {
	Survey     Survey               `json:"survey"`
	TotalVotes int                  `json:"total_votes"`
	Options    []SurveyOptionResult `json:"options"`
}
