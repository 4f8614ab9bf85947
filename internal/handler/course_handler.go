package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/service"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

// CourseHandler serves the course detail page, the date-analysis feed
// and schedule exports.
type CourseHandler struct {
	courses  *service.CourseService
	analysis *service.AnalysisService
	exports  *service.ExportService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(courses *service.CourseService, analysis *service.AnalysisService, exports *service.ExportService) *CourseHandler {
	return &CourseHandler{courses: courses, analysis: analysis, exports: exports}
}

// Details godoc
// @Summary Course details
// @Description Course with teacher, paginated roster, exams, stats and upcoming exam views
// @Tags Courses
// @Produce json
// @Param id path string true "Course id"
// @Param page query int false "Roster page (10 students per page)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *CourseHandler) Details(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	details, err := h.courses.Details(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, &details.Pagination)
}

// DateAnalysis godoc
// @Summary Exam date analysis feed
// @Description Per-date exam-load recommendation for the reservation calendar
// @Tags Courses
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/date-analysis [get]
func (h *CourseHandler) DateAnalysis(c *gin.Context) {
	analyses, err := h.analysis.ForCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analyses, nil)
}

// ExportSchedule godoc
// @Summary Export course exam schedule
// @Description Download the exam schedule as CSV or PDF
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/export-schedule [get]
func (h *CourseHandler) ExportSchedule(c *gin.Context) {
	result, err := h.exports.ExamSchedule(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
