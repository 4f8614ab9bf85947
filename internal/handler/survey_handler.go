package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/middleware"
	"github.com/parsuni/exam-portal-api/internal/service"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

// SurveyHandler wires the course survey endpoints.
type SurveyHandler struct {
	surveys *service.SurveyService
}

// NewSurveyHandler creates a new handler.
func NewSurveyHandler(surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// Create godoc
// @Summary Create a course survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param courseId query string true "Course id"
// @Param payload body service.CreateSurveyRequest true "Survey payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/create [post]
func (h *SurveyHandler) Create(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courseID := c.Query("courseId")
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId is required"))
		return
	}

	var req service.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid survey payload"))
		return
	}

	survey, err := h.surveys.Create(c.Request.Context(), courseID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, survey)
}

// ListByCourse godoc
// @Summary List course surveys
// @Tags Surveys
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/surveys [get]
func (h *SurveyHandler) ListByCourse(c *gin.Context) {
	surveys, err := h.surveys.ListByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, surveys, nil)
}

// Vote godoc
// @Summary Vote in a survey
// @Description One vote per student per survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey id"
// @Param payload body service.VoteRequest true "Vote payload"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id}/vote [post]
func (h *SurveyHandler) Vote(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vote payload"))
		return
	}

	if err := h.surveys.Vote(c.Request.Context(), c.Param("id"), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Results godoc
// @Summary Survey results
// @Tags Surveys
// @Produce json
// @Param id path string true "Survey id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id}/results [get]
func (h *SurveyHandler) Results(c *gin.Context) {
	results, err := h.surveys.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
