package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/middleware"
	"github.com/parsuni/exam-portal-api/internal/service"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

type dashboardService interface {
	ForTeacher(ctx context.Context, userID string) (*service.TeacherDashboard, error)
	ForStudent(ctx context.Context, userID string) (*service.StudentDashboard, error)
}

// DashboardHandler wires the role dashboards to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Teacher godoc
// @Summary Teacher dashboard
// @Description Courses taught by the authenticated teacher with upcoming exam bookings
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/my-dashboard [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dashboard, err := h.service.ForTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Student godoc
// @Summary Student dashboard
// @Description Enrolled courses and the student's upcoming exam schedule
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /students/my-dashboard [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dashboard, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
