package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/parsuni/exam-portal-api/internal/middleware"
	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

type fakeDashboardSrv struct {
	teacherResp *service.TeacherDashboard
	teacherErr  error
	studentResp *service.StudentDashboard
	studentErr  error
	lastUserID  string
}

func (f *fakeDashboardSrv) ForTeacher(_ context.Context, userID string) (*service.TeacherDashboard, error) {
	f.lastUserID = userID
	return f.teacherResp, f.teacherErr
}

func (f *fakeDashboardSrv) ForStudent(_ context.Context, userID string) (*service.StudentDashboard, error) {
	f.lastUserID = userID
	return f.studentResp, f.studentErr
}

func TestDashboardHandlerTeacherRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers/my-dashboard", nil)

	handler.Teacher(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerTeacherSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		teacherResp: &service.TeacherDashboard{
			Teacher: models.Teacher{ID: "t1", FirstName: "رضا", LastName: "احمدی"},
		},
	}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers/my-dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-t1", Role: models.RoleTeacher})

	handler.Teacher(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-t1", srv.lastUserID)

	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	teacher, ok := envelope.Data["teacher"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "t1", teacher["id"])
}

func TestDashboardHandlerStudentSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		studentResp: &service.StudentDashboard{
			Student:    models.Student{ID: "st1"},
			TotalUnits: 15,
		},
	}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/my-dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-st1", Role: models.RoleStudent})

	handler.Student(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-st1", srv.lastUserID)

	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(15), envelope.Data["total_units"])
}
