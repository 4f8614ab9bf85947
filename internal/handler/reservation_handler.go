package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/service"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

// ReservationHandler wires the reservation calendar, availability board
// and booking endpoints.
type ReservationHandler struct {
	reservations *service.ReservationService
	metrics      *service.MetricsService
}

// NewReservationHandler creates a new handler.
func NewReservationHandler(reservations *service.ReservationService, metrics *service.MetricsService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, metrics: metrics}
}

// Calendar godoc
// @Summary Jalaali reservation calendar
// @Description Month grid with optional selection and date-analysis overlay
// @Tags Reservations
// @Produce json
// @Param year query int false "Jalaali year"
// @Param month query int false "Jalaali month (1-12)"
// @Param courseId query string false "Course for the analysis overlay"
// @Param selected query string false "Selected Gregorian date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/calendar [get]
func (h *ReservationHandler) Calendar(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	grid, err := h.reservations.Calendar(c.Request.Context(), year, month, c.Query("courseId"), c.Query("selected"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Availability godoc
// @Summary Room availability for a date
// @Description Half-hour slot board of every room for a wall-clock day
// @Tags Reservations
// @Produce json
// @Param date query string true "Gregorian date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/availability [get]
func (h *ReservationHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}

	boards, err := h.reservations.Availability(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boards, nil)
}

// ListExams godoc
// @Summary List exam bookings
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [get]
func (h *ReservationHandler) ListExams(c *gin.Context) {
	exams, err := h.reservations.ListExams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, nil)
}

// CreateExam godoc
// @Summary Reserve an exam slot
// @Description Create a booking after validating the room is free for the whole range
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body models.CreateExamRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [post]
func (h *ReservationHandler) CreateExam(c *gin.Context) {
	var req models.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}

	exam, err := h.reservations.CreateExam(c.Request.Context(), req)
	if err != nil {
		if h.metrics != nil {
			outcome := "rejected"
			if appErrors.FromError(err).Code == appErrors.ErrSlotConflict.Code {
				outcome = "conflict"
			}
			h.metrics.RecordReservation(outcome)
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReservation("created")
	}
	response.Created(c, exam)
}
