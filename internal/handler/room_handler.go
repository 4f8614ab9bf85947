package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/models"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

// RoomHandler serves the exam-room roster.
type RoomHandler struct {
	rooms roomLister
}

// NewRoomHandler creates a new handler.
func NewRoomHandler(rooms roomLister) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List godoc
// @Summary List exam rooms
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms"))
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}
