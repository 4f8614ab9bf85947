package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsuni/exam-portal-api/internal/service"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/response"
)

// MetricsHandler exposes an admin-facing runtime snapshot alongside the
// Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs the metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot godoc
// @Summary Runtime metrics snapshot
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
