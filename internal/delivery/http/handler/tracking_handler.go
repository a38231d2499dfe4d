package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vessel-tracker/internal/tracking"
	"vessel-tracker/pkg/utils"
)

type TrackingHandler struct {
	metrics *tracking.MetricsTracker
}

func NewTrackingHandler(metrics *tracking.MetricsTracker) *TrackingHandler {
	return &TrackingHandler{metrics: metrics}
}

func (h *TrackingHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	trackingGroup := router.Group("/tracking")
	{
		trackingGroup.GET("/metrics", h.GetMetrics)
	}
}

func (h *TrackingHandler) GetMetrics(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, h.metrics.Snapshot())
}
