package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vessel-tracker/internal/usecase/vessel"
	"vessel-tracker/pkg/utils"
)

type VesselHandler struct {
	service *vessel.Service
}

func NewVesselHandler(service *vessel.Service) *VesselHandler {
	return &VesselHandler{service: service}
}

func (h *VesselHandler) RegisterRoutes(router *gin.RouterGroup) {
	vessels := router.Group("/vessels")
	{
		vessels.GET("", h.ListVessels)
		vessels.GET("/statistics", h.FleetStatistics)
		vessels.GET("/analytics", h.Analytics)
		vessels.GET("/in-area", h.VesselsInArea)
		vessels.GET("/mmsi/:mmsi", h.GetVesselByMMSI)
		vessels.GET("/:id", h.GetVessel)
		vessels.GET("/:id/track", h.GetTrack)
		vessels.GET("/:id/statistics", h.VesselStatistics)
	}

	router.GET("/distance", h.Distance)
}

func (h *VesselHandler) RegisterOperatorRoutes(router *gin.RouterGroup) {
	vessels := router.Group("/vessels")
	{
		vessels.POST("", h.CreateVessel)
		vessels.PUT("/:id", h.UpdateVessel)
		vessels.DELETE("/:id", h.DeleteVessel)
		vessels.POST("/:id/refresh-position", h.RefreshPosition)
		vessels.POST("/:id/position", h.UpdatePosition)
		vessels.POST("/bulk-update-positions", h.BulkUpdatePositions)
	}
}

func (h *VesselHandler) CreateVessel(c *gin.Context) {
	var req vessel.CreateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateVessel(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, resp)
}

func (h *VesselHandler) GetVessel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	resp, err := h.service.GetVessel(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) GetVesselByMMSI(c *gin.Context) {
	resp, err := h.service.GetVesselByMMSI(c.Request.Context(), c.Param("mmsi"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) ListVessels(c *gin.Context) {
	var filter vessel.VesselFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListVessels(c.Request.Context(), &filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) UpdateVessel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	var req vessel.UpdateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateVessel(c.Request.Context(), id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) DeleteVessel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	if err := h.service.DeleteVessel(c.Request.Context(), id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VesselHandler) GetTrack(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	var req vessel.TrackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid time window")
		return
	}

	resp, err := h.service.GetTrack(c.Request.Context(), id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) VesselsInArea(c *gin.Context) {
	var req vessel.AreaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bounding box parameters")
		return
	}

	resp, err := h.service.VesselsInArea(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) RefreshPosition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	resp, err := h.service.RefreshPosition(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) BulkUpdatePositions(c *gin.Context) {
	var req vessel.BulkPositionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BulkUpdatePositions(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) FleetStatistics(c *gin.Context) {
	resp, err := h.service.FleetStatistics(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) UpdatePosition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	var req vessel.PositionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdatePosition(c.Request.Context(), id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	resp, err := h.service.AnalyticsReport(c.Request.Context(), days)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) VesselStatistics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vessel ID")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	resp, err := h.service.VesselStatistics(c.Request.Context(), id, days)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}

func (h *VesselHandler) Distance(c *gin.Context) {
	var req vessel.DistanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	resp, err := h.service.Distance(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp)
}
