package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	"github.com/nekogravitycat/rental-backend/internal/pkg/response"
)

type Handler struct {
	service metrics.Service
}

func NewHandler(service metrics.Service) *Handler {
	return &Handler{service: service}
}

// ChannelSummary reports reservations and revenue per channel over the last days.
func (h *Handler) ChannelSummary(c *gin.Context) {
	var req ChannelSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "days must be an integer", err)
		return
	}

	items, err := h.service.ChannelSummary(c.Request.Context(), req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newChannelSummaryList(items))
}

// TopCities lists the cities with the most reservations.
func (h *Handler) TopCities(c *gin.Context) {
	var req TopCitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "limit must be an integer", err)
		return
	}

	items, err := h.service.TopCities(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newCityList(items))
}
