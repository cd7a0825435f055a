package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/metrics")

	group.Use(authMiddleware)
	{
		group.GET("/channel-summary", h.ChannelSummary)
		group.GET("/top-cities", h.TopCities)
	}
}
