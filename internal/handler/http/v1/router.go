package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all v1 API routes onto the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.POST("", h.createZone)
		zones.POST("/:id/ratings", h.rateZone)
	}

	pins := api.Group("/pins")
	{
		pins.GET("", h.listPins)
		pins.POST("", h.createPin)
		pins.DELETE("/:id", h.deletePin)
	}

	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/pending", h.listPendingIncidents)
		incidents.POST("", h.reportIncident)
		incidents.POST("/:id/action", h.incidentAction)
	}

	api.POST("/route", h.planRoute)
	api.POST("/location/check", h.checkLocation)
}

// RegisterHealth exposes the liveness endpoint outside the API group.
func (h *Handler) RegisterHealth(router *gin.Engine) {
	router.GET("/health", h.healthCheck)
}
