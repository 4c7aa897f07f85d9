package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guardaid/safety-backend/internal/config"
	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/repository"
	"github.com/guardaid/safety-backend/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	zoneService     service.ZoneService
	routeService    service.RouteService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, zoneService service.ZoneService, routeService service.RouteService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		zoneService:     zoneService,
		routeService:    routeService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary List all zones
// @Description Get all safety zones split into safe and danger sets.
// @Tags Zones
// @Produce json
// @Success 200 {object} ZoneListResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones [get]
func (h *Handler) listZones(c *gin.Context) {
	log := h.logger.WithField("method", "listZones")

	zones, err := h.zoneService.ListZones(c.Request.Context(), nil)
	if err != nil {
		log.WithError(err).Error("Failed to list zones from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToZoneListResponse(zones))
}

// @Summary Rate a location
// @Description Promote a 1..5 rating into a new safe (>=3) or danger (<3) zone.
// @Tags Zones
// @Accept json
// @Produce json
// @Param rating body RateZoneRequest true "Location rating"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones [post]
func (h *Handler) createZone(c *gin.Context) {
	var input RateZoneRequest
	log := h.logger.WithField("method", "createZone")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := h.zoneService.Rate(c.Request.Context(), input.Lat, input.Lng, input.Rating, input.Radius, input.Name)
	if err != nil {
		log.WithError(err).Error("Failed to create zone in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": zone.ID})
}

// @Summary Rate an existing zone
// @Description Fold another 1..5 rating into a zone's running mean.
// @Tags Zones
// @Accept json
// @Produce json
// @Param id path string true "Zone ID"
// @Param rating body AddZoneRatingRequest true "Rating"
// @Success 200 {object} ZoneResponse
// @Failure 400 {object} map[string]string "Invalid zone ID or request body"
// @Failure 404 {object} map[string]string "Zone not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones/{id}/ratings [post]
func (h *Handler) rateZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone ID"})
		return
	}
	log := h.logger.WithField("method", "rateZone").WithField("id", id)

	var input AddZoneRatingRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := h.zoneService.RateZone(c.Request.Context(), id, input.Rating)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
			return
		}
		log.WithError(err).Error("Failed to rate zone in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToZoneResponse(zone))
}

// @Summary List pins
// @Tags Pins
// @Produce json
// @Success 200 {array} PinResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pins [get]
func (h *Handler) listPins(c *gin.Context) {
	log := h.logger.WithField("method", "listPins")

	pins, err := h.zoneService.ListPins(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list pins from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToPinResponses(pins))
}

// @Summary Drop a pin
// @Tags Pins
// @Accept json
// @Produce json
// @Param pin body CreatePinRequest true "Pin coordinates"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pins [post]
func (h *Handler) createPin(c *gin.Context) {
	var input CreatePinRequest
	log := h.logger.WithField("method", "createPin")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pin := &models.Pin{Latitude: input.Lat, Longitude: input.Lng}
	if err := h.zoneService.CreatePin(c.Request.Context(), pin); err != nil {
		log.WithError(err).Error("Failed to create pin in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": pin.ID})
}

// @Summary Remove a pin
// @Tags Pins
// @Produce json
// @Param id path string true "Pin ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid pin ID"
// @Failure 404 {object} map[string]string "Pin not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pins/{id} [delete]
func (h *Handler) deletePin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pin ID"})
		return
	}
	log := h.logger.WithField("method", "deletePin").WithField("id", id)

	if err := h.zoneService.DeletePin(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pin not found"})
			return
		}
		log.WithError(err).Error("Failed to delete pin in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary List incidents
// @Description All incidents newest first, with aggregate approval counts.
// @Tags Incidents
// @Produce json
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.incidentService.List(c.Request.Context(), nil)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary List pending incidents
// @Description Pending incidents awaiting volunteer review, newest first.
// @Tags Incidents
// @Produce json
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/pending [get]
func (h *Handler) listPendingIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listPendingIncidents")

	pending := models.StatusPending
	incidents, err := h.incidentService.List(c.Request.Context(), &pending)
	if err != nil {
		log.WithError(err).Error("Failed to list pending incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Report an incident
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body ReportIncidentRequest true "Incident report"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident := DTOToIncidentModel(input)
	if err := h.incidentService.Report(c.Request.Context(), incident); err != nil {
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": incident.ID})
}

// @Summary Volunteer action on an incident
// @Description Approve, reject or resolve. A volunteer's later action replaces their earlier one; 3 matching votes transition the incident, resolve is immediate and terminal.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param action body IncidentActionRequest true "Volunteer action"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/action [post]
func (h *Handler) incidentAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "incidentAction").WithField("id", id)

	var input IncidentActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := &models.IncidentAction{
		IncidentID:  id,
		VolunteerID: input.VolunteerID,
		Action:      models.ApprovalAction(input.Action),
		Comment:     input.Comment,
	}
	if _, err := h.incidentService.Act(c.Request.Context(), action); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to apply incident action in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Plan a danger-avoiding route
// @Description Road route between two points, detoured around danger zones when possible. Provider failures degrade to a straight line, never an error.
// @Tags Route
// @Accept json
// @Produce json
// @Param route body PlanRouteRequest true "Start and end coordinates"
// @Success 200 {object} RouteResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /route [post]
func (h *Handler) planRoute(c *gin.Context) {
	var input PlanRouteRequest
	log := h.logger.WithField("method", "planRoute")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := models.Coord{Lat: input.Start.Lat, Lng: input.Start.Lng}
	end := models.Coord{Lat: input.End.Lat, Lng: input.End.Lng}
	route, err := h.routeService.PlanRoute(c.Request.Context(), start, end)
	if err != nil {
		log.WithError(err).Error("Failed to plan route in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToRouteResponse(route))
}

// @Summary Check a location against danger zones
// @Description Danger zones whose circle contains the point.
// @Tags Location
// @Accept json
// @Produce json
// @Param location body LocationCheckRequest true "Coordinates to check"
// @Success 200 {array} ZoneResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/check [post]
func (h *Handler) checkLocation(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zones, err := h.zoneService.CheckLocation(c.Request.Context(), models.Coord{Lat: input.Lat, Lng: input.Lng})
	if err != nil {
		log.WithError(err).Error("Failed to check location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	responses := make([]*ZoneResponse, len(zones))
	for i, z := range zones {
		responses[i] = ModelToZoneResponse(z)
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Liveness check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
