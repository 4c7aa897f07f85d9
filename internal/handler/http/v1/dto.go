package v1

import (
	"time"

	"github.com/google/uuid"
)

// CoordDTO is a lat/lng pair in request and response bodies.
type CoordDTO struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}

// RateZoneRequest promotes a location rating into a zone.
type RateZoneRequest struct {
	Lat    float64 `json:"lat" validate:"required,latitude"`
	Lng    float64 `json:"lng" validate:"required,longitude"`
	Name   string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Radius int     `json:"radius" validate:"required,gt=0"`
}

// AddZoneRatingRequest adds one more rating to an existing zone.
type AddZoneRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// ZoneResponse mirrors the map client's zone shape.
type ZoneResponse struct {
	ID            uuid.UUID `json:"id"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Name          string    `json:"name"`
	Rating        float64   `json:"rating"`
	Radius        int       `json:"radius"`
	IsUserCreated bool      `json:"isUserCreated"`
	TotalRatings  int       `json:"totalRatings"`
	Timestamp     time.Time `json:"timestamp"`
}

// ZoneListResponse splits zones by kind for the map client.
type ZoneListResponse struct {
	SafeZones   []*ZoneResponse `json:"safeZones"`
	DangerZones []*ZoneResponse `json:"dangerZones"`
}

// CreatePinRequest drops a marker.
type CreatePinRequest struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}

// PinResponse mirrors the map client's pin shape.
type PinResponse struct {
	ID        uuid.UUID `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportIncidentRequest files a new incident.
type ReportIncidentRequest struct {
	Type        string  `json:"type" validate:"required,min=2,max=50"`
	Lat         float64 `json:"lat" validate:"required,latitude"`
	Lng         float64 `json:"lng" validate:"required,longitude"`
	Description string  `json:"description,omitempty"`
	Severity    string  `json:"severity,omitempty" validate:"omitempty,oneof=low medium high"`
	ReporterID  string  `json:"reporterId,omitempty"`
}

// IncidentActionRequest is a volunteer disposition on an incident.
type IncidentActionRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	Action      string `json:"action" validate:"required,oneof=approve reject resolve"`
	Comment     string `json:"comment,omitempty"`
}

// IncidentResponse mirrors the client's incident shape, including the
// aggregate approval counts.
type IncidentResponse struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Description    string    `json:"description"`
	Severity       string    `json:"severity"`
	Status         string    `json:"status"`
	ReporterID     string    `json:"reporterId"`
	ApprovedBy     *string   `json:"approvedBy,omitempty"`
	ResolvedBy     *string   `json:"resolvedBy,omitempty"`
	ApprovalCount  int       `json:"approvalCount"`
	RejectionCount int       `json:"rejectionCount"`
	Timestamp      time.Time `json:"timestamp"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PlanRouteRequest asks for a danger-avoiding route.
type PlanRouteRequest struct {
	Start CoordDTO `json:"start"`
	End   CoordDTO `json:"end"`
}

// RouteResponse is the planned route with its safety score.
type RouteResponse struct {
	Route       []CoordDTO `json:"route"`
	DistanceKm  float64    `json:"distanceKm"`
	SafetyScore float64    `json:"safetyScore"`
	IsDetoured  bool       `json:"isDetoured"`
}

// LocationCheckRequest asks which danger zones contain a point.
type LocationCheckRequest struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}
