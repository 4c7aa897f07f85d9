package v1

import "github.com/guardaid/safety-backend/internal/models"

// ModelToZoneResponse converts a zone model into the map client's shape.
func ModelToZoneResponse(model *models.Zone) *ZoneResponse {
	return &ZoneResponse{
		ID:            model.ID,
		Lat:           model.Latitude,
		Lng:           model.Longitude,
		Name:          model.Name,
		Rating:        model.Rating,
		Radius:        model.RadiusMeters,
		IsUserCreated: model.IsUserCreated,
		TotalRatings:  model.RatingCount,
		Timestamp:     model.CreatedAt,
	}
}

// ModelsToZoneListResponse splits zones into the safe/danger arrays the map
// client renders.
func ModelsToZoneListResponse(zones []*models.Zone) *ZoneListResponse {
	resp := &ZoneListResponse{
		SafeZones:   make([]*ZoneResponse, 0),
		DangerZones: make([]*ZoneResponse, 0),
	}
	for _, z := range zones {
		if z.Kind == models.ZoneSafe {
			resp.SafeZones = append(resp.SafeZones, ModelToZoneResponse(z))
		} else {
			resp.DangerZones = append(resp.DangerZones, ModelToZoneResponse(z))
		}
	}
	return resp
}

func ModelToPinResponse(model *models.Pin) *PinResponse {
	return &PinResponse{
		ID:        model.ID,
		Lat:       model.Latitude,
		Lng:       model.Longitude,
		Timestamp: model.CreatedAt,
	}
}

func ModelsToPinResponses(pins []*models.Pin) []*PinResponse {
	responses := make([]*PinResponse, len(pins))
	for i, pin := range pins {
		responses[i] = ModelToPinResponse(pin)
	}
	return responses
}

// DTOToIncidentModel builds the domain incident from a report request; the
// service fills in defaults and the pending status.
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:        dto.Type,
		Latitude:    dto.Lat,
		Longitude:   dto.Lng,
		Description: dto.Description,
		Severity:    models.Severity(dto.Severity),
		ReporterID:  dto.ReporterID,
	}
}

func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:             model.ID,
		Type:           model.Type,
		Lat:            model.Latitude,
		Lng:            model.Longitude,
		Description:    model.Description,
		Severity:       string(model.Severity),
		Status:         string(model.Status),
		ReporterID:     model.ReporterID,
		ApprovedBy:     model.ApprovedBy,
		ResolvedBy:     model.ResolvedBy,
		ApprovalCount:  model.ApprovalCount,
		RejectionCount: model.RejectionCount,
		Timestamp:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = ModelToIncidentResponse(incident)
	}
	return responses
}

// ModelToRouteResponse converts the planner result, reporting distance in km
// the way the map client displays it.
func ModelToRouteResponse(model *models.Route) *RouteResponse {
	path := make([]CoordDTO, len(model.Path))
	for i, p := range model.Path {
		path[i] = CoordDTO{Lat: p.Lat, Lng: p.Lng}
	}
	return &RouteResponse{
		Route:       path,
		DistanceKm:  model.DistanceMeters / 1000,
		SafetyScore: model.SafetyScore,
		IsDetoured:  model.Detoured,
	}
}
