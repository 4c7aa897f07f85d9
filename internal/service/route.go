package service

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/guardaid/safety-backend/internal/geo"
	"github.com/guardaid/safety-backend/internal/metrics"
	"github.com/guardaid/safety-backend/internal/models"
)

const (
	// SafetyMarginMeters is added to every danger-zone radius when testing
	// route points.
	SafetyMarginMeters = 100.0

	safeScore          = 100.0
	fallbackScore      = 50.0
	noAlternativeScore = 30.0
)

// RouteProvider fetches a road-network route between two points.
type RouteProvider interface {
	FetchRoute(ctx context.Context, start, end models.Coord) ([]models.Coord, error)
}

// RouteService plans routes that avoid the current danger-zone set where an
// alternative exists. Provider failures never surface as errors, only as a
// degraded straight-line result.
type RouteService interface {
	PlanRoute(ctx context.Context, start, end models.Coord) (*models.Route, error)
}

type routeService struct {
	provider RouteProvider
	zones    ZoneRepository
	logger   *logrus.Logger
}

func NewRouteService(provider RouteProvider, zones ZoneRepository, logger *logrus.Logger) RouteService {
	return &routeService{
		provider: provider,
		zones:    zones,
		logger:   logger,
	}
}

// PlanRoute requests the direct route and, if it crosses a danger circle,
// probes six fixed detour waypoints around the midpoint and keeps the
// best-scoring candidate. The score is the percentage of route points outside
// all danger circles plus margin.
func (s *routeService) PlanRoute(ctx context.Context, start, end models.Coord) (*models.Route, error) {
	metrics.RouteRequestsTotal.Inc()
	log := s.logger.WithFields(logrus.Fields{
		"service": "route",
		"method":  "PlanRoute",
	})

	if start == end {
		return &models.Route{Path: []models.Coord{start}, SafetyScore: safeScore}, nil
	}

	kind := models.ZoneDanger
	dangerZones, err := s.zones.List(ctx, &kind)
	if err != nil {
		log.WithError(err).Error("Failed to load danger zones")
		return nil, fmt.Errorf("service: could not load danger zones: %w", err)
	}

	direct, err := s.provider.FetchRoute(ctx, start, end)
	if err != nil {
		// Degraded but available: a straight line with a reduced score.
		log.WithError(err).Warn("Route provider failed, falling back to straight line")
		return s.finish(&models.Route{
			Path:        []models.Coord{start, end},
			SafetyScore: fallbackScore,
		}), nil
	}

	index := geo.NewIndex(dangerZones, SafetyMarginMeters)
	if index.Size() == 0 {
		return s.finish(&models.Route{Path: direct, SafetyScore: safeScore}), nil
	}

	if pathSafe(index, direct) {
		log.Info("Direct route avoids all danger zones")
		return s.finish(&models.Route{Path: direct, SafetyScore: safeScore}), nil
	}

	log.Info("Direct route crosses danger zones, probing detour waypoints")
	bestPath := direct
	bestScore := 0.0

	for _, waypoint := range detourWaypoints(start, end) {
		if !index.PointSafe(waypoint) {
			continue
		}
		leg1, err := s.provider.FetchRoute(ctx, start, waypoint)
		if err != nil {
			continue
		}
		leg2, err := s.provider.FetchRoute(ctx, waypoint, end)
		if err != nil {
			continue
		}

		candidate := make([]models.Coord, 0, len(leg1)+len(leg2))
		candidate = append(candidate, leg1...)
		candidate = append(candidate, leg2...)

		score := safetyScore(index, candidate)
		if score > bestScore {
			bestScore = score
			bestPath = candidate
		}
	}

	if bestScore > 0 {
		metrics.RouteDetoursTotal.Inc()
		log.WithField("safety_score", bestScore).Info("Using detoured route")
		return s.finish(&models.Route{
			Path:        bestPath,
			SafetyScore: bestScore,
			Detoured:    true,
		}), nil
	}

	// No candidate cleared a single point: route is unsafe but there is no
	// alternative to offer.
	log.Warn("No safer alternative found, returning direct route")
	return s.finish(&models.Route{
		Path:        direct,
		SafetyScore: noAlternativeScore,
	}), nil
}

func (s *routeService) finish(route *models.Route) *models.Route {
	route.DistanceMeters = geo.PathLength(route.Path)
	return route
}

// pathSafe reports whether every route point and every segment between
// consecutive points stays clear of all danger circles plus margin.
func pathSafe(index *geo.Index, path []models.Coord) bool {
	for _, p := range path {
		if !index.PointSafe(p) {
			return false
		}
	}
	for i := 0; i+1 < len(path); i++ {
		if !index.SegmentSafe(path[i], path[i+1]) {
			return false
		}
	}
	return true
}

// safetyScore is the percentage of route points outside all danger circles
// plus margin.
func safetyScore(index *geo.Index, path []models.Coord) float64 {
	if len(path) == 0 {
		return 0
	}
	safe := 0
	for _, p := range path {
		if index.PointSafe(p) {
			safe++
		}
	}
	return float64(safe) / float64(len(path)) * 100
}

// detourWaypoints generates the six fixed candidates around the midpoint:
// the four cardinal offsets plus the NE and SW diagonals. Offsets scale with
// the route's span but never shrink below a fixed floor.
func detourWaypoints(start, end models.Coord) []models.Coord {
	midLat := (start.Lat + end.Lat) / 2
	midLng := (start.Lng + end.Lng) / 2
	latDiff := math.Abs(end.Lat - start.Lat)
	lngDiff := math.Abs(end.Lng - start.Lng)

	cardinalLat := math.Max(0.005, latDiff*0.3)
	cardinalLng := math.Max(0.005, lngDiff*0.3)
	diagonalLat := math.Max(0.003, latDiff*0.2)
	diagonalLng := math.Max(0.003, lngDiff*0.2)

	return []models.Coord{
		{Lat: midLat + cardinalLat, Lng: midLng},
		{Lat: midLat - cardinalLat, Lng: midLng},
		{Lat: midLat, Lng: midLng + cardinalLng},
		{Lat: midLat, Lng: midLng - cardinalLng},
		{Lat: midLat + diagonalLat, Lng: midLng + diagonalLng},
		{Lat: midLat - diagonalLat, Lng: midLng - diagonalLng},
	}
}
