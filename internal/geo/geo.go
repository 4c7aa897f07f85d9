// Package geo holds the geospatial primitives shared by the zone registry and
// the route planner: great-circle distance, circle containment with a safety
// margin, and point-to-segment distance.
package geo

import (
	"math"

	"github.com/guardaid/safety-backend/internal/models"
)

const (
	// EarthRadiusMeters is the mean earth radius used for haversine math.
	EarthRadiusMeters = 6371000.0

	metersPerDegree = math.Pi / 180.0 * EarthRadiusMeters
)

// Distance returns the haversine distance between two coordinates in meters.
func Distance(a, b models.Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinCircle reports whether p lies strictly inside the circle around center,
// radius and margin in meters.
func WithinCircle(p, center models.Coord, radiusMeters, marginMeters float64) bool {
	return Distance(p, center) < radiusMeters+marginMeters
}

// DistanceToSegment returns the minimum distance in meters from p to the
// segment a-b. Coordinates are projected onto a local equirectangular plane
// around p, which is accurate at the scale of city routes.
func DistanceToSegment(p, a, b models.Coord) float64 {
	cosLat := math.Cos(p.Lat * math.Pi / 180)

	ax := (a.Lng - p.Lng) * cosLat * metersPerDegree
	ay := (a.Lat - p.Lat) * metersPerDegree
	bx := (b.Lng - p.Lng) * cosLat * metersPerDegree
	by := (b.Lat - p.Lat) * metersPerDegree

	dx, dy := bx-ax, by-ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// Projection of p (the origin) onto the segment, clamped to its ends.
	t := -(ax*dx + ay*dy) / segLenSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(ax+t*dx, ay+t*dy)
}

// PathLength returns the total haversine length of a polyline in meters.
func PathLength(path []models.Coord) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += Distance(path[i], path[i+1])
	}
	return total
}
