package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/guardaid/safety-backend/internal/models"
)

const (
	dimensions  = 2
	minChildren = 2
	maxChildren = 8

	// pointTolerance is the degree-sized rect a query point is expanded to,
	// rtreego rejects zero-width rects.
	pointTolerance = 1e-9
)

type zoneItem struct {
	zone *models.Zone
	rect *rtreego.Rect
}

func (zi *zoneItem) Bounds() *rtreego.Rect { return zi.rect }

// Index is an R-tree over danger circles, each inflated by the safety margin.
// Candidate zones come from a bounding-box search and are confirmed with exact
// haversine math, so the tree only prunes, never decides.
type Index struct {
	tree   *rtreego.Rtree
	margin float64
	size   int
}

// NewIndex builds an index over the given zones with a safety margin in
// meters. Zones with a non-positive radius are skipped.
func NewIndex(zones []*models.Zone, marginMeters float64) *Index {
	ix := &Index{
		tree:   rtreego.NewTree(dimensions, minChildren, maxChildren),
		margin: marginMeters,
	}
	for _, z := range zones {
		if z == nil || z.RadiusMeters <= 0 {
			continue
		}
		rect, err := circleRect(z, marginMeters)
		if err != nil {
			continue
		}
		ix.tree.Insert(&zoneItem{zone: z, rect: rect})
		ix.size++
	}
	return ix
}

// Size returns the number of indexed zones.
func (ix *Index) Size() int { return ix.size }

// PointSafe reports whether p is outside every indexed circle plus margin.
func (ix *Index) PointSafe(p models.Coord) bool {
	if ix.size == 0 {
		return true
	}
	rect, err := rtreego.NewRect(rtreego.Point{p.Lat, p.Lng}, []float64{pointTolerance, pointTolerance})
	if err != nil {
		return true
	}
	for _, item := range ix.tree.SearchIntersect(rect) {
		zi := item.(*zoneItem)
		center := models.Coord{Lat: zi.zone.Latitude, Lng: zi.zone.Longitude}
		if WithinCircle(p, center, float64(zi.zone.RadiusMeters), ix.margin) {
			return false
		}
	}
	return true
}

// SegmentSafe reports whether the segment a-b stays outside every indexed
// circle plus margin along its whole length, not just at its endpoints.
func (ix *Index) SegmentSafe(a, b models.Coord) bool {
	if ix.size == 0 {
		return true
	}
	latBL := math.Min(a.Lat, b.Lat)
	lngBL := math.Min(a.Lng, b.Lng)
	lengths := []float64{
		math.Max(math.Abs(a.Lat-b.Lat), pointTolerance),
		math.Max(math.Abs(a.Lng-b.Lng), pointTolerance),
	}
	rect, err := rtreego.NewRect(rtreego.Point{latBL, lngBL}, lengths)
	if err != nil {
		return true
	}
	for _, item := range ix.tree.SearchIntersect(rect) {
		zi := item.(*zoneItem)
		center := models.Coord{Lat: zi.zone.Latitude, Lng: zi.zone.Longitude}
		if DistanceToSegment(center, a, b) < float64(zi.zone.RadiusMeters)+ix.margin {
			return false
		}
	}
	return true
}

// circleRect is the lat/lng bounding box of a circle inflated by the margin.
func circleRect(z *models.Zone, marginMeters float64) (*rtreego.Rect, error) {
	reach := float64(z.RadiusMeters) + marginMeters
	latDelta := reach / metersPerDegree
	cosLat := math.Cos(z.Latitude * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // degenerate near the poles, keep the rect finite
	}
	lngDelta := reach / (metersPerDegree * cosLat)

	return rtreego.NewRect(
		rtreego.Point{z.Latitude - latDelta, z.Longitude - lngDelta},
		[]float64{2 * latDelta, 2 * lngDelta},
	)
}
