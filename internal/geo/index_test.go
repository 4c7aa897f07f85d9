package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardaid/safety-backend/internal/models"
)

func dangerZone(lat, lng float64, radius int) *models.Zone {
	return &models.Zone{
		Kind:         models.ZoneDanger,
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
	}
}

func TestNewIndex_SkipsDegenerateZones(t *testing.T) {
	zones := []*models.Zone{
		dangerZone(31.3290, 75.5740, 100),
		dangerZone(31.3300, 75.5750, 0),
		dangerZone(31.3310, 75.5760, -5),
		nil,
	}
	ix := NewIndex(zones, 0)
	assert.Equal(t, 1, ix.Size())
}

func TestIndex_PointSafe(t *testing.T) {
	center := models.Coord{Lat: 31.3290, Lng: 75.5740}
	ix := NewIndex([]*models.Zone{dangerZone(center.Lat, center.Lng, 100)}, 0)

	assert.False(t, ix.PointSafe(center))

	// About 150 meters north, outside the 100 meter circle.
	outside := models.Coord{Lat: center.Lat + 150.0/111195.0, Lng: center.Lng}
	assert.True(t, ix.PointSafe(outside))
}

func TestIndex_PointSafe_MarginInflatesCircle(t *testing.T) {
	center := models.Coord{Lat: 31.3290, Lng: 75.5740}
	p := models.Coord{Lat: center.Lat + 150.0/111195.0, Lng: center.Lng}

	assert.True(t, NewIndex([]*models.Zone{dangerZone(center.Lat, center.Lng, 100)}, 0).PointSafe(p))
	assert.False(t, NewIndex([]*models.Zone{dangerZone(center.Lat, center.Lng, 100)}, 100).PointSafe(p))
}

func TestIndex_EmptyIndexIsAlwaysSafe(t *testing.T) {
	ix := NewIndex(nil, 100)
	assert.Equal(t, 0, ix.Size())
	assert.True(t, ix.PointSafe(models.Coord{Lat: 31.3290, Lng: 75.5740}))
	assert.True(t, ix.SegmentSafe(models.Coord{Lat: 31.0, Lng: 75.0}, models.Coord{Lat: 32.0, Lng: 76.0}))
}

func TestIndex_SegmentSafe_CrossingCircleBetweenEndpoints(t *testing.T) {
	center := models.Coord{Lat: 31.3290, Lng: 75.5740}
	ix := NewIndex([]*models.Zone{dangerZone(center.Lat, center.Lng, 100)}, 0)

	// Endpoints roughly 500 meters east and west of the center, both safe
	// on their own, but the straight segment between them crosses the
	// circle.
	west := models.Coord{Lat: center.Lat, Lng: center.Lng - 0.005}
	east := models.Coord{Lat: center.Lat, Lng: center.Lng + 0.005}
	assert.True(t, ix.PointSafe(west))
	assert.True(t, ix.PointSafe(east))
	assert.False(t, ix.SegmentSafe(west, east))
}

func TestIndex_SegmentSafe_PassingWideOfCircle(t *testing.T) {
	center := models.Coord{Lat: 31.3290, Lng: 75.5740}
	ix := NewIndex([]*models.Zone{dangerZone(center.Lat, center.Lng, 100)}, 0)

	// A parallel segment half a degree north never comes close.
	a := models.Coord{Lat: center.Lat + 0.5, Lng: center.Lng - 0.005}
	b := models.Coord{Lat: center.Lat + 0.5, Lng: center.Lng + 0.005}
	assert.True(t, ix.SegmentSafe(a, b))
}
