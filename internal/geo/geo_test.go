package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardaid/safety-backend/internal/models"
)

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	a := models.Coord{Lat: 31.0, Lng: 75.0}
	b := models.Coord{Lat: 32.0, Lng: 75.0}

	// One degree of latitude is about 111.19 km on the mean sphere.
	assert.InDelta(t, 111195, Distance(a, b), 50)
}

func TestDistance_SamePoint(t *testing.T) {
	p := models.Coord{Lat: 31.3290, Lng: 75.5740}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	a := models.Coord{Lat: 31.3290, Lng: 75.5740}
	b := models.Coord{Lat: 31.3350, Lng: 75.5650}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestWithinCircle_Margin(t *testing.T) {
	center := models.Coord{Lat: 31.3290, Lng: 75.5740}
	// About 150 meters north of the center.
	p := models.Coord{Lat: center.Lat + 150.0/111195.0, Lng: center.Lng}

	assert.False(t, WithinCircle(p, center, 100, 0))
	assert.True(t, WithinCircle(p, center, 100, 100))
	assert.True(t, WithinCircle(center, center, 100, 0))
}

func TestDistanceToSegment_Perpendicular(t *testing.T) {
	a := models.Coord{Lat: 0, Lng: -0.001}
	b := models.Coord{Lat: 0, Lng: 0.001}
	p := models.Coord{Lat: 0.001, Lng: 0}

	// The foot of the perpendicular falls inside the segment, so the
	// distance is one millidegree of latitude.
	assert.InDelta(t, 111.195, DistanceToSegment(p, a, b), 0.5)
}

func TestDistanceToSegment_ClampedToEndpoint(t *testing.T) {
	a := models.Coord{Lat: 0, Lng: -0.001}
	b := models.Coord{Lat: 0, Lng: 0.001}
	p := models.Coord{Lat: 0, Lng: 0.002}

	// Past the end of the segment the nearest point is b itself.
	assert.InDelta(t, 111.195, DistanceToSegment(p, a, b), 0.5)
}

func TestDistanceToSegment_DegenerateSegment(t *testing.T) {
	a := models.Coord{Lat: 0, Lng: 0}
	p := models.Coord{Lat: 0.001, Lng: 0}

	assert.InDelta(t, 111.195, DistanceToSegment(p, a, a), 0.5)
}

func TestPathLength(t *testing.T) {
	path := []models.Coord{
		{Lat: 0, Lng: 0},
		{Lat: 0.001, Lng: 0},
		{Lat: 0.002, Lng: 0},
	}
	assert.InDelta(t, 2*111.195, PathLength(path), 1)

	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength(path[:1]))
}
