package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/service"
	"github.com/guardaid/safety-backend/internal/service/mocks"
)

func newTestRouteService(t *testing.T) (service.RouteService, *mocks.MockRouteProvider, *mocks.MockZoneRepository) {
	ctrl := gomock.NewController(t)
	providerMock := mocks.NewMockRouteProvider(ctrl)
	zonesMock := mocks.NewMockZoneRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := service.NewRouteService(providerMock, zonesMock, logger)
	return svc, providerMock, zonesMock
}

func expectDangerZones(zonesMock *mocks.MockZoneRepository, zones []*models.Zone) {
	kind := models.ZoneDanger
	zonesMock.EXPECT().List(gomock.Any(), &kind).Return(zones, nil).Times(1)
}

func TestPlanRoute_SameStartAndEnd(t *testing.T) {
	svc, _, _ := newTestRouteService(t)
	p := models.Coord{Lat: 31.3290, Lng: 75.5740}

	route, err := svc.PlanRoute(context.Background(), p, p)

	require.NoError(t, err)
	assert.Equal(t, []models.Coord{p}, route.Path)
	assert.Equal(t, 100.0, route.SafetyScore)
	assert.False(t, route.Detoured)
}

func TestPlanRoute_ZoneLoadErrorSurfaces(t *testing.T) {
	svc, _, zonesMock := newTestRouteService(t)
	kind := models.ZoneDanger
	zonesMock.EXPECT().List(gomock.Any(), &kind).Return(nil, fmt.Errorf("db down")).Times(1)

	_, err := svc.PlanRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})
	assert.Error(t, err)
}

func TestPlanRoute_ProviderFailureFallsBackToStraightLine(t *testing.T) {
	svc, providerMock, zonesMock := newTestRouteService(t)
	start := models.Coord{Lat: 31.325, Lng: 75.578}
	end := models.Coord{Lat: 31.331, Lng: 75.578}

	expectDangerZones(zonesMock, nil)
	providerMock.EXPECT().
		FetchRoute(gomock.Any(), start, end).
		Return(nil, fmt.Errorf("provider unreachable")).
		Times(1)

	route, err := svc.PlanRoute(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, []models.Coord{start, end}, route.Path)
	assert.Equal(t, 50.0, route.SafetyScore)
	assert.False(t, route.Detoured)
	assert.Greater(t, route.DistanceMeters, 0.0)
}

func TestPlanRoute_NoDangerZones(t *testing.T) {
	svc, providerMock, zonesMock := newTestRouteService(t)
	start := models.Coord{Lat: 31.325, Lng: 75.578}
	end := models.Coord{Lat: 31.331, Lng: 75.578}
	direct := []models.Coord{start, {Lat: 31.328, Lng: 75.578}, end}

	expectDangerZones(zonesMock, nil)
	providerMock.EXPECT().FetchRoute(gomock.Any(), start, end).Return(direct, nil).Times(1)

	route, err := svc.PlanRoute(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, direct, route.Path)
	assert.Equal(t, 100.0, route.SafetyScore)
	assert.False(t, route.Detoured)
}

func TestPlanRoute_DirectRouteClearOfZones(t *testing.T) {
	svc, providerMock, zonesMock := newTestRouteService(t)
	start := models.Coord{Lat: 31.325, Lng: 75.578}
	end := models.Coord{Lat: 31.331, Lng: 75.578}
	direct := []models.Coord{start, {Lat: 31.328, Lng: 75.578}, end}

	// A danger zone well away from the whole route.
	expectDangerZones(zonesMock, []*models.Zone{{
		Kind:         models.ZoneDanger,
		Latitude:     31.40,
		Longitude:    75.70,
		RadiusMeters: 150,
	}})
	providerMock.EXPECT().FetchRoute(gomock.Any(), start, end).Return(direct, nil).Times(1)

	route, err := svc.PlanRoute(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, direct, route.Path)
	assert.Equal(t, 100.0, route.SafetyScore)
	assert.False(t, route.Detoured)
}

func TestPlanRoute_DetoursAroundDangerZone(t *testing.T) {
	svc, providerMock, zonesMock := newTestRouteService(t)
	start := models.Coord{Lat: 31.325, Lng: 75.578}
	end := models.Coord{Lat: 31.331, Lng: 75.578}
	zoneCenter := models.Coord{Lat: 31.328, Lng: 75.578}

	expectDangerZones(zonesMock, []*models.Zone{{
		Kind:         models.ZoneDanger,
		Latitude:     zoneCenter.Lat,
		Longitude:    zoneCenter.Lng,
		RadiusMeters: 150,
	}})

	// The direct road passes straight through the zone center.
	providerMock.EXPECT().
		FetchRoute(gomock.Any(), start, end).
		Return([]models.Coord{start, zoneCenter, end}, nil).
		Times(1)
	// Detour legs are straight lines between their endpoints.
	providerMock.EXPECT().
		FetchRoute(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a, b models.Coord) ([]models.Coord, error) {
			return []models.Coord{a, b}, nil
		}).AnyTimes()

	route, err := svc.PlanRoute(context.Background(), start, end)

	require.NoError(t, err)
	assert.True(t, route.Detoured)
	assert.Equal(t, 100.0, route.SafetyScore)
	require.Len(t, route.Path, 4)
	assert.Equal(t, start, route.Path[0])
	assert.Equal(t, end, route.Path[3])
	// The chosen waypoint sits away from the blocked midpoint.
	assert.NotEqual(t, zoneCenter, route.Path[1])
}

func TestPlanRoute_NoSafeAlternative(t *testing.T) {
	svc, providerMock, zonesMock := newTestRouteService(t)
	start := models.Coord{Lat: 31.325, Lng: 75.578}
	end := models.Coord{Lat: 31.331, Lng: 75.578}
	direct := []models.Coord{start, {Lat: 31.328, Lng: 75.578}, end}

	// One zone swallows the route and every candidate waypoint.
	expectDangerZones(zonesMock, []*models.Zone{{
		Kind:         models.ZoneDanger,
		Latitude:     31.328,
		Longitude:    75.578,
		RadiusMeters: 5000,
	}})
	providerMock.EXPECT().FetchRoute(gomock.Any(), start, end).Return(direct, nil).Times(1)

	route, err := svc.PlanRoute(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, direct, route.Path)
	assert.Equal(t, 30.0, route.SafetyScore)
	assert.False(t, route.Detoured)
}
