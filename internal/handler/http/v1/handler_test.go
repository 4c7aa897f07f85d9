package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guardaid/safety-backend/internal/config"
	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/repository"
	"github.com/guardaid/safety-backend/internal/service/mocks"
)

type testMocks struct {
	incidents *mocks.MockIncidentService
	zones     *mocks.MockZoneService
	routes    *mocks.MockRouteService
}

func newTestHandler(t *testing.T) (*testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	tm := &testMocks{
		incidents: mocks.NewMockIncidentService(ctrl),
		zones:     mocks.NewMockZoneService(ctrl),
		routes:    mocks.NewMockRouteService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(tm.incidents, tm.zones, tm.routes, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	api.Use(APIKeyAuthMiddleware(cfg, logger))
	handler.RegisterRoutes(api)
	handler.RegisterHealth(router)

	return tm, router
}

func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authed() map[string]string {
	return map[string]string{"X-API-Key": "test-api-key"}
}

func TestAuth_MissingAPIKey(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/zones", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAuth_InvalidAPIKey(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/zones", nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BearerFallback(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.zones.EXPECT().ListZones(gomock.Any(), gomock.Nil()).Return([]*models.Zone{}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/zones", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheck_NoAuthRequired(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK")
}

func TestListZones_SplitsByKind(t *testing.T) {
	tm, router := newTestHandler(t)

	safeID, dangerID := uuid.New(), uuid.New()
	tm.zones.EXPECT().
		ListZones(gomock.Any(), gomock.Nil()).
		Return([]*models.Zone{
			{ID: safeID, Kind: models.ZoneSafe, Name: "Model Town", Rating: 4, RadiusMeters: 400},
			{ID: dangerID, Kind: models.ZoneDanger, Name: "Cantt Area", Rating: 2, RadiusMeters: 200},
		}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/zones", nil, authed())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ZoneListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.SafeZones, 1)
	require.Len(t, resp.DangerZones, 1)
	assert.Equal(t, safeID, resp.SafeZones[0].ID)
	assert.Equal(t, dangerID, resp.DangerZones[0].ID)
}

func TestCreateZone_Success(t *testing.T) {
	tm, router := newTestHandler(t)
	zoneID := uuid.New()

	tm.zones.EXPECT().
		Rate(gomock.Any(), 31.3180, 75.5820, 2, 200, "Cantt Area").
		Return(&models.Zone{ID: zoneID, Kind: models.ZoneDanger}, nil).
		Times(1)

	body := `{"lat":31.3180,"lng":75.5820,"rating":2,"radius":200,"name":"Cantt Area"}`
	w := makeRequest(router, "POST", "/api/zones", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), zoneID.String())
}

func TestCreateZone_RatingOutOfRange(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.zones.EXPECT().Rate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := `{"lat":31.3180,"lng":75.5820,"rating":6,"radius":200}`
	w := makeRequest(router, "POST", "/api/zones", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateZone_InvalidJSON(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.zones.EXPECT().Rate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/zones", bytes.NewBufferString(`{"lat":`), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestRateZone_Success(t *testing.T) {
	tm, router := newTestHandler(t)
	zoneID := uuid.New()

	tm.zones.EXPECT().
		RateZone(gomock.Any(), zoneID, 4).
		Return(&models.Zone{ID: zoneID, Rating: 4.5, RatingCount: 2}, nil).
		Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/zones/%s/ratings", zoneID), bytes.NewBufferString(`{"rating":4}`), authed())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ZoneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4.5, resp.Rating)
	assert.Equal(t, 2, resp.TotalRatings)
}

func TestRateZone_NotFound(t *testing.T) {
	tm, router := newTestHandler(t)
	zoneID := uuid.New()

	tm.zones.EXPECT().
		RateZone(gomock.Any(), zoneID, 4).
		Return(nil, fmt.Errorf("service: could not rate zone: %w", repository.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/zones/%s/ratings", zoneID), bytes.NewBufferString(`{"rating":4}`), authed())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateZone_InvalidID(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "POST", "/api/zones/not-a-uuid/ratings", bytes.NewBufferString(`{"rating":4}`), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePin_Success(t *testing.T) {
	tm, router := newTestHandler(t)
	pinID := uuid.New()

	tm.zones.EXPECT().
		CreatePin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pin *models.Pin) error {
			pin.ID = pinID
			return nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/pins", bytes.NewBufferString(`{"lat":31.3290,"lng":75.5740}`), authed())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), pinID.String())
}

func TestDeletePin_NotFound(t *testing.T) {
	tm, router := newTestHandler(t)
	pinID := uuid.New()

	tm.zones.EXPECT().
		DeletePin(gomock.Any(), pinID).
		Return(fmt.Errorf("service: could not delete pin: %w", repository.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/pins/%s", pinID), nil, authed())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportIncident_Success(t *testing.T) {
	tm, router := newTestHandler(t)
	incidentID := uuid.New()

	tm.incidents.EXPECT().
		Report(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.Equal(t, "harassment", inc.Type)
			assert.Equal(t, models.SeverityHigh, inc.Severity)
			inc.ID = incidentID
			inc.Status = models.StatusPending
			return nil
		}).Times(1)

	body := `{"type":"harassment","lat":31.3290,"lng":75.5740,"severity":"high","reporterId":"user-42"}`
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), incidentID.String())
}

func TestReportIncident_TypeTooShort(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.incidents.EXPECT().Report(gomock.Any(), gomock.Any()).Times(0)

	body := `{"type":"x","lat":31.3290,"lng":75.5740}`
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPendingIncidents_FiltersByStatus(t *testing.T) {
	tm, router := newTestHandler(t)
	pending := models.StatusPending

	tm.incidents.EXPECT().
		List(gomock.Any(), &pending).
		Return([]*models.Incident{{
			ID:        uuid.New(),
			Type:      "theft",
			Status:    pending,
			CreatedAt: time.Now(),
		}}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/incidents/pending", nil, authed())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "pending", resp[0].Status)
}

func TestIncidentAction_Success(t *testing.T) {
	tm, router := newTestHandler(t)
	incidentID := uuid.New()

	tm.incidents.EXPECT().
		Act(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, action *models.IncidentAction) (*models.Incident, error) {
			assert.Equal(t, incidentID, action.IncidentID)
			assert.Equal(t, "volunteer-1", action.VolunteerID)
			assert.Equal(t, models.ActionApprove, action.Action)
			return &models.Incident{ID: incidentID, Status: models.StatusPending}, nil
		}).Times(1)

	body := `{"volunteerId":"volunteer-1","action":"approve"}`
	w := makeRequest(router, "POST", fmt.Sprintf("/api/incidents/%s/action", incidentID), bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

func TestIncidentAction_UnknownAction(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.incidents.EXPECT().Act(gomock.Any(), gomock.Any()).Times(0)

	body := `{"volunteerId":"volunteer-1","action":"escalate"}`
	w := makeRequest(router, "POST", fmt.Sprintf("/api/incidents/%s/action", uuid.New()), bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncidentAction_NotFound(t *testing.T) {
	tm, router := newTestHandler(t)
	incidentID := uuid.New()

	tm.incidents.EXPECT().
		Act(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not apply action: %w", repository.ErrNotFound)).
		Times(1)

	body := `{"volunteerId":"volunteer-1","action":"approve"}`
	w := makeRequest(router, "POST", fmt.Sprintf("/api/incidents/%s/action", incidentID), bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanRoute_Success(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.routes.EXPECT().
		PlanRoute(gomock.Any(), models.Coord{Lat: 31.325, Lng: 75.578}, models.Coord{Lat: 31.331, Lng: 75.578}).
		Return(&models.Route{
			Path:           []models.Coord{{Lat: 31.325, Lng: 75.578}, {Lat: 31.331, Lng: 75.578}},
			SafetyScore:    100,
			DistanceMeters: 667,
		}, nil).Times(1)

	body := `{"start":{"lat":31.325,"lng":75.578},"end":{"lat":31.331,"lng":75.578}}`
	w := makeRequest(router, "POST", "/api/route", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Route, 2)
	assert.Equal(t, 100.0, resp.SafetyScore)
	assert.InDelta(t, 0.667, resp.DistanceKm, 0.001)
	assert.False(t, resp.IsDetoured)
}

func TestPlanRoute_MissingEnd(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.routes.EXPECT().PlanRoute(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := `{"start":{"lat":31.325,"lng":75.578}}`
	w := makeRequest(router, "POST", "/api/route", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckLocation_InDanger(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.zones.EXPECT().
		CheckLocation(gomock.Any(), models.Coord{Lat: 31.3180, Lng: 75.5820}).
		Return([]*models.Zone{{
			ID:           uuid.New(),
			Kind:         models.ZoneDanger,
			Name:         "Cantt Area",
			RadiusMeters: 200,
		}}, nil).Times(1)

	body := `{"lat":31.3180,"lng":75.5820}`
	w := makeRequest(router, "POST", "/api/location/check", bytes.NewBufferString(body), authed())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ZoneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Cantt Area", resp[0].Name)
}

func TestCheckLocation_Safe(t *testing.T) {
	tm, router := newTestHandler(t)

	tm.zones.EXPECT().
		CheckLocation(gomock.Any(), gomock.Any()).
		Return([]*models.Zone{}, nil).Times(1)

	w := makeRequest(router, "POST", "/api/location/check", bytes.NewBufferString(`{"lat":31.3,"lng":75.5}`), authed())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
