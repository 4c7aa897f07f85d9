package osrm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardaid/safety-backend/internal/models"
)

func newTestClient(serverURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewClient(serverURL, 5*time.Second, logger)
}

func TestFetchRoute_Success(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		fmt.Fprint(w, `{"routes":[{"geometry":{"coordinates":[[75.578,31.325],[75.579,31.328],[75.578,31.331]]}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	route, err := client.FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})

	require.NoError(t, err)
	require.Len(t, route, 3)
	// GeoJSON pairs are [lng, lat], the client flips them back.
	assert.Equal(t, models.Coord{Lat: 31.325, Lng: 75.578}, route[0])
	assert.Equal(t, models.Coord{Lat: 31.328, Lng: 75.579}, route[1])
	// The URL carries lng,lat;lng,lat after the profile.
	assert.Contains(t, requestedPath, "/route/v1/driving/75.578000,31.325000;75.578000,31.331000")
}

func TestFetchRoute_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})
	assert.Error(t, err)
}

func TestFetchRoute_NoRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"routes":[]}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})
	assert.Error(t, err)
}

func TestFetchRoute_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"routes":`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})
	assert.Error(t, err)
}

func TestFetchRoute_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})
	assert.Error(t, err)
}

func TestFetchRoute_SkipsShortCoordinatePairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"routes":[{"geometry":{"coordinates":[[75.578,31.325],[75.579]]}}]}`)
	}))
	defer server.Close()

	route, err := newTestClient(server.URL).FetchRoute(context.Background(),
		models.Coord{Lat: 31.325, Lng: 75.578},
		models.Coord{Lat: 31.331, Lng: 75.578})

	require.NoError(t, err)
	require.Len(t, route, 1)
}
