// Package osrm is a minimal client for an OSRM-compatible routing service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guardaid/safety-backend/internal/metrics"
	"github.com/guardaid/safety-backend/internal/models"
)

// Client fetches driving routes from an OSRM HTTP endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a Client for the given base URL, e.g.
// https://router.project-osrm.org. Every request carries the timeout.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type routeResponse struct {
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// FetchRoute requests the driving route between start and end and returns the
// ordered route points. Any non-2xx status, malformed body or empty route set
// is an error; callers degrade to a straight line.
func (c *Client) FetchRoute(ctx context.Context, start, end models.Coord) ([]models.Coord, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, start.Lng, start.Lat, end.Lng, end.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create route request: %w", err)
	}

	metrics.ProviderRequestsTotal.Inc()
	began := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderDurationMs.Observe(float64(time.Since(began).Milliseconds()))
	if err != nil {
		metrics.ProviderFailTotal.Inc()
		return nil, fmt.Errorf("route provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ProviderFailTotal.Inc()
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("route provider returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.ProviderFailTotal.Inc()
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}

	if len(body.Routes) == 0 || len(body.Routes[0].Geometry.Coordinates) == 0 {
		metrics.ProviderFailTotal.Inc()
		return nil, fmt.Errorf("route provider returned no route")
	}

	coords := body.Routes[0].Geometry.Coordinates
	route := make([]models.Coord, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		// GeoJSON order is [lng, lat].
		route = append(route, models.Coord{Lat: c[1], Lng: c[0]})
	}
	if len(route) == 0 {
		return nil, fmt.Errorf("route provider returned malformed geometry")
	}

	c.logger.WithField("points", len(route)).Debug("Fetched route from provider")
	return route, nil
}
